package news

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestExtractor() *ImageExtractor {
	return NewImageExtractor(&http.Client{}, "test-agent", 5*time.Second)
}

func TestImageExtractor_OpenGraphImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><meta property="og:image" content="https://cdn.publisher.test/hero.jpg"/></head><body></body></html>`)
	}))
	defer server.Close()

	finalURL, image := newTestExtractor().Run(context.Background(), server.URL+"/story")
	if finalURL != server.URL+"/story" {
		t.Errorf("Unexpected final URL: %s", finalURL)
	}
	if image == nil || *image != "https://cdn.publisher.test/hero.jpg" {
		t.Errorf("Expected og:image candidate, got %v", image)
	}
}

func TestImageExtractor_RejectsAggregatorImage(t *testing.T) {
	// og:image on the aggregator's asset CDN must be rejected even though it
	// is present and well-formed.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><meta property="og:image" content="https://www.gstatic.com/img/logo.png"/></head></html>`)
	}))
	defer server.Close()

	_, image := newTestExtractor().Run(context.Background(), server.URL)
	if image != nil {
		t.Errorf("Expected nil image for aggregator-hosted candidate, got %q", *image)
	}
}

func TestImageExtractor_TwitterCardFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head>
			<meta property="og:image" content="https://lh3.googleusercontent.com/thumb.png"/>
			<meta name="twitter:image" content="https://images.publisher.test/card.jpg"/>
		</head></html>`)
	}))
	defer server.Close()

	_, image := newTestExtractor().Run(context.Background(), server.URL)
	if image == nil || *image != "https://images.publisher.test/card.jpg" {
		t.Errorf("Expected twitter:image fallback, got %v", image)
	}
}

func TestImageExtractor_NoMetaTags(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><title>plain page</title></head><body></body></html>`)
	}))
	defer server.Close()

	_, image := newTestExtractor().Run(context.Background(), server.URL)
	if image != nil {
		t.Errorf("Expected nil image, got %q", *image)
	}
}

func TestImageExtractor_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `<html><head><meta property="og:image" content="https://cdn.publisher.test/hero.jpg"/></head></html>`)
	}))
	defer server.Close()

	_, image := newTestExtractor().Run(context.Background(), server.URL)
	if image != nil {
		t.Errorf("Expected nil image on non-200 response, got %q", *image)
	}
}

func TestImageExtractor_FollowsRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/final", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><meta property="og:image" content="https://cdn.publisher.test/hero.jpg"/></head></html>`)
	})
	mux.HandleFunc("/moved", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/final", http.StatusMovedPermanently)
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	finalURL, image := newTestExtractor().Run(context.Background(), server.URL+"/moved")
	if finalURL != server.URL+"/final" {
		t.Errorf("Expected post-redirect URL, got %s", finalURL)
	}
	if image == nil {
		t.Error("Expected image from redirected page")
	}
}

func TestImageExtractor_UnreachableHost(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	finalURL, image := newTestExtractor().Run(context.Background(), server.URL)
	if finalURL != server.URL {
		t.Errorf("Expected original URL back on transport error, got %s", finalURL)
	}
	if image != nil {
		t.Error("Expected nil image on transport error")
	}
}
