package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/anazmuhdd/jarvis-acsia/app/news"
)

type stubAggregator struct {
	articles []news.Article
	err      error
	gotQuery string
}

func (s *stubAggregator) Run(ctx context.Context, rawQuery string) ([]news.Article, error) {
	s.gotQuery = rawQuery
	return s.articles, s.err
}

type stubSuggester struct {
	queries []string
	err     error
	gotRole string
}

func (s *stubSuggester) Run(ctx context.Context, role string) ([]string, error) {
	s.gotRole = role
	return s.queries, s.err
}

func newTestServer(aggregator AggregatorInterface, suggester SuggesterInterface) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewServer(NewHandler(aggregator, suggester))
}

func TestGetNews_Success(t *testing.T) {
	image := "https://cdn.publisher.test/a.jpg"
	aggregator := &stubAggregator{articles: []news.Article{
		{
			Title:       "Story",
			Description: "summary...",
			URL:         "https://publisher.test/story",
			URLToImage:  &image,
			Source:      news.Source{Name: "Publisher"},
			PublishedAt: "Mon, 06 Jan 2025 09:00:00 GMT",
		},
	}}

	server := newTestServer(aggregator, &stubSuggester{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/news?q=golang,infra", nil)
	server.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if aggregator.gotQuery != "golang,infra" {
		t.Errorf("Expected query passed through, got %q", aggregator.gotQuery)
	}

	var resp struct {
		Articles []news.Article `json:"articles"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Articles) != 1 || resp.Articles[0].Title != "Story" {
		t.Errorf("Unexpected payload: %s", w.Body.String())
	}
}

func TestGetNews_DefaultQuery(t *testing.T) {
	aggregator := &stubAggregator{}
	server := newTestServer(aggregator, &stubSuggester{})

	w := httptest.NewRecorder()
	server.ServeHTTP(w, httptest.NewRequest("GET", "/api/news", nil))

	if aggregator.gotQuery != "technology" {
		t.Errorf("Expected default query 'technology', got %q", aggregator.gotQuery)
	}

	// Empty result serializes as an empty array, not null.
	if !strings.Contains(w.Body.String(), `"articles":[]`) {
		t.Errorf("Expected empty articles array, got %s", w.Body.String())
	}
}

func TestGetNews_PipelineError(t *testing.T) {
	aggregator := &stubAggregator{err: errors.New("context canceled")}
	server := newTestServer(aggregator, &stubSuggester{})

	w := httptest.NewRecorder()
	server.ServeHTTP(w, httptest.NewRequest("GET", "/api/news?q=x", nil))

	if w.Code != http.StatusBadGateway {
		t.Fatalf("Expected 502, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "context canceled") {
		t.Errorf("Expected error detail in body, got %s", w.Body.String())
	}
}

func TestGenerateTopics_Success(t *testing.T) {
	suggester := &stubSuggester{queries: []string{"query one", "query two"}}
	server := newTestServer(&stubAggregator{}, suggester)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/generate-topics", strings.NewReader(`{"role":"Data Engineer"}`))
	req.Header.Set("Content-Type", "application/json")
	server.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if suggester.gotRole != "Data Engineer" {
		t.Errorf("Expected role passed through, got %q", suggester.gotRole)
	}
	if !strings.Contains(w.Body.String(), "query one") {
		t.Errorf("Unexpected payload: %s", w.Body.String())
	}
}

func TestGenerateTopics_FallbackOnError(t *testing.T) {
	suggester := &stubSuggester{err: errors.New("upstream unavailable")}
	server := newTestServer(&stubAggregator{}, suggester)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/generate-topics", strings.NewReader(`{"role":"Architect"}`))
	req.Header.Set("Content-Type", "application/json")
	server.ServeHTTP(w, req)

	// Suggestion failure degrades to defaults, not an error status.
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Architect technology trends") {
		t.Errorf("Expected fallback queries, got %s", w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "upstream unavailable") {
		t.Errorf("Expected error detail alongside fallback, got %s", w.Body.String())
	}
}

func TestGenerateTopics_DefaultRole(t *testing.T) {
	suggester := &stubSuggester{queries: []string{"default role query"}}
	server := newTestServer(&stubAggregator{}, suggester)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/generate-topics", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	server.ServeHTTP(w, req)

	if suggester.gotRole != "Engineer" {
		t.Errorf("Expected default role 'Engineer', got %q", suggester.gotRole)
	}
}

func TestGetHealth(t *testing.T) {
	server := newTestServer(&stubAggregator{}, &stubSuggester{})

	w := httptest.NewRecorder()
	server.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "timestamp") {
		t.Errorf("Unexpected health payload: %s", w.Body.String())
	}
}
