package news

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// ImageExtractor pulls a representative preview image out of an article
// page's metadata. Extraction is best effort: any failure yields a nil
// image, never an error.
type ImageExtractor struct {
	client    *http.Client
	userAgent string
	timeout   time.Duration
}

func NewImageExtractor(client *http.Client, userAgent string, timeout time.Duration) *ImageExtractor {
	return &ImageExtractor{
		client:    client,
		userAgent: userAgent,
		timeout:   timeout,
	}
}

// Run fetches the article page and returns the final post-redirect URL plus
// the first og:image or twitter:image candidate hosted outside the
// aggregator's domains. The parsed document is discarded as soon as the meta
// tags have been read.
func (e *ImageExtractor) Run(ctx context.Context, articleURL string) (string, *string) {
	timeoutCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", articleURL, nil)
	if err != nil {
		return articleURL, nil
	}

	req.Header.Set("User-Agent", e.userAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		slog.Debug("Article page fetch failed", "url", articleURL, "error", err)
		return articleURL, nil
	}
	defer resp.Body.Close()

	finalURL := resp.Request.URL.String()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return finalURL, nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return finalURL, nil
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return finalURL, nil
	}

	for _, selector := range []string{
		`meta[property="og:image"]`,
		`meta[name="twitter:image"]`,
	} {
		candidate, _ := doc.Find(selector).First().Attr("content")
		if candidate != "" && !onAggregatorDomain(candidate) {
			return finalURL, &candidate
		}
	}

	return finalURL, nil
}

// onAggregatorDomain reports whether a URL points at the news portal, its
// static-asset CDN, or its user-content CDN.
func onAggregatorDomain(rawURL string) bool {
	for _, domain := range aggregatorDomains {
		if strings.Contains(rawURL, domain) {
			return true
		}
	}
	return false
}
