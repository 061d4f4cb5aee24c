package news

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/araddon/dateparse"
	"github.com/mmcdole/gofeed"
)

const topItemsPerQuery = 5

// Fetcher retrieves the search feed for a single query, ranks the items by
// publish time, and enriches the most recent ones.
type Fetcher struct {
	client    *http.Client
	parser    *gofeed.Parser
	enricher  *Enricher
	userAgent string
	timeout   time.Duration
	baseURL   string
}

func NewFetcher(client *http.Client, enricher *Enricher, userAgent, baseURL string, timeout time.Duration) *Fetcher {
	return &Fetcher{
		client:    client,
		parser:    gofeed.NewParser(),
		enricher:  enricher,
		userAgent: userAgent,
		timeout:   timeout,
		baseURL:   baseURL,
	}
}

// Run fetches and parses the search feed for one query and returns up to
// five enriched articles, newest first. Feed fetch or parse failure is the
// pipeline's only hard error: the query then contributes zero articles.
func (f *Fetcher) Run(ctx context.Context, query string) ([]Article, error) {
	data, err := f.fetchFeed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch search feed: %w", err)
	}

	feed, err := f.parser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse search feed: %w", err)
	}

	type rankedItem struct {
		item        FeedItem
		publishedAt time.Time
	}

	ranked := make([]rankedItem, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}

		publishedAt := time.Time{}
		if item.PublishedParsed != nil {
			publishedAt = *item.PublishedParsed
		} else {
			publishedAt = ParsePublished(item.Published)
		}

		ranked = append(ranked, rankedItem{
			item: FeedItem{
				Title:       item.Title,
				Link:        item.Link,
				Description: item.Description,
				Published:   item.Published,
			},
			publishedAt: publishedAt,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].publishedAt.After(ranked[j].publishedAt)
	})
	if len(ranked) > topItemsPerQuery {
		ranked = ranked[:topItemsPerQuery]
	}

	// Items are enriched one at a time so peak in-flight work stays at a
	// single article on constrained deployments.
	articles := make([]Article, 0, len(ranked))
	for _, r := range ranked {
		articles = append(articles, f.enricher.Run(ctx, r.item))
	}

	return articles, nil
}

func (f *Fetcher) fetchFeed(ctx context.Context, query string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", f.feedURL(query), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}

func (f *Fetcher) feedURL(query string) string {
	params := url.Values{}
	params.Set("q", query)
	params.Set("hl", "en-US")
	params.Set("gl", "US")
	params.Set("ceid", "US:en")

	return f.baseURL + "/rss/search?" + params.Encode()
}

// ParsePublished parses a feed-native pubDate, falling back to tolerant
// parsing for off-format values. Unparseable values collapse to the zero
// time so they rank last.
func ParsePublished(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	if t, err := time.Parse(pubDateLayout, value); err == nil {
		return t
	}
	if t, err := dateparse.ParseAny(value); err == nil {
		return t
	}
	return time.Time{}
}
