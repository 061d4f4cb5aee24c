package news

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/samber/lo"
)

// Aggregator fans a comma-separated query list out to the Fetcher and merges
// the per-query results into one deduplicated, time-ranked feed. All state is
// request-scoped; nothing is shared between requests.
type Aggregator struct {
	fetcher *Fetcher
}

func NewAggregator(fetcher *Fetcher) *Aggregator {
	return &Aggregator{fetcher: fetcher}
}

// Run processes queries sequentially; a failed query logs a warning and
// contributes nothing. The only error surface is request cancellation.
func (a *Aggregator) Run(ctx context.Context, rawQuery string) ([]Article, error) {
	var merged []Article

	for _, query := range SplitQueries(rawQuery) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		articles, err := a.fetcher.Run(ctx, query)
		if err != nil {
			slog.Warn("Query contributed no articles", "query", query, "error", err)
			continue
		}

		merged = append(merged, articles...)
	}

	// Dedup by resolved URL keeps the first-seen article; the first
	// occurrence carries per-query ordering and wins any field conflicts.
	unique := lo.UniqBy(merged, func(article Article) string {
		return article.URL
	})

	sort.SliceStable(unique, func(i, j int) bool {
		return ParsePublished(unique[i].PublishedAt).After(ParsePublished(unique[j].PublishedAt))
	})

	return unique, nil
}

// SplitQueries splits a comma-separated query string into trimmed non-empty
// queries.
func SplitQueries(raw string) []string {
	parts := strings.Split(raw, ",")

	queries := make([]string, 0, len(parts))
	for _, part := range parts {
		if query := strings.TrimSpace(part); query != "" {
			queries = append(queries, query)
		}
	}

	return queries
}
