package api

import (
	"context"

	"github.com/anazmuhdd/jarvis-acsia/app/news"
	"github.com/anazmuhdd/jarvis-acsia/app/topics"
)

type AggregatorInterface interface {
	Run(ctx context.Context, rawQuery string) ([]news.Article, error)
}

var _ AggregatorInterface = (*news.Aggregator)(nil)

type SuggesterInterface interface {
	Run(ctx context.Context, role string) ([]string, error)
}

var _ SuggesterInterface = (*topics.Suggester)(nil)

type Handler struct {
	aggregator AggregatorInterface
	suggester  SuggesterInterface
}

type TopicsRequest struct {
	Role string `json:"role"`
}
