package api

import (
	"cmp"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/anazmuhdd/jarvis-acsia/app/cfg"
	"github.com/anazmuhdd/jarvis-acsia/app/news"
	"github.com/anazmuhdd/jarvis-acsia/app/topics"
)

func NewHandler(aggregator AggregatorInterface, suggester SuggesterInterface) *Handler {
	return &Handler{
		aggregator: aggregator,
		suggester:  suggester,
	}
}

// GetNews runs the aggregation pipeline over the comma-separated q
// parameter. The optional role parameter is accepted for interface parity
// but does not influence aggregation.
func (h *Handler) GetNews(c *gin.Context) {
	query := c.DefaultQuery("q", "technology")

	articles, err := h.aggregator.Run(c.Request.Context(), query)
	if err != nil {
		slog.Error("News aggregation failed", "query", query, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"detail": err.Error()})
		return
	}

	if articles == nil {
		articles = []news.Article{}
	}

	c.JSON(http.StatusOK, gin.H{"articles": articles})
}

// GenerateTopics asks the suggestion collaborator for search queries
// tailored to a role. Suggestion failure degrades to a default query set
// rather than an error status.
func (h *Handler) GenerateTopics(c *gin.Context) {
	var req TopicsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Debug("Malformed topics request, using defaults", "error", err)
	}
	role := cmp.Or(req.Role, "Engineer")

	queries, err := h.suggester.Run(c.Request.Context(), role)
	if err != nil {
		slog.Error("Topic suggestion failed", "role", role, "error", err)
		c.JSON(http.StatusOK, gin.H{
			"queries": topics.Fallback(role),
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"queries": queries})
}

func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   cfg.GetVersion(),
	})
}

func (h *Handler) GetRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Welcome to the Jarvis ACSIA API",
	})
}
