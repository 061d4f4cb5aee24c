// Package topics maps a professional role to a list of news search queries
// via an OpenAI-compatible chat completion endpoint. The aggregation
// pipeline consumes the resulting list as its query input but does not
// depend on how it was produced.
package topics

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

type Suggester struct {
	client *openai.Client
	model  string
}

func NewSuggester(apiKey, model, baseURL string) *Suggester {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}

	return &Suggester{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

// Some models wrap their reasoning in think blocks; they never belong in
// the query list.
var thinkBlockPattern = regexp.MustCompile(`(?s)<think>.*?</think>`)

// Run asks the model for search queries tailored to the given role.
func (s *Suggester) Run(ctx context.Context, role string) ([]string, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(role)},
		},
		Temperature: 0.2,
		MaxTokens:   2000,
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("completion returned no choices")
	}

	queries := ParseQueries(resp.Choices[0].Message.Content)
	if len(queries) == 0 {
		return nil, errors.New("completion contained no usable queries")
	}

	return queries, nil
}

// ParseQueries cleans a raw completion into individual queries: think blocks
// stripped, entries split on commas and newlines, surrounding quotes and
// whitespace removed, short fragments dropped.
func ParseQueries(raw string) []string {
	raw = strings.TrimSpace(thinkBlockPattern.ReplaceAllString(raw, ""))

	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '\n'
	})

	queries := make([]string, 0, len(parts))
	for _, part := range parts {
		query := strings.TrimSpace(part)
		query = strings.Trim(query, `"'`)
		query = strings.TrimSpace(query)
		if len(query) > 3 {
			queries = append(queries, query)
		}
	}

	return queries
}

// Fallback returns the default query set used when suggestion fails.
func Fallback(role string) []string {
	return []string{
		fmt.Sprintf("%s technology trends", role),
		"AI development",
		"engineering best practices",
	}
}

func buildPrompt(role string) string {
	return fmt.Sprintf(
		"Act as a professional intelligence analyst for a %[1]s. Your objective is to curate a highly "+
			"informative, engaging, and learnable news feed that keeps this professional at the absolute "+
			"forefront of their industry. Generate a generous list of 20 precise, high-quality Google News search queries.\n\n"+
			"CRITICAL CONTEXT: Our company operates in the AUTOMOTIVE industry. You MUST include queries related to:\n"+
			"- Emerging trends in Automotive and AI-driven automotive technologies.\n"+
			"- How a %[1]s operates, innovates, or builds organizations within the Automotive industry.\n"+
			"- Building and maintaining software/systems/organizations for automotive.\n\n"+
			"The queries MUST include specific patterns such as:\n"+
			"1. '%[1]s news latest' (Current industry events)\n"+
			"2. '%[1]s tools and frameworks 2025' (New technology adoption)\n"+
			"3. 'Technical deep dive into %[1]s principles in Automotive'\n"+
			"4. 'Latest %[1]s professional trends 2024-2025'\n"+
			"5. 'Innovative %[1]s case studies and breakthroughs in Automotive AI'\n\n"+
			"Goal: Create a feed that is a 'learning experience' and keeps them updated on tools, news, and shifts.\n\n"+
			"Rules:\n"+
			"- No job search, recruitment, or career-advice related queries.\n"+
			"- Return as a simple comma-separated list of strings.\n"+
			"- Provide NO conversational filler, NO numbering, and NO markdown formatting.\n"+
			"- Total count: Exactly 20 queries.",
		role)
}
