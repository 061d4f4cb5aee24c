package cfg

type Cfg struct {
	// HTTP server
	Port string

	// Outbound HTTP client
	UserAgent      string
	RequestTimeout int // seconds, general outbound requests
	ArticleTimeout int // seconds, article body fetches
	MaxConnections int
	MaxIdleConns   int

	// Topic suggestion (OpenAI-compatible endpoint)
	LLMAPIKey  string
	LLMModel   string
	LLMBaseURL string

	// Application metadata
	Debug   bool
	Version string
}
