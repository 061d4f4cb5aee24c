package cfg

import (
	"cmp"
	"fmt"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

// Publishers routinely block non-browser agents, so the default mimics a
// current desktop Chrome.
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/129.0.0.0 Safari/537.36"

type rawCfg struct {
	// HTTP server
	Port string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`

	// Outbound HTTP client
	UserAgent      string `long:"user-agent" env:"USER_AGENT" description:"User agent string for outbound HTTP requests"`
	RequestTimeout int    `long:"request-timeout" env:"REQUEST_TIMEOUT" default:"15" description:"Outbound request timeout in seconds"`
	ArticleTimeout int    `long:"article-timeout" env:"ARTICLE_TIMEOUT" default:"10" description:"Article body fetch timeout in seconds"`
	MaxConnections int    `long:"max-connections" env:"MAX_CONNECTIONS" default:"5" description:"Maximum outbound connections per host"`
	MaxIdleConns   int    `long:"max-idle-connections" env:"MAX_IDLE_CONNECTIONS" default:"2" description:"Maximum idle outbound connections"`

	// Topic suggestion (OpenAI-compatible endpoint)
	LLMAPIKey  string `long:"llm-api-key" env:"NVIDIA_API_KEY" description:"API key for the topic suggestion endpoint"`
	LLMModel   string `long:"llm-model" env:"NVIDIA_MODEL" default:"qwen/qwen3-coder-480b-a35b-instruct" description:"Model used for topic suggestion"`
	LLMBaseURL string `long:"llm-base-url" env:"NVIDIA_BASE_URL" default:"https://integrate.api.nvidia.com/v1" description:"Base URL of the OpenAI-compatible topic suggestion endpoint"`

	Debug bool `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	// A local .env is optional; absence is not an error.
	_ = godotenv.Load()

	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		Port:           raw.Port,
		UserAgent:      cmp.Or(raw.UserAgent, defaultUserAgent),
		RequestTimeout: raw.RequestTimeout,
		ArticleTimeout: raw.ArticleTimeout,
		MaxConnections: raw.MaxConnections,
		MaxIdleConns:   raw.MaxIdleConns,
		LLMAPIKey:      raw.LLMAPIKey,
		LLMModel:       raw.LLMModel,
		LLMBaseURL:     raw.LLMBaseURL,
		Debug:          raw.Debug,
		Version:        GetVersion(),
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}
