package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anazmuhdd/jarvis-acsia/app/api"
	"github.com/anazmuhdd/jarvis-acsia/app/cfg"
	"github.com/anazmuhdd/jarvis-acsia/app/fetch"
	"github.com/anazmuhdd/jarvis-acsia/app/news"
	"github.com/anazmuhdd/jarvis-acsia/app/topics"
)

func main() {
	c, err := cfg.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if c == nil {
		// Help was shown, exit gracefully
		return
	}

	if c.Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	slog.Info("Starting Jarvis ACSIA server", "version", c.Version)

	// One shared client for the whole pipeline keeps the connection caps
	// process-wide.
	client := fetch.NewClient(c.MaxConnections, c.MaxIdleConns)

	requestTimeout := time.Duration(c.RequestTimeout) * time.Second
	articleTimeout := time.Duration(c.ArticleTimeout) * time.Second

	decoder := news.NewDecoder(client, c.UserAgent, news.DefaultBaseURL, requestTimeout)
	images := news.NewImageExtractor(client, c.UserAgent, articleTimeout)
	enricher := news.NewEnricher(decoder, images)
	fetcher := news.NewFetcher(client, enricher, c.UserAgent, news.DefaultBaseURL, requestTimeout)
	aggregator := news.NewAggregator(fetcher)

	suggester := topics.NewSuggester(c.LLMAPIKey, c.LLMModel, c.LLMBaseURL)

	handler := api.NewHandler(aggregator, suggester)
	server := api.NewServer(handler)

	httpServer := &http.Server{
		Addr:         ":" + c.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", c.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("HTTP server error", "error", err)
	}

	slog.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Shutdown complete")
}
