// Package fetch builds the shared outbound HTTP client used by every
// pipeline component. A single client instance is created in main and
// injected, so the connection caps below bound the whole process.
package fetch

import (
	"crypto/tls"
	"net/http"
	"time"
)

// NewClient returns the shared outbound client. TLS certificate verification
// is disabled on purpose: the pipeline talks to arbitrary publisher sites,
// many of which serve expired or mismatched certificates, and no credentials
// or sensitive payloads travel over these connections. The connection caps
// keep peak memory predictable on small deployments. Per-request deadlines
// are the caller's job via context, so the client itself carries no Timeout.
func NewClient(maxConns, maxIdle int) *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			TLSClientConfig:     &tls.Config{InsecureSkipVerify: true},
			MaxConnsPerHost:     maxConns,
			MaxIdleConns:        maxIdle,
			MaxIdleConnsPerHost: maxIdle,
			IdleConnTimeout:     30 * time.Second,
		},
	}
}
