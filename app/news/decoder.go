package news

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Redirector protocol constants. The batch RPC payload shape is an externally
// imposed contract of the aggregator's private protocol; treat it as opaque.
const (
	batchExecutePath = "/_/DotsSplashUi/data/batchexecute"
	decodeOpcode     = "Fbv4je"

	signatureSelector = "c-wiz > div[jscontroller]"
	signatureAttr     = "data-n-a-sg"
	timestampAttr     = "data-n-a-ts"
)

var redirectorKinds = map[string]bool{
	"articles": true,
	"read":     true,
}

// Decoder resolves the aggregator's obfuscated redirector links to the
// publisher's canonical URL. Every failure degrades to the next fallback;
// Resolve always returns a usable URL.
type Decoder struct {
	client    *http.Client
	userAgent string
	timeout   time.Duration
	baseURL   string
	host      string
}

func NewDecoder(client *http.Client, userAgent, baseURL string, timeout time.Duration) *Decoder {
	host := ""
	if u, err := url.Parse(baseURL); err == nil {
		host = u.Host
	}

	return &Decoder{
		client:    client,
		userAgent: userAgent,
		timeout:   timeout,
		baseURL:   strings.TrimRight(baseURL, "/"),
		host:      host,
	}
}

// Resolve maps a redirector URL to the publisher URL. Non-redirector inputs
// pass through unchanged. Decoded reports whether the result left the
// aggregator's domain, which downstream uses to suppress aggregator-hosted
// preview images.
func (d *Decoder) Resolve(ctx context.Context, rawURL string) DecodeResult {
	encodedID, ok := d.encodedID(rawURL)
	if !ok {
		return DecodeResult{URL: rawURL, Decoded: !strings.Contains(rawURL, d.host)}
	}

	decoded, err := d.decodeViaRPC(ctx, encodedID)
	if err == nil {
		return DecodeResult{URL: decoded, Decoded: true}
	}
	slog.Debug("RPC decode failed, falling back to redirect resolution", "url", rawURL, "error", err)

	final, err := d.resolveViaRedirect(ctx, rawURL)
	if err == nil {
		return DecodeResult{URL: final, Decoded: true}
	}
	slog.Debug("Redirect resolution failed", "url", rawURL, "error", err)

	return DecodeResult{URL: rawURL, Decoded: false}
}

// encodedID extracts the opaque trailing path segment from a redirector
// link. Only the aggregator's "articles" and "read" paths carry one.
func (d *Decoder) encodedID(rawURL string) (string, bool) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host != d.host {
		return "", false
	}

	segments := strings.Split(parsed.Path, "/")
	if len(segments) < 2 {
		return "", false
	}
	if !redirectorKinds[segments[len(segments)-2]] {
		return "", false
	}

	return segments[len(segments)-1], true
}

// decodeViaRPC performs the two-phase decode: scrape the signature and
// timestamp tokens from an article detail page, then exchange them plus the
// encoded id for the canonical URL at the batch-execute endpoint.
func (d *Decoder) decodeViaRPC(ctx context.Context, encodedID string) (string, error) {
	signature, timestamp, err := d.discoverSignature(ctx, encodedID)
	if err != nil {
		return "", err
	}

	form, err := buildDecodeRequest(encodedID, timestamp, signature)
	if err != nil {
		return "", err
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "POST", d.baseURL+batchExecutePath, strings.NewReader(form))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", d.userAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded;charset=UTF-8")

	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("batch execute request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	return d.parseDecodeResponse(data)
}

// discoverSignature tries the two known article detail templates and scrapes
// the signature and timestamp data attributes from the first page exposing
// both.
func (d *Decoder) discoverSignature(ctx context.Context, encodedID string) (string, string, error) {
	templates := []string{
		d.baseURL + "/articles/" + encodedID,
		d.baseURL + "/rss/articles/" + encodedID,
	}

	for _, detailURL := range templates {
		data, err := d.get(ctx, detailURL)
		if err != nil {
			slog.Debug("Article detail fetch failed", "url", detailURL, "error", err)
			continue
		}

		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
		if err != nil {
			continue
		}

		container := doc.Find(signatureSelector).First()
		signature, _ := container.Attr(signatureAttr)
		timestamp, _ := container.Attr(timestampAttr)
		if signature != "" && timestamp != "" {
			return signature, timestamp, nil
		}
	}

	return "", "", errors.New("signature and timestamp attributes not found")
}

// buildDecodeRequest assembles the form-encoded batch RPC body. The inner
// payload is a protocol constant except for the encoded id, timestamp, and
// signature slots; keep any format drift contained here.
func buildDecodeRequest(encodedID, timestamp, signature string) (string, error) {
	inner := fmt.Sprintf(
		`["garturlreq",[["X","X",["X","X"],null,null,1,1,"US:en",null,1,null,null,null,null,null,0,1],"X","X",1,[1,1,1],1,1,null,0,0,null,0],"%s",%s,"%s"]`,
		encodedID, timestamp, signature)

	envelope, err := json.Marshal([]any{[]any{[]any{decodeOpcode, inner}}})
	if err != nil {
		return "", fmt.Errorf("failed to encode RPC payload: %w", err)
	}

	return "f.req=" + url.QueryEscape(string(envelope)), nil
}

// parseDecodeResponse digs the canonical URL out of the line-delimited RPC
// response: the JSON payload sits on the second newline-pair-delimited
// chunk, carries a fixed 2-element suffix, and embeds the URL as the second
// element of a JSON-encoded string at index 2 of the first row.
func (d *Decoder) parseDecodeResponse(data []byte) (string, error) {
	chunks := strings.Split(string(data), "\n\n")
	if len(chunks) < 2 {
		return "", errors.New("unexpected response framing")
	}

	var outer []json.RawMessage
	if err := json.Unmarshal([]byte(chunks[1]), &outer); err != nil {
		return "", fmt.Errorf("failed to decode response envelope: %w", err)
	}
	if len(outer) < 3 {
		return "", errors.New("response envelope too short")
	}

	var row []json.RawMessage
	if err := json.Unmarshal(outer[0], &row); err != nil {
		return "", fmt.Errorf("failed to decode response row: %w", err)
	}
	if len(row) < 3 {
		return "", errors.New("response row too short")
	}

	var embedded string
	if err := json.Unmarshal(row[2], &embedded); err != nil {
		return "", fmt.Errorf("failed to decode embedded payload: %w", err)
	}

	var payload []any
	if err := json.Unmarshal([]byte(embedded), &payload); err != nil {
		return "", fmt.Errorf("failed to decode embedded payload: %w", err)
	}
	if len(payload) < 2 {
		return "", errors.New("embedded payload too short")
	}

	decoded, ok := payload[1].(string)
	if !ok || decoded == "" {
		return "", errors.New("decoded URL missing")
	}
	if strings.Contains(decoded, d.host) {
		return "", errors.New("decoded URL still points at the aggregator")
	}

	return decoded, nil
}

// resolveViaRedirect is the last resort: follow the redirector link itself
// and accept wherever the redirects land, as long as it is off-aggregator.
func (d *Decoder) resolveViaRedirect(ctx context.Context, rawURL string) (string, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to follow redirects: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	final := resp.Request.URL.String()
	if strings.Contains(final, d.host) {
		return "", errors.New("redirects stayed on the aggregator")
	}

	return final, nil
}

func (d *Decoder) get(ctx context.Context, rawURL string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
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
