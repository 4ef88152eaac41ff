// Package sse implements seek.Backend over the chat backend's server-sent
// events endpoint.
package sse

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/fwojciec/seek"
)

const streamPath = "/chat_stream/"

// maxErrorBody caps how much of a non-200 response body is read into errors.
const maxErrorBody = 4 << 10

// Interface compliance check.
var _ seek.Backend = (*Client)(nil)

// Client implements [seek.Backend] for the chat_stream endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a [Client].
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger. The default discards all records.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a new [Client] for the backend at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Open issues the streaming GET request for req and returns a [seek.Stream]
// of raw frame payloads.
func (c *Client) Open(ctx context.Context, req seek.Request) (seek.Stream, error) {
	target := c.URL(req)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("sse: %w", err)
	}
	httpReq.Header.Set("Accept", "text/event-stream")
	httpReq.Header.Set("Cache-Control", "no-cache")

	c.logger.Debug("connecting", "url", target)
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("sse: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, parseHTTPError(resp)
	}

	return newStream(ctx, resp.Body), nil
}

// URL returns the stream target for req: the percent-escaped turn text as a
// path segment, plus the checkpoint_id query parameter when one is held.
func (c *Client) URL(req seek.Request) string {
	target := c.baseURL + streamPath + url.PathEscape(req.Text)
	if req.CheckpointID != "" {
		target += "?" + url.Values{"checkpoint_id": {req.CheckpointID}}.Encode()
	}
	return target
}

func parseHTTPError(resp *http.Response) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return fmt.Errorf("sse: HTTP %d (failed to read body: %w)", resp.StatusCode, err)
	}
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return fmt.Errorf("sse: HTTP %d", resp.StatusCode)
	}
	return fmt.Errorf("sse: HTTP %d: %s", resp.StatusCode, msg)
}
