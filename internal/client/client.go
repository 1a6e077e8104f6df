// Package client talks to the content-log admin API.
package client

import (
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

	"github.com/google/uuid"
)

// ContentLogsPath is the log-listing endpoint.
const ContentLogsPath = "/api/log/content"

// maxBodySize caps how much of a response body is read.
const maxBodySize = 32 << 20

// Envelope is the response wrapper used by every admin endpoint.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// TransportError reports a request that never produced a usable envelope:
// network failures, unexpected status codes and undecodable bodies.
type TransportError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Client is a small HTTP client for the admin API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout. A client passed to
// WithHTTPClient is copied first and never modified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.httpClient
		hc.Timeout = d
		c.httpClient = &hc
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a client for the server at baseURL authenticating with token.
func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchContentLogs issues GET /api/log/content with the given query.
// An envelope with Success=false is returned without error; callers decide
// how to surface application failures.
func (c *Client) FetchContentLogs(ctx context.Context, params url.Values) (*Envelope, error) {
	u := c.baseURL + ContentLogsPath
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return c.do(ctx, http.MethodGet, u)
}

// DeleteContentLogs removes logs created before the given unix timestamp.
func (c *Client) DeleteContentLogs(ctx context.Context, before int64) (*Envelope, error) {
	params := url.Values{}
	params.Set("target_timestamp", fmt.Sprint(before))
	return c.do(ctx, http.MethodDelete, c.baseURL+ContentLogsPath+"?"+params.Encode())
}

func (c *Client) do(ctx context.Context, method, u string) (*Envelope, error) {
	op := method + " " + ContentLogsPath

	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	c.logger.Debug("admin api request",
		"method", method,
		"url", u,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
		"request_id", requestID,
	)
	if err != nil {
		return nil, &TransportError{Op: op, StatusCode: resp.StatusCode, Err: err}
	}

	var env Envelope
	decodeErr := json.Unmarshal(body, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		reason := http.StatusText(resp.StatusCode)
		if decodeErr == nil && env.Message != "" {
			reason = env.Message
		}
		return nil, &TransportError{Op: op, StatusCode: resp.StatusCode, Err: errors.New(reason)}
	}
	if decodeErr != nil {
		return nil, &TransportError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode body: %w", decodeErr)}
	}
	return &env, nil
}
