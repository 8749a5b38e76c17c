// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package backend provides the HTTP client for the nanobot playground API.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"
)

// Configuration constants for the playground API client.
const (
	// DefaultBaseURL is the default playground server address.
	DefaultBaseURL = "http://localhost:8080"

	// DefaultTimeout is the default timeout for control-plane requests.
	DefaultTimeout = 30 * time.Second

	// DefaultChatTimeout is the timeout for chat requests, which can run an
	// agent loop server-side and take far longer than a config fetch.
	DefaultChatTimeout = 5 * time.Minute

	// configRetries is the number of attempts for the config fetch.
	// GET /api/config is idempotent and safe to retry; the mutating calls
	// are never retried automatically.
	configRetries = 3

	// retryBaseDelay is the base delay for exponential backoff.
	retryBaseDelay = 500 * time.Millisecond

	// MaxResponseSize is the maximum allowed response body size.
	// SECURITY: Response size limit prevents memory exhaustion.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB
)

// Client handles communication with the playground backend.
//
// The Client is safe for concurrent use; it holds no mutable state beyond
// the shared http.Client connection pool.
//
// Example:
//
//	client := backend.NewClient("http://localhost:8080")
//	cfg, err := client.GetConfig(ctx)
type Client struct {
	baseURL     string
	httpClient  *http.Client
	chatClient  *http.Client
	userAgent   string
	chatTimeout time.Duration
}

// NewClient creates a client for the playground server at baseURL.
// An empty baseURL falls back to DefaultBaseURL.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	// PERFORMANCE: Connection pooling reduces TCP handshake overhead.
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}

	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   DefaultTimeout,
			Transport: transport,
		},
		chatClient: &http.Client{
			Timeout:   DefaultChatTimeout,
			Transport: transport,
		},
		userAgent:   "nanochat/0.1.0",
		chatTimeout: DefaultChatTimeout,
	}
}

// WithTimeout sets the control-plane request timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.httpClient.Timeout = timeout
	return c
}

// WithChatTimeout sets the chat request timeout.
func (c *Client) WithChatTimeout(timeout time.Duration) *Client {
	c.chatTimeout = timeout
	c.chatClient.Timeout = timeout
	return c
}

// BaseURL returns the configured server address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// =============================================================================
// API CALLS
// =============================================================================

// GetConfig fetches the provider catalog and the backend's currently active
// model and parameters. Idempotent; transient failures are retried with
// exponential backoff.
func (c *Client) GetConfig(ctx context.Context) (*ConfigResponse, error) {
	var lastErr error
	for attempt := 0; attempt < configRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, &ClientError{Type: ErrTypeTimeout, Message: "config fetch canceled", Cause: ctx.Err()}
			case <-time.After(retryBaseDelay << (attempt - 1)):
			}
		}

		var out ConfigResponse
		if err := c.do(ctx, c.httpClient, http.MethodGet, "/api/config", nil, &out); err != nil {
			lastErr = err
			// Explicit rejections will not change on retry.
			if _, remote := AsRemote(err); remote {
				return nil, err
			}
			continue
		}
		return &out, nil
	}
	return nil, lastErr
}

// SwitchModel commits a built-in model selection with the given request
// parameters. Must not be called concurrently with itself or BindEndpoint;
// serialization is the binding's responsibility.
func (c *Client) SwitchModel(ctx context.Context, req SwitchModelRequest) (*SwitchModelResponse, error) {
	var out SwitchModelResponse
	if err := c.do(ctx, c.httpClient, http.MethodPost, "/api/model", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// BindEndpoint binds the backend to an ad-hoc OpenAI-compatible endpoint.
// Inputs must be validated by the caller before this call is made.
func (c *Client) BindEndpoint(ctx context.Context, req BindEndpointRequest) (*BindEndpointResponse, error) {
	var out BindEndpointResponse
	if err := c.do(ctx, c.httpClient, http.MethodPost, "/api/endpoint", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SendChat sends one chat message and blocks until the reply arrives or the
// request fails. Uses the long chat timeout.
func (c *Client) SendChat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	var out ChatResponse
	if err := c.do(ctx, c.chatClient, http.MethodPost, "/api/chat", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListSessions returns the server-side session summaries.
func (c *Client) ListSessions(ctx context.Context) ([]SessionInfo, error) {
	var out sessionsResponse
	if err := c.do(ctx, c.httpClient, http.MethodGet, "/api/sessions", nil, &out); err != nil {
		return nil, err
	}
	return out.Sessions, nil
}

// ClearSession asks the backend to drop server-side history for sessionID.
// Best-effort from the caller's perspective: the session manager abandons
// the ID locally whether or not this call succeeds.
func (c *Client) ClearSession(ctx context.Context, sessionID string) error {
	var out ackResponse
	return c.do(ctx, c.httpClient, http.MethodPost, "/api/sessions/clear", clearSessionRequest{SessionID: sessionID}, &out)
}

// =============================================================================
// REQUEST PLUMBING
// =============================================================================

// do performs one HTTP round-trip with JSON encoding on both sides.
// Responses are read through a size cap and decoded into out; an
// {"error": ...} payload becomes a *RemoteError regardless of status code.
func (c *Client) do(ctx context.Context, hc *http.Client, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := hc.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrTimeout
		}
		return &ClientError{Type: ErrTypeConnection, Message: "backend is not reachable", Cause: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return &ClientError{Type: ErrTypeConnection, Message: "failed to read response", Cause: err}
	}

	// The backend reports rejections as {"error": "..."} with HTTP 400;
	// check the payload shape first so the message survives verbatim.
	var payload errorPayload
	if err := json.Unmarshal(data, &payload); err == nil && payload.Error != "" {
		return &RemoteError{Status: resp.StatusCode, Message: payload.Error}
	}

	if resp.StatusCode != http.StatusOK {
		return &ClientError{
			Type:    ErrTypeInvalidResponse,
			Message: "unexpected status from backend: " + resp.Status,
		}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
		}
	}
	return nil
}
