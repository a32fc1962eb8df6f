package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"agencydesk/internal/util"

	"go.uber.org/zap"
)

// DefaultTimeout bounds every request; a timeout surfaces as a
// NetworkError.
const DefaultTimeout = 30 * time.Second

// SessionSource is the slice of the session store the transport needs:
// the current bearer token, read fresh per request, and the ability to
// wipe the session when the backend rejects it.
type SessionSource interface {
	Token() string
	Clear() error
}

// Client is the HTTP transport to the agency backend. It attaches the
// bearer credential to every request and converts failures into the
// typed errors in this package. It never navigates: on 401 it clears
// the session, fires the configured hook once, and returns an
// UnauthorizedError for the caller to handle.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	sessions       SessionSource
	onUnauthorized func()
	logger         *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the default request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient substitutes the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithUnauthorizedHook registers the single handler invoked when a 401
// clears the session. The hook owns the "redirect to login" decision.
func WithUnauthorizedHook(hook func()) Option {
	return func(c *Client) {
		c.onUnauthorized = hook
	}
}

// NewClient creates a client for the backend at baseURL. A trailing
// slash on baseURL is tolerated.
func NewClient(baseURL string, sessions SessionSource, logger *zap.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		sessions:   sessions,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RequestOption adjusts a single request.
type RequestOption func(*http.Request)

// WithBearer overrides the bearer credential for one request. Used for
// the 2FA verification call, which authenticates with the temp token.
func WithBearer(token string) RequestOption {
	return func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	}
}

// WithHeader sets an extra header on one request.
func WithHeader(key, value string) RequestOption {
	return func(r *http.Request) {
		r.Header.Set(key, value)
	}
}

// Do performs a JSON request against base URL + path. A non-nil body
// is JSON-encoded; a non-nil out receives the decoded 2xx response.
func (c *Client) Do(ctx context.Context, method, path string, body, out any, opts ...RequestOption) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	// Read the token fresh on every call so the request always
	// reflects the latest login, not the client's construction time.
	if token := c.sessions.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for _, opt := range opts {
		opt(req)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("Request transport failure",
			util.String("method", method),
			util.String("path", path),
			util.ErrorField(err),
		)
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug("Request completed",
		util.String("method", method),
		util.String("path", path),
		util.Int("status", resp.StatusCode),
		util.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode == http.StatusUnauthorized {
		return c.handleUnauthorized(path)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return &HTTPError{
			Status:  resp.StatusCode,
			Body:    string(raw),
			Message: extractMessage(raw),
		}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// Get is shorthand for Do with GET and no body.
func (c *Client) Get(ctx context.Context, path string, out any, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodGet, path, nil, out, opts...)
}

// Post is shorthand for Do with POST.
func (c *Client) Post(ctx context.Context, path string, body, out any, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodPost, path, body, out, opts...)
}

// Put is shorthand for Do with PUT.
func (c *Client) Put(ctx context.Context, path string, body, out any, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodPut, path, body, out, opts...)
}

// Delete is shorthand for Do with DELETE and no body.
func (c *Client) Delete(ctx context.Context, path string, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil, opts...)
}

// handleUnauthorized runs the full 401 policy: wipe the session, fire
// the hook once, fail the call. Every endpoint gets the same
// treatment, so a revoked token ends the session mid-workflow.
func (c *Client) handleUnauthorized(path string) error {
	if err := c.sessions.Clear(); err != nil {
		c.logger.Error("Failed to clear session after 401", util.ErrorField(err))
	}
	if c.onUnauthorized != nil {
		c.onUnauthorized()
	}
	c.logger.Info("Session cleared after unauthorized response", util.String("path", path))
	return &UnauthorizedError{Path: path}
}

// extractMessage pulls the server's error text out of a failure body.
// The backend reports either {"message": ...} or {"error": ...}.
func extractMessage(raw []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}
