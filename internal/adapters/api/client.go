// Package api is the outbound gateway to the MectoFitness REST API. Every
// authenticated request flows through Client, which attaches the ambient
// session cookie plus any issued bearer token, and reacts to a denial
// response by invalidating local session state and redirecting to login.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultTimeout bounds every request so a hung network call cannot leave
// the application loading forever.
const DefaultTimeout = 15 * time.Second

// apiPrefix anchors the envelope endpoints under the versioned API root.
// Navigation-style routes (auth pages) live outside it.
const apiPrefix = "/api/v1"

// LoginPath is the external login entry point used for denial redirects.
const LoginPath = "/login"

// ErrAuthDenied is returned when the server explicitly rejects the ambient
// credential. The gateway has already cleared local session state and
// triggered the login redirect by the time a caller sees this error.
var ErrAuthDenied = errors.New("authentication denied")

// APIError is a non-denial error response from the server, passed through
// to the caller uninterpreted.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error %d", e.Status)
}

// Navigator performs the hard navigation to the external login page. The
// redirect requires user interaction outside this package's control, so
// there is no retry behind it.
type Navigator interface {
	NavigateToLogin()
}

// envelope is the server's JSON response wrapper. Success is a pointer
// because some endpoints (organization) omit the flag and rely on the HTTP
// status alone.
type envelope struct {
	Success *bool           `json:"success,omitempty"`
	Message string          `json:"message,omitempty"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Client is the single chokepoint for outbound requests.
type Client struct {
	baseURL      *url.URL
	httpc        *http.Client
	token        func() string
	onAuthDenied func(context.Context)
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the default request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpc.Timeout = d }
}

// WithHTTPClient replaces the underlying http.Client. The caller is
// responsible for providing a cookie jar if session-cookie auth is wanted.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpc = hc }
}

// WithTokenSource sets a function that supplies the bearer token issued by
// the server, typically read from the session store. The session cookie
// remains the server's source of truth; the token is attached alongside it.
func WithTokenSource(fn func() string) Option {
	return func(c *Client) { c.token = fn }
}

// WithDenialHandler sets the reaction to an authentication-denied response.
// The handler must clear local session state and navigate to login; it runs
// once per denied response.
func WithDenialHandler(fn func(context.Context)) Option {
	return func(c *Client) { c.onAuthDenied = fn }
}

// NewClient creates a gateway for the given server root URL (e.g.
// "https://app.mectofitness.com"). Envelope requests are issued under
// /api/v1; the auth pages are reached at the root.
// PRE: baseURL parses as an absolute URL
// POST: Client carries a cookie jar and a finite timeout
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if !u.IsAbs() {
		return nil, fmt.Errorf("base URL must be absolute: %q", baseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	c := &Client{
		baseURL: u,
		httpc: &http.Client{
			Jar:     jar,
			Timeout: DefaultTimeout,
			// Redirects are surfaced, not followed: the login flow reads
			// the Location header to tell success from re-rendered forms.
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		token:        func() string { return "" },
		onAuthDenied: func(context.Context) {},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Get issues a GET and decodes the envelope's data into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

// Post issues a POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

// Put issues a PUT with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

// Patch issues a PATCH with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, nil, body, out)
}

// Delete issues a DELETE.
func (c *Client) Delete(ctx context.Context, path string, query url.Values) error {
	return c.do(ctx, http.MethodDelete, path, query, nil, nil)
}

// do runs one request through the gateway policies.
// POST: 401 responses have cleared session state and triggered the login
// redirect; network failures are wrapped transport errors and never do.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.resolve(apiPrefix + "/" + strings.TrimLeft(path, "/"))
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var rd io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		rd = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), rd)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.decorate(req)

	resp, err := c.httpc.Do(req)
	if err != nil {
		// No response at all. This is not a denial; never clear state here.
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	return c.handleResponse(ctx, resp, out)
}

// PostForm issues a form-encoded POST outside the JSON envelope, used by the
// navigation-style auth endpoints. The response is returned raw; the denial
// policy still applies.
func (c *Client) PostForm(ctx context.Context, path string, form url.Values) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.resolve(path).String(),
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	c.decorate(req)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if resp.StatusCode == http.StatusUnauthorized {
		resp.Body.Close()
		return nil, c.denied(ctx)
	}
	return resp, nil
}

// GetRaw issues a GET outside the JSON envelope (navigation-style
// endpoints). The denial policy still applies.
func (c *Client) GetRaw(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.resolve(path).String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	c.decorate(req)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if resp.StatusCode == http.StatusUnauthorized {
		resp.Body.Close()
		return nil, c.denied(ctx)
	}
	return resp, nil
}

// BaseURL returns the gateway's base URL.
func (c *Client) BaseURL() *url.URL {
	u := *c.baseURL
	return &u
}

func (c *Client) decorate(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())
	if tok := c.token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
}

func (c *Client) handleResponse(ctx context.Context, resp *http.Response, out any) error {
	if resp.StatusCode == http.StatusUnauthorized {
		return c.denied(ctx)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var env envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil && resp.StatusCode < 300 {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	if resp.StatusCode >= 300 || (env.Success != nil && !*env.Success) {
		msg := env.Error
		if msg == "" {
			msg = env.Message
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	if len(env.Data) == 0 {
		// Some endpoints reply with the bare object, no envelope.
		if len(raw) > 0 {
			return json.Unmarshal(raw, out)
		}
		return nil
	}
	return json.Unmarshal(env.Data, out)
}

// denied runs the global denial reaction: clear state, redirect, no retry.
func (c *Client) denied(ctx context.Context) error {
	slog.Info("auth_event", "event", "credential_denied")
	c.onAuthDenied(ctx)
	return ErrAuthDenied
}

func (c *Client) resolve(path string) *url.URL {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.TrimLeft(path, "/")
	return &u
}
