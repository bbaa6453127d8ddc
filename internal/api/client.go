// Package api is the HTTP client for the finance tracker REST backend.
//
// Every call is a single request/response round trip. Nothing is cached:
// callers re-fetch after mutations. Non-2xx responses are returned as *Error;
// use errors.Is(err, ErrUnauthorized) to detect an expired session.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rshade/fintrack/internal/logging"
)

// Header names sent on every request.
const (
	HeaderRequestID = "X-Request-Id"
	HeaderTraceID   = "X-Trace-Id"
)

// maxBodyLog caps request body snippets in debug logs.
const maxBodyLog = 1024

// Client talks to one backend.
type Client struct {
	baseURL    *url.URL
	token      string
	httpClient *http.Client
	logger     zerolog.Logger
	userAgent  string
	timeout    time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithToken sets the bearer token sent on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient replaces the underlying http.Client. Its transport is
// wrapped with request logging.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout bounds each request. Zero leaves requests unbounded.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithLogger sets the logger used for request logging.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) { c.logger = logging.ComponentLogger(logger, "api") }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// New returns a client for baseURL, e.g. "http://localhost:8080".
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("server url %q must start with http:// or https://", baseURL)
	}

	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{},
		logger:     zerolog.Nop(),
		userAgent:  "fintrack",
	}
	for _, opt := range opts {
		opt(c)
	}

	inner := c.httpClient.Transport
	if inner == nil {
		inner = http.DefaultTransport
	}
	wrapped := *c.httpClient
	wrapped.Transport = &loggingRoundTripper{inner: inner, logger: c.logger}
	if c.timeout > 0 {
		wrapped.Timeout = c.timeout
	}
	c.httpClient = &wrapped
	return c, nil
}

// BaseURL returns the server URL the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Token returns the bearer token, if any.
func (c *Client) Token() string {
	return c.token
}

// SetToken replaces the bearer token, e.g. after login.
func (c *Client) SetToken(token string) {
	c.token = token
}

// newRequest builds a request for relPath with the given query and body.
// relPath must not contain a query string.
func (c *Client) newRequest(
	ctx context.Context,
	method, relPath string,
	query url.Values,
	body io.Reader,
) (*http.Request, error) {
	if strings.Contains(relPath, "?") {
		return nil, fmt.Errorf("api: relPath must not contain a query string: %s", relPath)
	}
	u := *c.baseURL
	u.Path = path.Join(u.Path, relPath)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if traceID := logging.TraceIDFromContext(ctx); traceID != "" {
		req.Header.Set(HeaderTraceID, traceID)
	}
	return req, nil
}

// do sends req and returns the response when the status is 2xx. Otherwise
// the body is drained into an *Error.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return nil, newError(req.Method, req.URL.Path, resp.StatusCode, body)
}

// sendJSON encodes in (if non-nil) as the body, sends the request and decodes
// the response into out (if non-nil).
func (c *Client) sendJSON(
	ctx context.Context,
	method, relPath string,
	query url.Values,
	in, out any,
) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := c.newRequest(ctx, method, relPath, query, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", method, relPath, err)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, relPath string, query url.Values, out any) error {
	return c.sendJSON(ctx, http.MethodGet, relPath, query, nil, out)
}

func itemPath(collection string, id int64) string {
	return collection + "/" + strconv.FormatInt(id, 10)
}

func periodQuery(p Period) url.Values {
	q := url.Values{}
	if p.Month > 0 {
		q.Set("month", strconv.Itoa(p.Month))
	}
	if p.Year > 0 {
		q.Set("year", strconv.Itoa(p.Year))
	}
	return q
}

// loggingRoundTripper logs every outbound call and tags it with an
// X-Request-Id.
type loggingRoundTripper struct {
	inner  http.RoundTripper
	logger zerolog.Logger
}

func (l *loggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	requestID := req.Header.Get(HeaderRequestID)
	if requestID == "" {
		requestID = uuid.NewString()
		req = req.Clone(req.Context())
		req.Header.Set(HeaderRequestID, requestID)
	}

	var bodySnippet string
	if req.GetBody != nil && l.logger.GetLevel() <= zerolog.DebugLevel {
		if rc, err := req.GetBody(); err == nil {
			snippet, _ := io.ReadAll(io.LimitReader(rc, maxBodyLog))
			_ = rc.Close()
			if req.Header.Get("Content-Type") == "application/json" {
				bodySnippet = string(snippet)
			}
		}
	}

	resp, err := l.inner.RoundTrip(req)
	duration := time.Since(start)

	ev := l.logger.Debug()
	if err != nil {
		ev = l.logger.Warn().Err(err)
	}
	ev = ev.Ctx(req.Context()).
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Str("query", req.URL.RawQuery).
		Str("request_id", requestID).
		Dur("duration", duration)
	if resp != nil {
		ev = ev.Int("status", resp.StatusCode)
	}
	if bodySnippet != "" && !strings.Contains(req.URL.Path, "/auth/") {
		ev = ev.Str("body", bodySnippet)
	}
	if err != nil {
		ev.Msg("api request failed")
		return nil, err
	}
	ev.Msg("api request")
	return resp, nil
}
