// Package qase is a small client for the Qase REST API (v1): paginated
// listing of cases, fields and attachments, partial case updates, deletes
// and external issue links.
package qase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const (
	// DefaultBaseURL is the public API endpoint
	DefaultBaseURL = "https://api.qase.io/v1"
	// DefaultPageLimit is the largest page the API serves
	DefaultPageLimit = 100
	// DefaultMaxRetries bounds retries of idempotent requests
	DefaultMaxRetries = 3
)

// Client talks to one Qase project
type Client struct {
	baseURL    string
	token      string
	project    string
	httpClient *http.Client
	pageLimit  int
	maxRetries uint64
	retryWait  time.Duration
	logger     *zap.Logger
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL overrides the API endpoint
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithHTTPClient sets the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger used for request tracing
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithPageLimit sets the page size for listings
func WithPageLimit(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.pageLimit = n
		}
	}
}

// WithRetry sets how often idempotent requests are retried and the first wait
func WithRetry(maxRetries uint64, initialWait time.Duration) Option {
	return func(c *Client) {
		c.maxRetries = maxRetries
		if initialWait > 0 {
			c.retryWait = initialWait
		}
	}
}

// NewClient creates a client for the given token and project code
func NewClient(token, project string, opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		token:      token,
		project:    project,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		pageLimit:  DefaultPageLimit,
		maxRetries: DefaultMaxRetries,
		retryWait:  500 * time.Millisecond,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Project returns the project code
func (c *Client) Project() string {
	return c.project
}

// HTTPClient exposes the transport, mainly so tests can intercept it
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

type envelope struct {
	Status       bool            `json:"status"`
	ErrorMessage string          `json:"errorMessage,omitempty"`
	Result       json.RawMessage `json:"result"`
}

type page[T any] struct {
	Total    int `json:"total"`
	Filtered int `json:"filtered"`
	Count    int `json:"count"`
	Entities []T `json:"entities"`
}

// do performs one request and decodes the "result" member into out
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Token", c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s %s response: %w", method, path, err)
	}
	c.logger.Debug("api request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseAPIError(method, path, resp.StatusCode, data)
	}
	if len(data) == 0 {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	if !env.Status {
		apiErr := parseAPIError(method, path, resp.StatusCode, data)
		if apiErr.Message == "" {
			apiErr.Message = "API returned status false"
		}
		return apiErr
	}
	if out == nil || len(env.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Result, out); err != nil {
		return fmt.Errorf("decode %s %s result: %w", method, path, err)
	}
	return nil
}

// doIdempotent retries transport errors and 429/5xx answers with
// exponential backoff
func (c *Client) doIdempotent(ctx context.Context, method, path string, query url.Values, out any) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retryWait
	policy := backoff.WithContext(backoff.WithMaxRetries(b, c.maxRetries), ctx)

	attempt := 0
	op := func() error {
		attempt++
		err := c.do(ctx, method, path, query, nil, out)
		if err == nil {
			return nil
		}
		var apiErr *APIError
		if errors.As(err, &apiErr) && !apiErr.Retryable() {
			return backoff.Permanent(err)
		}
		if ctx.Err() != nil {
			return backoff.Permanent(err)
		}
		c.logger.Warn("retrying request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("attempt", attempt),
			zap.Error(err))
		return err
	}
	return backoff.Retry(op, policy)
}

// listAll walks offset pagination until every entity has been fetched
func listAll[T any](ctx context.Context, c *Client, path, what string) ([]T, error) {
	var all []T
	offset := 0
	for {
		query := url.Values{}
		query.Set("limit", fmt.Sprint(c.pageLimit))
		query.Set("offset", fmt.Sprint(offset))

		var p page[T]
		if err := c.doIdempotent(ctx, http.MethodGet, path, query, &p); err != nil {
			return nil, fmt.Errorf("fetch %s (offset %d): %w", what, offset, err)
		}
		all = append(all, p.Entities...)
		c.logger.Info("fetched page",
			zap.String("entity", what),
			zap.Int("count", len(p.Entities)),
			zap.Int("offset", offset),
			zap.Int("total", p.Total))

		if len(p.Entities) == 0 || p.Count == 0 || offset+p.Count >= p.Total {
			break
		}
		offset += p.Count
	}
	return all, nil
}
