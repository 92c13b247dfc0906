// Package httpx provides the HTTP client used for page fetches. It never
// executes JavaScript; pages are taken as served.
package httpx

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/docdex/docdex"
)

// DefaultTimeout bounds one request (connect + response).
const DefaultTimeout = 10 * time.Second

// DefaultUserAgent identifies docdex to remote servers.
const DefaultUserAgent = "docdex/1.0 (+https://github.com/docdex/docdex)"

// Ensure Client implements docdex.Fetcher at compile time.
var _ docdex.Fetcher = (*Client)(nil)

// Response is a fetched page with the metadata the crawler's admission
// policy needs.
type Response struct {
	Body        string
	StatusCode  int
	ContentType string
}

// IsHTML reports whether the response carries an HTML content type.
func (r *Response) IsHTML() bool {
	ct := strings.ToLower(r.ContentType)
	return strings.Contains(ct, "text/html") || strings.Contains(ct, "application/xhtml")
}

// Client fetches pages over HTTP with a custom User-Agent and a bounded
// timeout.
type Client struct {
	hc        *http.Client
	userAgent string
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout. Defaults to DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.hc.Timeout = d
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// NewClient creates a Client with defaults applied.
func NewClient(opts ...Option) *Client {
	c := &Client{
		hc:        &http.Client{Timeout: DefaultTimeout},
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get performs a GET and returns the response regardless of status code.
// Network-level failures return an error; HTTP-level failures do not, so
// callers can distinguish "blocked" from "unreachable".
func (c *Client) Get(ctx context.Context, url string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return &Response{
		Body:        string(body),
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}

// Fetch retrieves the body of a 2xx response, satisfying docdex.Fetcher.
func (c *Client) Fetch(ctx context.Context, url string) (string, error) {
	resp, err := c.Get(ctx, url)
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}
	return resp.Body, nil
}
