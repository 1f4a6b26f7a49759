// Package remote fetches the read-only data the catalog displays: the dollar
// quote and the product seed list.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	SourceDollar   = "dolar"
	SourceProducts = "productos"
)

// StatusError reports a non-2xx response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.StatusCode)
}

type Config struct {
	DollarURL   string
	ProductsURL string
	Timeout     time.Duration
}

// Client issues single GET requests without retry.
type Client struct {
	http        *http.Client
	dollarURL   string
	productsURL string
	observe     func(source string, err error)
}

type Option func(*Client)

// WithHTTPClient replaces the default client, mostly for tests.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.http = c }
}

// WithObserver is called once per fetch with its outcome.
func WithObserver(fn func(source string, err error)) Option {
	return func(cl *Client) { cl.observe = fn }
}

func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if cfg.DollarURL == "" || cfg.ProductsURL == "" {
		return nil, fmt.Errorf("remote urls are required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	c := &Client{
		http:        &http.Client{Timeout: cfg.Timeout},
		dollarURL:   cfg.DollarURL,
		productsURL: cfg.ProductsURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) getJSON(ctx context.Context, source, url string, dst any) (err error) {
	if c.observe != nil {
		defer func() { c.observe(source, err) }()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &StatusError{URL: url, StatusCode: resp.StatusCode}
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}
