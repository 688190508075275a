// Package api provides access to the KIS REST endpoints: point-in-time
// price snapshots, daily price series, and cash order placement.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// TokenSource supplies the REST bearer token.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Client is the KIS REST API client.
type Client struct {
	baseURL    string
	appKey     string
	appSecret  string
	custType   string
	tokens     TokenSource
	httpClient *http.Client
	logger     *slog.Logger

	maxRetries   int
	retryBackoff time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a new REST API client.
func NewClient(baseURL, appKey, appSecret string, tokens TokenSource, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:   baseURL,
		appKey:    appKey,
		appSecret: appSecret,
		custType:  "P",
		tokens:    tokens,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger:       slog.Default(),
		maxRetries:   3,
		retryBackoff: time.Second,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithRetries sets the retry configuration.
func WithRetries(max int, backoff time.Duration) ClientOption {
	return func(c *Client) {
		c.maxRetries = max
		c.retryBackoff = backoff
	}
}

// WithCustType sets the customer type header value.
func WithCustType(custType string) ClientOption {
	return func(c *Client) {
		c.custType = custType
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}
