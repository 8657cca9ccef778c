package api

import (
	"net/http"

	"github.com/rs/zerolog"
)

// Client talks to the GuideMe backend. The base URL is fixed when the client
// is constructed; a client without one runs in disabled mode and never
// touches the network.
type Client struct {
	baseURL    string
	enabled    bool
	httpClient *http.Client
	logger     zerolog.Logger
}

type Option func(*Client)

// WithBaseURL skips host-based resolution and targets baseURL directly.
// An empty baseURL puts the client in disabled mode.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
		c.enabled = baseURL != ""
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithLogger sets where disabled-mode and transport diagnostics go.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient resolves the base URL for host and returns a client bound to it.
func NewClient(host string, opts ...Option) *Client {
	baseURL, enabled := ResolveBaseURL(host)

	c := &Client{
		baseURL:    baseURL,
		enabled:    enabled,
		httpClient: &http.Client{},
		logger:     zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// BaseURL reports the resolved base URL and whether the client is enabled.
func (c *Client) BaseURL() (string, bool) {
	return c.baseURL, c.enabled
}
