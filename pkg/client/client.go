package client

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	defaultTimeout         = 30 * time.Second
	defaultDownloadTimeout = 60 * time.Second

	// DefaultUserAgent is sent when no user agent is configured
	DefaultUserAgent = "bizbridge-mcp/1.0"

	// AppKeyHeader carries the optional static application key
	AppKeyHeader = "X-App-Key"
)

// HTTPDoer implements the standard http.Client interface.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is the authenticated API client. It resolves environments, keeps a
// bearer token per environment and dispatches requests.
type Client struct {
	environments    Environments
	credentials     Credentials
	appKey          string
	userAgent       string
	timeout         time.Duration
	downloadTimeout time.Duration
	now             func() time.Time

	httpClient HTTPDoer
	acquirer   Acquirer
	tokens     *TokenCache
	logger     *zap.Logger
	metrics    *Metrics
}

// Option is a functional configuration option
type Option func(c *Client)

// WithLogger sets logger
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithHTTPClient overrides the default http client. When c is an *http.Client it
// is also used for token requests.
func WithHTTPClient(d HTTPDoer) Option {
	return func(c *Client) {
		c.httpClient = d
	}
}

// WithCredentials sets the client id and secret for the client credentials exchange
func WithCredentials(creds Credentials) Option {
	return func(c *Client) {
		c.credentials = creds
	}
}

// WithAppKey sets the static application key header value
func WithAppKey(key string) Option {
	return func(c *Client) {
		c.appKey = key
	}
}

// WithUserAgent overrides the user agent
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithTimeout sets the timeout of json requests
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithDownloadTimeout sets the timeout of raw byte downloads
func WithDownloadTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.downloadTimeout = d
	}
}

// WithEnvironments overrides the compiled-in environments
func WithEnvironments(envs Environments) Option {
	return func(c *Client) {
		c.environments = envs
	}
}

// WithAcquirer overrides the token acquirer
func WithAcquirer(a Acquirer) Option {
	return func(c *Client) {
		c.acquirer = a
	}
}

// WithClock overrides the clock used for token expiry
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// WithMetrics sets the prometheus collectors
func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NoRedirect is an http.Client CheckRedirect func that returns redirects to the
// caller instead of following them.
func NoRedirect(_ *http.Request, _ []*http.Request) error {
	return http.ErrUseLastResponse
}

// NewClient returns a new API client. Tokens are acquired lazily on the first
// request to each environment.
func NewClient(opts ...Option) *Client {
	c := &Client{
		environments:    DefaultEnvironments(),
		userAgent:       DefaultUserAgent,
		timeout:         defaultTimeout,
		downloadTimeout: defaultDownloadTimeout,
		now:             time.Now,
		logger:          zap.NewNop(),
		httpClient: &http.Client{
			CheckRedirect: NoRedirect,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.acquirer == nil {
		aopts := []AcquirerOption{
			WithAcquirerTimeout(c.timeout),
			WithAcquirerLogger(c.logger),
			WithAcquirerClock(c.now),
		}

		if hc, ok := c.httpClient.(*http.Client); ok {
			aopts = append(aopts, WithAcquirerHTTPClient(hc))
		}

		c.acquirer = NewCredentialsAcquirer(c.credentials, aopts...)
	}

	c.tokens = NewTokenCache(c.acquirer, c.now, c.logger, c.metrics)

	return c
}

// Environments returns the environments the client targets
func (c *Client) Environments() Environments {
	return c.environments
}

// BaseURL returns the API base url for a caller supplied environment label
func (c *Client) BaseURL(label string) string {
	return c.environments.BaseURL(label)
}

// Tokens returns the client's token cache
func (c *Client) Tokens() *TokenCache {
	return c.tokens
}
