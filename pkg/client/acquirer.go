package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const defaultAcquireTimeout = 30 * time.Second

// Credentials is the client id and secret used for the client credentials exchange.
type Credentials struct {
	ClientID     string
	ClientSecret string
}

// Complete reports whether both the client id and secret are set
func (c Credentials) Complete() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// Grant is a freshly issued access token and its advertised lifetime.
type Grant struct {
	AccessToken string
	ExpiresIn   time.Duration
}

// Acquirer obtains a new access token for an environment.
type Acquirer interface {
	Acquire(ctx context.Context, env Environment) (*Grant, error)
}

// CredentialsAcquirer performs an OAuth2 client credentials exchange against an
// environment's token endpoint.
type CredentialsAcquirer struct {
	credentials Credentials
	httpClient  *http.Client
	timeout     time.Duration
	now         func() time.Time
	logger      *zap.Logger
}

// AcquirerOption is a functional configuration option for the CredentialsAcquirer
type AcquirerOption func(a *CredentialsAcquirer)

// WithAcquirerHTTPClient sets the http client used for token requests
func WithAcquirerHTTPClient(c *http.Client) AcquirerOption {
	return func(a *CredentialsAcquirer) {
		a.httpClient = c
	}
}

// WithAcquirerTimeout sets the token request timeout
func WithAcquirerTimeout(d time.Duration) AcquirerOption {
	return func(a *CredentialsAcquirer) {
		a.timeout = d
	}
}

// WithAcquirerLogger sets the logger
func WithAcquirerLogger(l *zap.Logger) AcquirerOption {
	return func(a *CredentialsAcquirer) {
		a.logger = l
	}
}

// WithAcquirerClock overrides the clock used to derive lifetimes from token claims
func WithAcquirerClock(now func() time.Time) AcquirerOption {
	return func(a *CredentialsAcquirer) {
		a.now = now
	}
}

// NewCredentialsAcquirer returns an acquirer for the given credentials
func NewCredentialsAcquirer(creds Credentials, opts ...AcquirerOption) *CredentialsAcquirer {
	a := &CredentialsAcquirer{
		credentials: creds,
		httpClient:  &http.Client{Timeout: defaultAcquireTimeout},
		timeout:     defaultAcquireTimeout,
		now:         time.Now,
		logger:      zap.NewNop(),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Acquire exchanges the configured credentials for an access token. No request is
// made when the credentials are incomplete.
func (a *CredentialsAcquirer) Acquire(ctx context.Context, env Environment) (*Grant, error) {
	if !a.credentials.Complete() {
		return nil, ErrMissingCredentials
	}

	cfg := clientcredentials.Config{
		ClientID:     a.credentials.ClientID,
		ClientSecret: a.credentials.ClientSecret,
		TokenURL:     env.TokenURL,
		AuthStyle:    oauth2.AuthStyleInParams,
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	ctx = context.WithValue(ctx, oauth2.HTTPClient, a.httpClient)

	a.logger.Debug("requesting access token", zap.String("environment", string(env.Key)), zap.String("token_url", env.TokenURL))

	tok, err := cfg.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenAcquisition, err)
	}

	if tok.AccessToken == "" {
		return nil, fmt.Errorf("%w: response missing access_token", ErrTokenAcquisition)
	}

	return &Grant{
		AccessToken: tok.AccessToken,
		ExpiresIn:   a.lifetime(tok),
	}, nil
}

// lifetime returns the advertised token lifetime. expires_in wins, then the
// access token's exp claim when it is a JWT, otherwise zero.
func (a *CredentialsAcquirer) lifetime(tok *oauth2.Token) time.Duration {
	if tok.ExpiresIn > 0 {
		return time.Duration(tok.ExpiresIn) * time.Second
	}

	if secs, ok := extraSeconds(tok.Extra("expires_in")); ok && secs > 0 {
		return time.Duration(secs) * time.Second
	}

	t, _, err := jwt.NewParser().ParseUnverified(tok.AccessToken, jwt.MapClaims{})
	if err != nil {
		return 0
	}

	exp, err := t.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return 0
	}

	if d := exp.Sub(a.now()); d > 0 {
		return d
	}

	return 0
}

func extraSeconds(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		return i, err == nil
	default:
		return 0, false
	}
}
