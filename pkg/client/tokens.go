package client

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	// expiryMargin is subtracted from the advertised lifetime before caching
	expiryMargin = 60 * time.Second
	// minTokenLifetime is the floor applied after the margin
	minTokenLifetime = 300 * time.Second
)

// CachedToken is the bearer token held for one environment.
type CachedToken struct {
	Environment EnvironmentKey
	Token       string
	Expiry      time.Time
}

// TokenCache maps environments to bearer tokens and refreshes them through an
// Acquirer when they are missing or expired. Concurrent misses for the same
// environment share one acquisition. Failed acquisitions are not cached.
type TokenCache struct {
	acquirer Acquirer
	now      func() time.Time
	logger   *zap.Logger
	metrics  *Metrics

	mu      sync.RWMutex
	entries map[EnvironmentKey]CachedToken
	flights singleflight.Group
}

// NewTokenCache returns an empty cache backed by the given acquirer
func NewTokenCache(acquirer Acquirer, now func() time.Time, logger *zap.Logger, metrics *Metrics) *TokenCache {
	if now == nil {
		now = time.Now
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &TokenCache{
		acquirer: acquirer,
		now:      now,
		logger:   logger,
		metrics:  metrics,
		entries:  map[EnvironmentKey]CachedToken{},
	}
}

// Peek returns the cached entry for an environment without refreshing it.
func (c *TokenCache) Peek(key EnvironmentKey) (CachedToken, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]

	return entry, ok
}

// Get returns a valid bearer token for env, acquiring a new one when the cached
// token is missing or expired. It returns false when no token can be obtained
// or ctx ends first. An acquisition in flight keeps running after ctx ends and
// caches its token for the next caller.
func (c *TokenCache) Get(ctx context.Context, env Environment) (string, bool) {
	if token, ok := c.valid(env.Key); ok {
		return token, true
	}

	ch := c.flights.DoChan(string(env.Key), func() (any, error) {
		// another flight may have stored a token between our check and now
		if token, ok := c.valid(env.Key); ok {
			return token, nil
		}

		return c.refresh(context.WithoutCancel(ctx), env)
	})

	select {
	case <-ctx.Done():
		c.logger.Debug("gave up waiting for access token",
			zap.String("environment", string(env.Key)),
			zap.Error(ctx.Err()),
		)

		return "", false
	case res := <-ch:
		if res.Err != nil {
			return "", false
		}

		return res.Val.(string), true
	}
}

func (c *TokenCache) valid(key EnvironmentKey) (string, bool) {
	entry, ok := c.Peek(key)
	if !ok || entry.Token == "" || !c.now().Before(entry.Expiry) {
		return "", false
	}

	return entry.Token, true
}

func (c *TokenCache) refresh(ctx context.Context, env Environment) (string, error) {
	grant, err := c.acquirer.Acquire(ctx, env)
	if err != nil {
		if errors.Is(err, ErrMissingCredentials) {
			c.logger.Debug("client credentials not configured, continuing unauthenticated", zap.String("environment", string(env.Key)))
			c.metrics.observeAcquisition(env.Key, "skipped")
		} else {
			c.logger.Error("failed to acquire access token",
				zap.String("environment", string(env.Key)),
				zap.String("token_url", env.TokenURL),
				zap.Error(err),
			)
			c.metrics.observeAcquisition(env.Key, "failure")
		}

		return "", err
	}

	lifetime := grant.ExpiresIn - expiryMargin
	if lifetime < minTokenLifetime {
		lifetime = minTokenLifetime
	}

	entry := CachedToken{
		Environment: env.Key,
		Token:       grant.AccessToken,
		Expiry:      c.now().Add(lifetime),
	}

	c.mu.Lock()
	c.entries[env.Key] = entry
	c.mu.Unlock()

	c.metrics.observeAcquisition(env.Key, "success")
	c.logger.Debug("cached access token", zap.String("environment", string(env.Key)), zap.Time("expiry", entry.Expiry))

	return entry.Token, nil
}
