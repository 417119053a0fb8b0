package client

import (
	"context"
	"net/http"
)

const (
	contentTypeJSON   = "application/json"
	contentTypeOctets = "application/octet-stream"
)

// Headers builds the request headers for a target url. The bearer token is
// looked up for the environment the url points at and omitted when none can be
// obtained, in which case the request goes out unauthenticated.
func (c *Client) Headers(ctx context.Context, rawURL string) http.Header {
	h := http.Header{}

	h.Set("Accept", contentTypeJSON)
	h.Set("Content-Type", contentTypeJSON)
	h.Set("User-Agent", c.userAgent)

	env := c.environments.ForURL(rawURL)
	if token, ok := c.tokens.Get(ctx, env); ok {
		h.Set("Authorization", "Bearer "+token)
	}

	if c.appKey != "" {
		h.Set(AppKeyHeader, c.appKey)
	}

	return h
}
