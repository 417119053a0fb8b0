package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxLoggedBody bounds how much of a failed response body is logged
const maxLoggedBody = 4 << 10

type request struct {
	method  string
	url     string
	query   url.Values
	body    any
	timeout time.Duration
	bytes   bool
}

// FetchJSON issues a GET and returns the parsed json body.
func (c *Client) FetchJSON(ctx context.Context, u string, query url.Values) (*Response, error) {
	return c.do(ctx, request{method: http.MethodGet, url: u, query: query, timeout: c.timeout})
}

// PostJSON issues a POST with body encoded as json.
func (c *Client) PostJSON(ctx context.Context, u string, body any, query url.Values) (*Response, error) {
	return c.do(ctx, request{method: http.MethodPost, url: u, query: query, body: body, timeout: c.timeout})
}

// PatchJSON issues a PATCH with body encoded as json.
func (c *Client) PatchJSON(ctx context.Context, u string, body any, query url.Values) (*Response, error) {
	return c.do(ctx, request{method: http.MethodPatch, url: u, query: query, body: body, timeout: c.timeout})
}

// PutJSON issues a PUT with body encoded as json.
func (c *Client) PutJSON(ctx context.Context, u string, body any, query url.Values) (*Response, error) {
	return c.do(ctx, request{method: http.MethodPut, url: u, query: query, body: body, timeout: c.timeout})
}

// DeleteJSON issues a DELETE, with an optional json body.
func (c *Client) DeleteJSON(ctx context.Context, u string, body any, query url.Values) (*Response, error) {
	return c.do(ctx, request{method: http.MethodDelete, url: u, query: query, body: body, timeout: c.timeout})
}

// FetchBytes issues a GET asking for application/octet-stream and returns the
// payload unparsed.
func (c *Client) FetchBytes(ctx context.Context, u string, query url.Values) (*Response, error) {
	return c.do(ctx, request{method: http.MethodGet, url: u, query: query, timeout: c.downloadTimeout, bytes: true})
}

func (c *Client) do(ctx context.Context, r request) (*Response, error) {
	logger := c.logger.With(
		zap.String("method", r.method),
		zap.String("url", r.url),
		zap.String("request_id", uuid.NewString()),
	)

	resp, err := c.send(ctx, r, logger)

	c.metrics.observeRequest(r.method, Kind(err))

	if err != nil {
		logger.Error("api request failed", zap.Error(err))
		return nil, err
	}

	return resp, nil
}

func (c *Client) send(ctx context.Context, r request, logger *zap.Logger) (*Response, error) {
	target, err := withQuery(r.url, r.query)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid url: %w", ErrInvalidRequest, err)
	}

	body, err := encodeBody(r.body)
	if err != nil {
		return nil, fmt.Errorf("%w: encoding request body: %w", ErrInvalidRequest, err)
	}

	headers := c.Headers(ctx, target)
	if r.bytes {
		headers.Set("Accept", contentTypeOctets)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %w", ErrInvalidRequest, err)
	}

	req.Header = headers

	logger.Debug("sending api request", zap.Bool("authenticated", headers.Get("Authorization") != ""))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", transportError(err), err)
	}

	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response body: %w", transportError(err), err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		logger.Debug("non-success response body", zap.ByteString("body", truncateBody(payload)))
		return nil, fmt.Errorf("%w: %s %s returned %s", statusError(resp.StatusCode), r.method, r.url, resp.Status)
	}

	out := &Response{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
	}

	if len(bytes.TrimSpace(payload)) == 0 {
		out.Empty = true
		return out, nil
	}

	if r.bytes {
		out.Bytes = payload
		return out, nil
	}

	data, err := decodeJSON(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	out.Data = data
	out.Raw = payload

	return out, nil
}

// withQuery merges query into the url's existing query string.
func withQuery(rawURL string, query url.Values) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}

	if len(query) == 0 {
		return u.String(), nil
	}

	q := u.Query()

	for k, vs := range query {
		for _, v := range vs {
			q.Add(k, v)
		}
	}

	u.RawQuery = q.Encode()

	return u.String(), nil
}

// encodeBody encodes a request body as json. Raw json and byte slices are sent as is.
func encodeBody(body any) (io.Reader, error) {
	switch b := body.(type) {
	case nil:
		return http.NoBody, nil
	case json.RawMessage:
		return bytes.NewReader(b), nil
	case []byte:
		return bytes.NewReader(b), nil
	default:
		buf, err := json.Marshal(b)
		if err != nil {
			return nil, err
		}

		return bytes.NewReader(buf), nil
	}
}

// decodeJSON parses a response body keeping numbers as json.Number, so integer
// ids wider than a float64 mantissa survive.
func decodeJSON(payload []byte) (any, error) {
	if !json.Valid(payload) {
		return nil, errInvalidJSON
	}

	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()

	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}

	return out, nil
}

func truncateBody(b []byte) []byte {
	if len(b) <= maxLoggedBody {
		return b
	}

	return b[:maxLoggedBody]
}
