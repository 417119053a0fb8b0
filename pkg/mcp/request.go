package mcp

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/bizbridge/bizbridge/pkg/client"
)

// APIRequestInput is the input of the api-request tool
type APIRequestInput struct {
	Method      string            `json:"method" jsonschema:"http method: GET, POST, PATCH, PUT or DELETE"`
	Path        string            `json:"path" jsonschema:"request path relative to the api base url, e.g. /v1/contacts"`
	Environment string            `json:"environment,omitempty" jsonschema:"target environment: production (default) or integration"`
	Query       map[string]string `json:"query,omitempty" jsonschema:"query string parameters"`
	Body        any               `json:"body,omitempty" jsonschema:"json request body for POST, PATCH, PUT and DELETE"`
}

// APIRequest sends an arbitrary json request to the business API.
func (s *BizBridgeMCPServer) APIRequest(ctx context.Context, _ *mcp.CallToolRequest, args APIRequestInput) (*mcp.CallToolResult, any, error) {
	ctx, span := s.tracer.Start(ctx, "BizBridgeMCPServer.APIRequest")
	defer span.End()

	method := strings.ToUpper(strings.TrimSpace(args.Method))
	if method == "" {
		method = http.MethodGet
	}

	path := strings.TrimSpace(args.Path)
	if path == "" || strings.Contains(path, "://") {
		return nil, nil, fmt.Errorf("%w: %q", ErrInvalidPath, args.Path)
	}

	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	u := s.baseURL(args.Environment) + path

	query := url.Values{}
	for k, v := range args.Query {
		query.Set(k, v)
	}

	s.logger.Debug("sending api request", zap.String("method", method), zap.String("url", u))
	span.SetAttributes(
		attribute.String("http-method", method),
		attribute.String("api-url", u),
	)

	var (
		resp *client.Response
		err  error
	)

	switch method {
	case http.MethodGet:
		resp, err = s.api.FetchJSON(ctx, u, query)
	case http.MethodPost:
		resp, err = s.api.PostJSON(ctx, u, args.Body, query)
	case http.MethodPatch:
		resp, err = s.api.PatchJSON(ctx, u, args.Body, query)
	case http.MethodPut:
		resp, err = s.api.PutJSON(ctx, u, args.Body, query)
	case http.MethodDelete:
		resp, err = s.api.DeleteJSON(ctx, u, args.Body, query)
	default:
		return nil, nil, fmt.Errorf("%w: %s", ErrInvalidMethod, args.Method)
	}

	return respond(span, fmt.Sprintf("%s %s", method, path), resp, err)
}
