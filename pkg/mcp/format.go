package mcp

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/bizbridge/bizbridge/pkg/client"
)

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

// jsonResult renders a successful response as indented json, or the success
// marker when the API returned no content. The raw body is indented as is so
// numbers reach the caller exactly as the API sent them.
func jsonResult(resp *client.Response) (*mcp.CallToolResult, error) {
	if len(resp.Raw) > 0 {
		var buf bytes.Buffer
		if err := json.Indent(&buf, resp.Raw, "", "  "); err == nil {
			return textResult(buf.String()), nil
		}
	}

	b, err := json.MarshalIndent(resp.Value(), "", "  ")
	if err != nil {
		return nil, err
	}

	return textResult(string(b)), nil
}

// failureResult turns a dispatch error into a message for the caller.
func failureResult(action string, err error) *mcp.CallToolResult {
	res := textResult(fmt.Sprintf("Failed to %s: %s", action, describe(err)))
	res.IsError = true

	return res
}

func describe(err error) string {
	switch client.Kind(err) {
	case client.KindUnauthorized:
		return "the API rejected the request credentials, check the configured client id and secret"
	case client.KindNotFound:
		return "the requested resource was not found"
	case client.KindServerError:
		return "the API returned a server error, try again later"
	case client.KindTimeout:
		return "the request timed out"
	case client.KindNetwork:
		return "the API could not be reached"
	case client.KindDecode:
		return "the API returned a response that is not valid JSON"
	case client.KindInvalidRequest:
		return "the request could not be built: " + err.Error()
	default:
		return err.Error()
	}
}

// respond records a dispatch outcome on the span and formats it.
func respond(span trace.Span, action string, resp *client.Response, err error) (*mcp.CallToolResult, any, error) {
	if err != nil {
		span.SetStatus(codes.Error, "failed to "+action)
		span.RecordError(err)

		return failureResult(action, err), nil, nil
	}

	res, err := jsonResult(resp)
	if err != nil {
		return nil, nil, err
	}

	return res, nil, nil
}
