package mcp

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

const defaultAudioMIMEType = "audio/mpeg"

// CallRecordingInput is the input of the get-call-recording tool
type CallRecordingInput struct {
	Environment string `json:"environment,omitempty" jsonschema:"target environment: production (default) or integration"`
	CallID      string `json:"call_id" jsonschema:"the unique identifier of the call"`
}

// VoicemailInput is the input of the get-voicemail tool
type VoicemailInput struct {
	Environment string `json:"environment,omitempty" jsonschema:"target environment: production (default) or integration"`
	VoicemailID string `json:"voicemail_id" jsonschema:"the unique identifier of the voicemail"`
}

// GetCallRecording downloads a call recording
func (s *BizBridgeMCPServer) GetCallRecording(ctx context.Context, _ *mcp.CallToolRequest, args CallRecordingInput) (*mcp.CallToolResult, any, error) {
	if args.CallID == "" {
		return nil, nil, ErrMissingID
	}

	u := fmt.Sprintf("%s/v1/calls/%s/recording", s.baseURL(args.Environment), url.PathEscape(args.CallID))

	return s.download(ctx, "BizBridgeMCPServer.GetCallRecording", "call recording", u)
}

// GetVoicemail downloads a voicemail
func (s *BizBridgeMCPServer) GetVoicemail(ctx context.Context, _ *mcp.CallToolRequest, args VoicemailInput) (*mcp.CallToolResult, any, error) {
	if args.VoicemailID == "" {
		return nil, nil, ErrMissingID
	}

	u := fmt.Sprintf("%s/v1/voicemails/%s/audio", s.baseURL(args.Environment), url.PathEscape(args.VoicemailID))

	return s.download(ctx, "BizBridgeMCPServer.GetVoicemail", "voicemail", u)
}

func (s *BizBridgeMCPServer) download(ctx context.Context, spanName, what, u string) (*mcp.CallToolResult, any, error) {
	ctx, span := s.tracer.Start(ctx, spanName)
	defer span.End()

	s.logger.Debug("downloading "+what, zap.String("url", u))
	span.SetAttributes(attribute.String("api-url", u))

	resp, err := s.api.FetchBytes(ctx, u, nil)
	if err != nil {
		span.SetStatus(codes.Error, "failed to download "+what)
		span.RecordError(err)

		return failureResult("download "+what, err), nil, nil
	}

	if resp.Empty || len(resp.Bytes) == 0 {
		return textResult(fmt.Sprintf("The %s is empty (status %d).", what, resp.StatusCode)), nil, nil
	}

	mimeType := resp.ContentType
	if mimeType == "" || strings.HasPrefix(mimeType, "application/octet-stream") {
		mimeType = defaultAudioMIMEType
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("Downloaded %s (%s, %s).", what, humanize.Bytes(uint64(len(resp.Bytes))), mimeType)},
			&mcp.AudioContent{Data: resp.Bytes, MIMEType: mimeType},
		},
	}, nil, nil
}
