package mcp

import (
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *BizBridgeMCPServer) newServer() *mcp.Server {
	v1 := mcp.NewServer(&mcp.Implementation{Name: "bizbridge-v1"}, nil)

	mcp.AddTool(
		v1,
		&mcp.Tool{Name: "api-request", Description: "Send an arbitrary request to the business API and return the JSON response"},
		s.APIRequest,
	)

	mcp.AddTool(
		v1,
		&mcp.Tool{Name: "list-contacts", Description: "List contacts, optionally filtered by a search term"},
		s.ListContacts,
	)

	mcp.AddTool(
		v1,
		&mcp.Tool{Name: "get-contact", Description: "Get a single contact"},
		s.GetContact,
	)

	mcp.AddTool(
		v1,
		&mcp.Tool{Name: "create-contact", Description: "Create a contact"},
		s.CreateContact,
	)

	mcp.AddTool(
		v1,
		&mcp.Tool{Name: "update-contact", Description: "Update fields of an existing contact"},
		s.UpdateContact,
	)

	mcp.AddTool(
		v1,
		&mcp.Tool{Name: "delete-contact", Description: "Delete a contact"},
		s.DeleteContact,
	)

	mcp.AddTool(
		v1,
		&mcp.Tool{Name: "get-call-recording", Description: "Download the audio recording of a call"},
		s.GetCallRecording,
	)

	mcp.AddTool(
		v1,
		&mcp.Tool{Name: "get-voicemail", Description: "Download the audio of a voicemail"},
		s.GetVoicemail,
	)

	return v1
}

func (s *BizBridgeMCPServer) v1() *mcp.StreamableHTTPHandler {
	v1 := s.newServer()

	return mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
		return v1
	}, nil)
}
