package mcp

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const contactsPath = "/v1/contacts"

// ListContactsInput is the input of the list-contacts tool
type ListContactsInput struct {
	Environment string `json:"environment,omitempty" jsonschema:"target environment: production (default) or integration"`
	Search      string `json:"search,omitempty" jsonschema:"free text search over name, email and phone"`
	Page        int    `json:"page,omitempty" jsonschema:"page number starting at 1"`
	PageSize    int    `json:"page_size,omitempty" jsonschema:"number of contacts per page"`
}

// ContactInput identifies a single contact
type ContactInput struct {
	Environment string `json:"environment,omitempty" jsonschema:"target environment: production (default) or integration"`
	ContactID   string `json:"contact_id" jsonschema:"the unique identifier of the contact"`
}

// contactFields is the request body of contact writes
type contactFields struct {
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Company string `json:"company,omitempty"`
}

// CreateContactInput is the input of the create-contact tool
type CreateContactInput struct {
	Environment string `json:"environment,omitempty" jsonschema:"target environment: production (default) or integration"`
	Name        string `json:"name" jsonschema:"full name of the contact"`
	Email       string `json:"email,omitempty" jsonschema:"email address"`
	Phone       string `json:"phone,omitempty" jsonschema:"phone number in E.164 format"`
	Company     string `json:"company,omitempty" jsonschema:"company the contact works for"`
}

// UpdateContactInput is the input of the update-contact tool. Empty fields are left unchanged.
type UpdateContactInput struct {
	Environment string `json:"environment,omitempty" jsonschema:"target environment: production (default) or integration"`
	ContactID   string `json:"contact_id" jsonschema:"the unique identifier of the contact"`
	Name        string `json:"name,omitempty" jsonschema:"full name of the contact"`
	Email       string `json:"email,omitempty" jsonschema:"email address"`
	Phone       string `json:"phone,omitempty" jsonschema:"phone number in E.164 format"`
	Company     string `json:"company,omitempty" jsonschema:"company the contact works for"`
}

func (s *BizBridgeMCPServer) contactURL(env, id string) string {
	return fmt.Sprintf("%s%s/%s", s.baseURL(env), contactsPath, url.PathEscape(id))
}

// ListContacts lists contacts
func (s *BizBridgeMCPServer) ListContacts(ctx context.Context, _ *mcp.CallToolRequest, args ListContactsInput) (*mcp.CallToolResult, any, error) {
	ctx, span := s.tracer.Start(ctx, "BizBridgeMCPServer.ListContacts")
	defer span.End()

	u := s.baseURL(args.Environment) + contactsPath

	query := url.Values{}

	if search := strings.TrimSpace(args.Search); search != "" {
		query.Set("search", search)
	}

	if args.Page > 0 {
		query.Set("page", strconv.Itoa(args.Page))
	}

	if args.PageSize > 0 {
		query.Set("page_size", strconv.Itoa(args.PageSize))
	}

	s.logger.Debug("listing contacts", zap.String("url", u))
	span.SetAttributes(attribute.String("api-url", u))

	resp, err := s.api.FetchJSON(ctx, u, query)

	return respond(span, "list contacts", resp, err)
}

// GetContact gets a single contact
func (s *BizBridgeMCPServer) GetContact(ctx context.Context, _ *mcp.CallToolRequest, args ContactInput) (*mcp.CallToolResult, any, error) {
	ctx, span := s.tracer.Start(ctx, "BizBridgeMCPServer.GetContact")
	defer span.End()

	if args.ContactID == "" {
		return nil, nil, ErrMissingID
	}

	u := s.contactURL(args.Environment, args.ContactID)

	s.logger.Debug("getting contact", zap.String("contact_id", args.ContactID))
	span.SetAttributes(attribute.String("contact-id", args.ContactID))

	resp, err := s.api.FetchJSON(ctx, u, nil)

	return respond(span, "get contact", resp, err)
}

// CreateContact creates a contact
func (s *BizBridgeMCPServer) CreateContact(ctx context.Context, _ *mcp.CallToolRequest, args CreateContactInput) (*mcp.CallToolResult, any, error) {
	ctx, span := s.tracer.Start(ctx, "BizBridgeMCPServer.CreateContact")
	defer span.End()

	if strings.TrimSpace(args.Name) == "" {
		return nil, nil, ErrMissingName
	}

	u := s.baseURL(args.Environment) + contactsPath

	s.logger.Debug("creating contact", zap.String("url", u))

	resp, err := s.api.PostJSON(ctx, u, contactFields{
		Name:    args.Name,
		Email:   args.Email,
		Phone:   args.Phone,
		Company: args.Company,
	}, nil)

	return respond(span, "create contact", resp, err)
}

// UpdateContact patches the given fields of a contact
func (s *BizBridgeMCPServer) UpdateContact(ctx context.Context, _ *mcp.CallToolRequest, args UpdateContactInput) (*mcp.CallToolResult, any, error) {
	ctx, span := s.tracer.Start(ctx, "BizBridgeMCPServer.UpdateContact")
	defer span.End()

	if args.ContactID == "" {
		return nil, nil, ErrMissingID
	}

	span.SetAttributes(attribute.String("contact-id", args.ContactID))

	resp, err := s.api.PatchJSON(ctx, s.contactURL(args.Environment, args.ContactID), contactFields{
		Name:    args.Name,
		Email:   args.Email,
		Phone:   args.Phone,
		Company: args.Company,
	}, nil)

	return respond(span, "update contact", resp, err)
}

// DeleteContact deletes a contact
func (s *BizBridgeMCPServer) DeleteContact(ctx context.Context, _ *mcp.CallToolRequest, args ContactInput) (*mcp.CallToolResult, any, error) {
	ctx, span := s.tracer.Start(ctx, "BizBridgeMCPServer.DeleteContact")
	defer span.End()

	if args.ContactID == "" {
		return nil, nil, ErrMissingID
	}

	s.logger.Debug("deleting contact", zap.String("contact_id", args.ContactID))
	span.SetAttributes(attribute.String("contact-id", args.ContactID))

	resp, err := s.api.DeleteJSON(ctx, s.contactURL(args.Environment, args.ContactID), nil, nil)

	return respond(span, "delete contact", resp, err)
}
