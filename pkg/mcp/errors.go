package mcp

import "errors"

var (
	// ErrMissingID is returned when a tool call omits a required resource id
	ErrMissingID = errors.New("missing id in request")
	// ErrMissingName is returned when create-contact is called without a name
	ErrMissingName = errors.New("missing contact name in request")
	// ErrInvalidMethod is returned when api-request names an unsupported http method
	ErrInvalidMethod = errors.New("unsupported http method")
	// ErrInvalidPath is returned when api-request is given an absolute url or an empty path
	ErrInvalidPath = errors.New("path must be relative to the api base url")
)
