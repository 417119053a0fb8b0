package client

import (
	"github.com/goccy/go-json"
)

// Response is the successful outcome of a dispatch operation. Failures are
// reported as a nil Response and an error.
type Response struct {
	// StatusCode is the 2xx status returned by the API
	StatusCode int
	// ContentType is the response content type header
	ContentType string
	// Empty is set when the API returned no body. Data, Raw and Bytes are unset.
	Empty bool
	// Data is the parsed json body of json operations
	Data any
	// Raw is the unparsed json body of json operations
	Raw json.RawMessage
	// Bytes is the payload of byte downloads
	Bytes []byte
}

// SuccessMarker is returned in place of a body when the API succeeds with no content.
type SuccessMarker struct {
	Success    bool `json:"success"`
	StatusCode int  `json:"status_code"`
}

// Marker returns the success marker for an empty response
func (r *Response) Marker() SuccessMarker {
	return SuccessMarker{Success: true, StatusCode: r.StatusCode}
}

// Value returns what a caller should present: the success marker for empty
// responses, the raw payload for downloads, or the parsed json body.
func (r *Response) Value() any {
	switch {
	case r.Empty:
		return r.Marker()
	case r.Bytes != nil:
		return r.Bytes
	default:
		return r.Data
	}
}
