package client

import (
	"context"
	"errors"
	"net"
	"net/http"
)

var (
	// ErrMissingCredentials is returned when the client id or secret is not configured
	ErrMissingCredentials = errors.New("missing client credentials")

	// ErrTokenAcquisition is returned when the client credentials exchange fails
	ErrTokenAcquisition = errors.New("failed to acquire access token")

	// ErrRequestNonSuccess is returned when a call to the API returns a non-success status
	// that has no more specific kind, including unfollowed redirects
	ErrRequestNonSuccess = errors.New("got a non-success response from the api")

	// ErrInvalidRequest is returned when a request cannot be built, before anything is sent
	ErrInvalidRequest = errors.New("invalid api request")

	// ErrUnauthorized is returned when the API rejects the request credentials
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound is returned when the requested resource does not exist
	ErrNotFound = errors.New("not found")

	// ErrServerError is returned when the API responds with a 5xx status
	ErrServerError = errors.New("api server error")

	// ErrNetwork is returned when the request could not be sent or the response not read
	ErrNetwork = errors.New("network error")

	// ErrTimeout is returned when the request deadline is exceeded
	ErrTimeout = errors.New("request timed out")

	// ErrDecode is returned when a successful response body is not valid json
	ErrDecode = errors.New("failed to decode response body")

	errInvalidJSON = errors.New("invalid json")
)

// ErrorKind classifies a dispatch failure.
type ErrorKind int

const (
	// KindNone means no error
	KindNone ErrorKind = iota
	KindUnauthorized
	KindNotFound
	KindServerError
	KindNonSuccess
	KindNetwork
	KindTimeout
	KindDecode
	KindInvalidRequest
	KindUnknown
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	case KindServerError:
		return "server_error"
	case KindNonSuccess:
		return "non_success"
	case KindNetwork:
		return "network"
	case KindTimeout:
		return "timeout"
	case KindDecode:
		return "decode"
	case KindInvalidRequest:
		return "invalid_request"
	default:
		return "unknown"
	}
}

// Kind returns the failure class of an error returned by a dispatch operation.
func Kind(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrUnauthorized):
		return KindUnauthorized
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrServerError):
		return KindServerError
	case errors.Is(err, ErrRequestNonSuccess):
		return KindNonSuccess
	case errors.Is(err, ErrTimeout):
		return KindTimeout
	case errors.Is(err, ErrNetwork):
		return KindNetwork
	case errors.Is(err, ErrDecode):
		return KindDecode
	case errors.Is(err, ErrInvalidRequest):
		return KindInvalidRequest
	default:
		return KindUnknown
	}
}

// statusError returns the kind sentinel for a non-2xx status code.
func statusError(code int) error {
	switch {
	case code == http.StatusUnauthorized, code == http.StatusForbidden:
		return ErrUnauthorized
	case code == http.StatusNotFound:
		return ErrNotFound
	case code >= http.StatusInternalServerError:
		return ErrServerError
	default:
		return ErrRequestNonSuccess
	}
}

// transportError returns the kind sentinel for an error returned by the http client.
func transportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout
	}

	return ErrNetwork
}
