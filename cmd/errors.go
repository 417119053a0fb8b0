package cmd

import "errors"

var (
	// ErrMissingCredentials is returned when the token command runs without client credentials
	ErrMissingCredentials = errors.New("api client id and secret are required")
	// ErrTokenUnavailable is returned when no access token could be acquired
	ErrTokenUnavailable = errors.New("could not acquire an access token")
)
