package configs

import "errors"

var (
	// ErrInvalidConfig is returned when a config value is out of range
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrIncompleteCredentials is returned when only one of client id and secret is set
	ErrIncompleteCredentials = errors.New("incomplete api credentials")
)
