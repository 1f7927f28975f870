package errors

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrProviderUnavailable signals that an external provider cannot be
	// reached; callers in the dedup path degrade instead of failing.
	ErrProviderUnavailable = errors.New("provider unavailable")
)
