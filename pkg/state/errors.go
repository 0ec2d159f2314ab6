package state

import "errors"

// Common errors returned by the state store.
var (
	// ErrEmptyPath is returned when no database path is configured.
	ErrEmptyPath = errors.New("state database path cannot be empty")

	// ErrStoreClosed is returned when using a closed store.
	ErrStoreClosed = errors.New("state store is closed")
)
