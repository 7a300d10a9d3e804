package store

import "errors"

// Predefined errors for the storage layer.
var (
	// ErrNotFound indicates the requested key has no stored value.
	ErrNotFound = errors.New("key not found")
)
