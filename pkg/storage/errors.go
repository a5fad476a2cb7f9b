package storage

import "errors"

// Sentinel errors for storage operations.
var (
	// ErrNotFound is returned when an activity does not exist in the caller's tenant.
	ErrNotFound = errors.New("activity not found")

	// ErrConflict is returned when an activity with the given ID already exists.
	ErrConflict = errors.New("activity already exists")
)
