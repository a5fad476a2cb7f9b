package api

import "github.com/google/uuid"

// NewActivityID generates a new random activity identifier.
func NewActivityID() string {
	return uuid.NewString()
}

// ValidateActivityID reports whether id is a well-formed UUID.
func ValidateActivityID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil && len(id) == 36
}
