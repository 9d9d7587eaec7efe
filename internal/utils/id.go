package utils

import "github.com/google/uuid"

// NewID returns a random connection identifier. Values are never reused
// within a process lifetime in practice (UUIDv4, 122 random bits).
func NewID() string {
	return uuid.NewString()
}
