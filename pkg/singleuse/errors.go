package singleuse

import "errors"

var (
	// ErrTokenNotFound is returned when no token matches the lookup.
	ErrTokenNotFound = errors.New("token not found")
)
