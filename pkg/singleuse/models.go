package singleuse

import (
	"time"

	"github.com/google/uuid"
)

// Token is a single-use credential bound to at most one user. The same
// shape backs both email validation tokens (hex) and SMS one-time codes
// (numeric); only the generator and validity window differ.
type Token struct {
	Token     string
	UserID    uuid.UUID
	CreatedAt time.Time
}
