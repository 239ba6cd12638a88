package session

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for session data access.
type Repository interface {
	// Create a new session binding the user to a refresh token.
	Create(ctx context.Context, userID uuid.UUID, token string) (Session, error)

	// FindByToken retrieves the session holding the given token.
	FindByToken(ctx context.Context, token string) (Session, error)

	// DeleteByUserIDAndToken removes the session matching both the user
	// and the token exactly. Logout path; it is a no-op when absent.
	DeleteByUserIDAndToken(ctx context.Context, userID uuid.UUID, token string) error

	// DeleteManyByUserID removes every session of the user. Password
	// change path.
	DeleteManyByUserID(ctx context.Context, userID uuid.UUID) error

	// UpdateToken replaces the stored token on the same session row.
	// Refresh rotation path.
	UpdateToken(ctx context.Context, id uuid.UUID, token string) error

	// IsTokenValid reports whether a session holds the given token.
	IsTokenValid(ctx context.Context, token string) (bool, error)
}
