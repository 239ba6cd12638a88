package account

import (
	"context"

	"github.com/google/uuid"
)

// CreateUserParams holds the fields of a new user. New users always start
// in pending_verification.
type CreateUserParams struct {
	Email       string
	FullName    string
	PhoneNumber string
}

// ResurrectUserParams holds the profile fields written back onto a
// soft-deleted row when signup reuses it.
type ResurrectUserParams struct {
	FullName    string
	PhoneNumber string
}

// Repository owns User and Password records. Passwords are only ever
// replaced wholesale and never leave the store except as a hash for
// comparison.
type Repository interface {
	CreateUser(ctx context.Context, params CreateUserParams) (User, error)
	FindUserByID(ctx context.Context, id uuid.UUID) (User, error)
	// FindUserByEmail returns the user regardless of soft-delete state so
	// the signup flow can decide between conflict and resurrection.
	FindUserByEmail(ctx context.Context, email string) (User, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
	// ResurrectUser clears deleted_at, resets created_at to now, rewrites
	// the profile fields and puts the account back in pending_verification.
	ResurrectUser(ctx context.Context, id uuid.UUID, params ResurrectUserParams) (User, error)
	SoftDeleteUser(ctx context.Context, id uuid.UUID) error

	GetPasswordHash(ctx context.Context, userID uuid.UUID) ([]byte, error)
	// SetPassword creates or replaces the user's password hash.
	SetPassword(ctx context.Context, userID uuid.UUID, hash []byte) error
}
