package singleuse

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the raw storage contract for single-use tokens. The Store
// layers the issue/validity semantics on top; callers should not use the
// repository directly.
type Repository interface {
	Create(ctx context.Context, userID uuid.UUID, token string) (Token, error)
	FindByToken(ctx context.Context, token string) (Token, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (Token, error)
	DeleteByToken(ctx context.Context, token string) error
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
}
