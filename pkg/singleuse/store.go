package singleuse

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/simpleauth/simple-auth/pkg/clock"
)

// Store enforces the single-use token semantics: at most one live token
// per user, delete-then-create on issue (never update in place, so a
// replaced token can not be revived), and validity computed from the
// token's age against a configured window. Expiry never deletes a token
// by itself; explicit delete calls are the only deletion path.
type Store struct {
	repo     Repository
	generate Generator
	validity time.Duration
	clk      clock.Clock
}

// NewStore creates a Store with the given generator and validity window.
func NewStore(repo Repository, generate Generator, validity time.Duration, clk clock.Clock) *Store {
	return &Store{
		repo:     repo,
		generate: generate,
		validity: validity,
		clk:      clk,
	}
}

// Validity returns the configured validity window.
func (s *Store) Validity() time.Duration {
	return s.validity
}

// Issue deletes any prior token for the user and creates a fresh one.
func (s *Store) Issue(ctx context.Context, userID uuid.UUID) (Token, error) {
	if err := s.DeleteIfUserHas(ctx, userID); err != nil {
		return Token{}, err
	}

	value, err := s.generate()
	if err != nil {
		return Token{}, err
	}

	token, err := s.repo.Create(ctx, userID, value)
	if err != nil {
		slog.Error("Failed to create token", "user_id", userID, "err", err)
		return Token{}, fmt.Errorf("failed to create token: %w", err)
	}
	return token, nil
}

// IsValid reports whether the token exists and its age is within the
// validity window.
func (s *Store) IsValid(ctx context.Context, token string) (bool, error) {
	t, err := s.repo.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			return false, nil
		}
		return false, err
	}
	return s.clk.Since(t.CreatedAt) < s.validity, nil
}

// FindByToken retrieves a token by value.
func (s *Store) FindByToken(ctx context.Context, token string) (Token, error) {
	return s.repo.FindByToken(ctx, token)
}

// FindByUserID retrieves the user's live token, if any.
func (s *Store) FindByUserID(ctx context.Context, userID uuid.UUID) (Token, error) {
	return s.repo.FindByUserID(ctx, userID)
}

// DeleteByUserID removes the user's token; it errors when there is none.
func (s *Store) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	return s.repo.DeleteByUserID(ctx, userID)
}

// DeleteIfExists removes the token when present and is a no-op otherwise.
func (s *Store) DeleteIfExists(ctx context.Context, token string) error {
	err := s.repo.DeleteByToken(ctx, token)
	if err != nil && !errors.Is(err, ErrTokenNotFound) {
		return err
	}
	return nil
}

// DeleteIfUserHas removes the user's token when present and is a no-op
// otherwise.
func (s *Store) DeleteIfUserHas(ctx context.Context, userID uuid.UUID) error {
	err := s.repo.DeleteByUserID(ctx, userID)
	if err != nil && !errors.Is(err, ErrTokenNotFound) {
		return err
	}
	return nil
}
