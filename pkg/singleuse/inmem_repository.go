package singleuse

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/simpleauth/simple-auth/pkg/clock"
)

// InMemoryRepository implements Repository using in-memory storage.
type InMemoryRepository struct {
	mu          sync.RWMutex
	byToken     map[string]Token
	tokenByUser map[uuid.UUID]string
	clk         clock.Clock
}

// NewInMemoryRepository creates a new in-memory token repository.
func NewInMemoryRepository(clk clock.Clock) *InMemoryRepository {
	return &InMemoryRepository{
		byToken:     make(map[string]Token),
		tokenByUser: make(map[uuid.UUID]string),
		clk:         clk,
	}
}

func (r *InMemoryRepository) Create(ctx context.Context, userID uuid.UUID, token string) (Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t := Token{
		Token:     token,
		UserID:    userID,
		CreatedAt: r.clk.Now(),
	}
	r.byToken[token] = t
	r.tokenByUser[userID] = token
	return t, nil
}

func (r *InMemoryRepository) FindByToken(ctx context.Context, token string) (Token, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.byToken[token]
	if !ok {
		return Token{}, ErrTokenNotFound
	}
	return t, nil
}

func (r *InMemoryRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (Token, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	token, ok := r.tokenByUser[userID]
	if !ok {
		return Token{}, ErrTokenNotFound
	}
	return r.byToken[token], nil
}

func (r *InMemoryRepository) DeleteByToken(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.byToken[token]
	if !ok {
		return ErrTokenNotFound
	}
	delete(r.byToken, token)
	delete(r.tokenByUser, t.UserID)
	return nil
}

func (r *InMemoryRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	token, ok := r.tokenByUser[userID]
	if !ok {
		return ErrTokenNotFound
	}
	delete(r.byToken, token)
	delete(r.tokenByUser, userID)
	return nil
}

var _ Repository = (*InMemoryRepository)(nil)
