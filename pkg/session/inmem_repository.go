package session

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/simpleauth/simple-auth/pkg/clock"
)

// InMemoryRepository implements Repository using in-memory storage.
type InMemoryRepository struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]Session
	byToken  map[string]uuid.UUID
	clk      clock.Clock
}

// NewInMemoryRepository creates a new in-memory session repository.
func NewInMemoryRepository(clk clock.Clock) *InMemoryRepository {
	return &InMemoryRepository{
		sessions: make(map[uuid.UUID]Session),
		byToken:  make(map[string]uuid.UUID),
		clk:      clk,
	}
}

func (r *InMemoryRepository) Create(ctx context.Context, userID uuid.UUID, token string) (Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := Session{
		ID:        uuid.New(),
		UserID:    userID,
		Token:     token,
		CreatedAt: r.clk.Now(),
	}
	r.sessions[s.ID] = s
	r.byToken[token] = s.ID
	return s, nil
}

func (r *InMemoryRepository) FindByToken(ctx context.Context, token string) (Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byToken[token]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	return r.sessions[id], nil
}

func (r *InMemoryRepository) DeleteByUserIDAndToken(ctx context.Context, userID uuid.UUID, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byToken[token]
	if !ok {
		return nil
	}
	if r.sessions[id].UserID != userID {
		return nil
	}
	delete(r.sessions, id)
	delete(r.byToken, token)
	return nil
}

func (r *InMemoryRepository) DeleteManyByUserID(ctx context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, s := range r.sessions {
		if s.UserID == userID {
			delete(r.sessions, id)
			delete(r.byToken, s.Token)
		}
	}
	return nil
}

func (r *InMemoryRepository) UpdateToken(ctx context.Context, id uuid.UUID, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	delete(r.byToken, s.Token)
	s.Token = token
	r.sessions[id] = s
	r.byToken[token] = id
	return nil
}

func (r *InMemoryRepository) IsTokenValid(ctx context.Context, token string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.byToken[token]
	return ok, nil
}

var _ Repository = (*InMemoryRepository)(nil)
