package account

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/simpleauth/simple-auth/pkg/clock"
)

// InMemoryRepository implements Repository using in-memory storage. It is
// used by tests and the demo wiring.
type InMemoryRepository struct {
	mu           sync.RWMutex
	users        map[uuid.UUID]User
	usersByEmail map[string]uuid.UUID
	passwords    map[uuid.UUID][]byte
	clk          clock.Clock
}

// NewInMemoryRepository creates a new in-memory account repository.
func NewInMemoryRepository(clk clock.Clock) *InMemoryRepository {
	return &InMemoryRepository{
		users:        make(map[uuid.UUID]User),
		usersByEmail: make(map[string]uuid.UUID),
		passwords:    make(map[uuid.UUID][]byte),
		clk:          clk,
	}
}

func (r *InMemoryRepository) CreateUser(ctx context.Context, params CreateUserParams) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.usersByEmail[params.Email]; exists {
		return User{}, ErrEmailTaken
	}

	now := r.clk.Now()
	u := User{
		ID:          uuid.New(),
		Email:       params.Email,
		FullName:    params.FullName,
		PhoneNumber: params.PhoneNumber,
		Status:      StatusPendingVerification,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.users[u.ID] = u
	r.usersByEmail[u.Email] = u.ID
	return u, nil
}

func (r *InMemoryRepository) FindUserByID(ctx context.Context, id uuid.UUID) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return u, nil
}

func (r *InMemoryRepository) FindUserByEmail(ctx context.Context, email string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.usersByEmail[email]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return r.users[id], nil
}

func (r *InMemoryRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return ErrUserNotFound
	}
	u.Status = status
	u.UpdatedAt = r.clk.Now()
	r.users[id] = u
	return nil
}

func (r *InMemoryRepository) ResurrectUser(ctx context.Context, id uuid.UUID, params ResurrectUserParams) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return User{}, ErrUserNotFound
	}

	now := r.clk.Now()
	u.FullName = params.FullName
	u.PhoneNumber = params.PhoneNumber
	u.Status = StatusPendingVerification
	u.DeletedAt = nil
	u.CreatedAt = now
	u.UpdatedAt = now
	r.users[id] = u
	return u, nil
}

func (r *InMemoryRepository) SoftDeleteUser(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok || u.DeletedAt != nil {
		return ErrUserNotFound
	}

	now := r.clk.Now()
	u.DeletedAt = &now
	u.UpdatedAt = now
	r.users[id] = u
	return nil
}

func (r *InMemoryRepository) GetPasswordHash(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	hash, ok := r.passwords[userID]
	if !ok {
		return nil, ErrPasswordNotFound
	}
	out := make([]byte, len(hash))
	copy(out, hash)
	return out, nil
}

func (r *InMemoryRepository) SetPassword(ctx context.Context, userID uuid.UUID, hash []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := make([]byte, len(hash))
	copy(stored, hash)
	r.passwords[userID] = stored
	return nil
}

var _ Repository = (*InMemoryRepository)(nil)
