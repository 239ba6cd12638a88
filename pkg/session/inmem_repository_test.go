package session

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simpleauth/simple-auth/pkg/clock"
)

func newTestRepo() *InMemoryRepository {
	return NewInMemoryRepository(clock.NewFixed(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)))
}

func TestCreateAndFind(t *testing.T) {
	repo := newTestRepo()
	ctx := context.Background()
	userID := uuid.New()

	s, err := repo.Create(ctx, userID, "refresh-1")
	require.NoError(t, err)
	assert.Equal(t, userID, s.UserID)

	found, err := repo.FindByToken(ctx, "refresh-1")
	require.NoError(t, err)
	assert.Equal(t, s.ID, found.ID)

	_, err = repo.FindByToken(ctx, "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestDeleteByUserIDAndToken(t *testing.T) {
	repo := newTestRepo()
	ctx := context.Background()
	userID := uuid.New()

	_, err := repo.Create(ctx, userID, "refresh-1")
	require.NoError(t, err)

	// both the user and the token must match
	require.NoError(t, repo.DeleteByUserIDAndToken(ctx, uuid.New(), "refresh-1"))
	_, err = repo.FindByToken(ctx, "refresh-1")
	assert.NoError(t, err)

	require.NoError(t, repo.DeleteByUserIDAndToken(ctx, userID, "refresh-1"))
	_, err = repo.FindByToken(ctx, "refresh-1")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	// absent sessions are a no-op
	assert.NoError(t, repo.DeleteByUserIDAndToken(ctx, userID, "refresh-1"))
}

func TestDeleteManyByUserID(t *testing.T) {
	repo := newTestRepo()
	ctx := context.Background()
	alice := uuid.New()
	bob := uuid.New()

	_, err := repo.Create(ctx, alice, "alice-1")
	require.NoError(t, err)
	_, err = repo.Create(ctx, alice, "alice-2")
	require.NoError(t, err)
	_, err = repo.Create(ctx, bob, "bob-1")
	require.NoError(t, err)

	require.NoError(t, repo.DeleteManyByUserID(ctx, alice))

	for _, token := range []string{"alice-1", "alice-2"} {
		_, err = repo.FindByToken(ctx, token)
		assert.ErrorIs(t, err, ErrSessionNotFound)
	}
	_, err = repo.FindByToken(ctx, "bob-1")
	assert.NoError(t, err)
}

func TestUpdateToken(t *testing.T) {
	repo := newTestRepo()
	ctx := context.Background()

	s, err := repo.Create(ctx, uuid.New(), "old")
	require.NoError(t, err)

	require.NoError(t, repo.UpdateToken(ctx, s.ID, "new"))

	_, err = repo.FindByToken(ctx, "old")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	rotated, err := repo.FindByToken(ctx, "new")
	require.NoError(t, err)
	assert.Equal(t, s.ID, rotated.ID)

	assert.ErrorIs(t, repo.UpdateToken(ctx, uuid.New(), "whatever"), ErrSessionNotFound)
}

func TestIsTokenValid(t *testing.T) {
	repo := newTestRepo()
	ctx := context.Background()

	_, err := repo.Create(ctx, uuid.New(), "live")
	require.NoError(t, err)

	ok, err := repo.IsTokenValid(ctx, "live")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.IsTokenValid(ctx, "dead")
	require.NoError(t, err)
	assert.False(t, ok)
}
