package account

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simpleauth/simple-auth/pkg/clock"
)

func newTestRepo() (*InMemoryRepository, *clock.Fixed) {
	clk := clock.NewFixed(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	return NewInMemoryRepository(clk), clk
}

func TestCreateAndFindUser(t *testing.T) {
	repo, _ := newTestRepo()
	ctx := context.Background()

	u, err := repo.CreateUser(ctx, CreateUserParams{Email: "alice@example.com", FullName: "Alice"})
	require.NoError(t, err)
	assert.Equal(t, StatusPendingVerification, u.Status)

	byID, err := repo.FindUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u, byID)

	byEmail, err := repo.FindUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, u, byEmail)

	_, err = repo.CreateUser(ctx, CreateUserParams{Email: "alice@example.com"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestSoftDeleteKeepsEmailLookup(t *testing.T) {
	repo, _ := newTestRepo()
	ctx := context.Background()

	u, err := repo.CreateUser(ctx, CreateUserParams{Email: "alice@example.com"})
	require.NoError(t, err)
	require.NoError(t, repo.SoftDeleteUser(ctx, u.ID))

	// the row survives so signup can resurrect it
	found, err := repo.FindUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.True(t, found.IsDeleted())

	// deleting twice is an error
	assert.ErrorIs(t, repo.SoftDeleteUser(ctx, u.ID), ErrUserNotFound)
}

func TestResurrectUser(t *testing.T) {
	repo, clk := newTestRepo()
	ctx := context.Background()

	u, err := repo.CreateUser(ctx, CreateUserParams{Email: "alice@example.com", FullName: "Alice"})
	require.NoError(t, err)
	require.NoError(t, repo.UpdateStatus(ctx, u.ID, StatusActive))
	require.NoError(t, repo.SoftDeleteUser(ctx, u.ID))

	clk.Advance(48 * time.Hour)

	back, err := repo.ResurrectUser(ctx, u.ID, ResurrectUserParams{FullName: "Alice Two"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, back.ID)
	assert.Equal(t, "Alice Two", back.FullName)
	assert.Equal(t, StatusPendingVerification, back.Status)
	assert.False(t, back.IsDeleted())
	assert.True(t, back.CreatedAt.After(u.CreatedAt))
}

func TestPasswordStorage(t *testing.T) {
	repo, _ := newTestRepo()
	ctx := context.Background()

	u, err := repo.CreateUser(ctx, CreateUserParams{Email: "alice@example.com"})
	require.NoError(t, err)

	_, err = repo.GetPasswordHash(ctx, u.ID)
	assert.ErrorIs(t, err, ErrPasswordNotFound)

	require.NoError(t, repo.SetPassword(ctx, u.ID, []byte("hash-1")))
	hash, err := repo.GetPasswordHash(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("hash-1"), hash)

	// upsert semantics
	require.NoError(t, repo.SetPassword(ctx, u.ID, []byte("hash-2")))
	hash, err = repo.GetPasswordHash(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("hash-2"), hash)
}
