package account

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL-backed account repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const uniqueViolation = "23505"

// CreateUser inserts a new user in pending_verification.
func (r *PostgresRepository) CreateUser(ctx context.Context, params CreateUserParams) (User, error) {
	query := `
		INSERT INTO users (email, full_name, phone_number, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, email, full_name, phone_number, status, deleted_at, created_at, updated_at
	`

	var u User
	err := r.db.QueryRow(ctx, query, params.Email, params.FullName, params.PhoneNumber, StatusPendingVerification).Scan(
		&u.ID,
		&u.Email,
		&u.FullName,
		&u.PhoneNumber,
		&u.Status,
		&u.DeletedAt,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return User{}, ErrEmailTaken
		}
		return User{}, err
	}

	return u, nil
}

// FindUserByID retrieves a user by id, including soft-deleted rows.
func (r *PostgresRepository) FindUserByID(ctx context.Context, id uuid.UUID) (User, error) {
	query := `
		SELECT id, email, full_name, phone_number, status, deleted_at, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	return r.scanUser(r.db.QueryRow(ctx, query, id))
}

// FindUserByEmail retrieves a user by email, including soft-deleted rows.
func (r *PostgresRepository) FindUserByEmail(ctx context.Context, email string) (User, error) {
	query := `
		SELECT id, email, full_name, phone_number, status, deleted_at, created_at, updated_at
		FROM users
		WHERE email = $1
	`
	return r.scanUser(r.db.QueryRow(ctx, query, email))
}

func (r *PostgresRepository) scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.FullName,
		&u.PhoneNumber,
		&u.Status,
		&u.DeletedAt,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, err
	}
	return u, nil
}

// UpdateStatus sets the user's status.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	query := `
		UPDATE users
		SET status = $2,
		    updated_at = NOW() AT TIME ZONE 'UTC'
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ResurrectUser reuses a soft-deleted row for a repeat signup.
func (r *PostgresRepository) ResurrectUser(ctx context.Context, id uuid.UUID, params ResurrectUserParams) (User, error) {
	query := `
		UPDATE users
		SET full_name = $2,
		    phone_number = $3,
		    status = $4,
		    deleted_at = NULL,
		    created_at = NOW() AT TIME ZONE 'UTC',
		    updated_at = NOW() AT TIME ZONE 'UTC'
		WHERE id = $1
		RETURNING id, email, full_name, phone_number, status, deleted_at, created_at, updated_at
	`
	return r.scanUser(r.db.QueryRow(ctx, query, id, params.FullName, params.PhoneNumber, StatusPendingVerification))
}

// SoftDeleteUser marks the user as deleted.
func (r *PostgresRepository) SoftDeleteUser(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE users
		SET deleted_at = NOW() AT TIME ZONE 'UTC',
		    updated_at = NOW() AT TIME ZONE 'UTC'
		WHERE id = $1
		AND deleted_at IS NULL
	`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// GetPasswordHash retrieves the user's password hash.
func (r *PostgresRepository) GetPasswordHash(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	query := `
		SELECT hash
		FROM passwords
		WHERE user_id = $1
	`

	var hash []byte
	err := r.db.QueryRow(ctx, query, userID).Scan(&hash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPasswordNotFound
		}
		return nil, err
	}
	return hash, nil
}

// SetPassword creates or replaces the user's password hash wholesale.
func (r *PostgresRepository) SetPassword(ctx context.Context, userID uuid.UUID, hash []byte) error {
	query := `
		INSERT INTO passwords (user_id, hash)
		VALUES ($1, $2)
		ON CONFLICT (user_id)
		DO UPDATE SET hash = EXCLUDED.hash,
		              updated_at = NOW() AT TIME ZONE 'UTC'
	`

	_, err := r.db.Exec(ctx, query, userID, hash)
	return err
}
