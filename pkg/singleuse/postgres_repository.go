package singleuse

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements Repository on a single table. Both token
// tables share the same shape, so the table name is a constructor
// argument; use NewValidationTokenRepository or NewOTPCodeRepository.
type PostgresRepository struct {
	db    *pgxpool.Pool
	table string
}

// NewValidationTokenRepository stores email validation tokens.
func NewValidationTokenRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db, table: "validation_tokens"}
}

// NewOTPCodeRepository stores SMS one-time codes.
func NewOTPCodeRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db, table: "otp_codes"}
}

// Create inserts a token for the user. The user_id unique constraint
// backs up the at-most-one-live-token invariant enforced by the Store.
func (r *PostgresRepository) Create(ctx context.Context, userID uuid.UUID, token string) (Token, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (token, user_id)
		VALUES ($1, $2)
		RETURNING token, user_id, created_at
	`, r.table)

	var t Token
	err := r.db.QueryRow(ctx, query, token, userID).Scan(&t.Token, &t.UserID, &t.CreatedAt)
	if err != nil {
		return Token{}, err
	}
	return t, nil
}

func (r *PostgresRepository) FindByToken(ctx context.Context, token string) (Token, error) {
	query := fmt.Sprintf(`
		SELECT token, user_id, created_at
		FROM %s
		WHERE token = $1
	`, r.table)

	var t Token
	err := r.db.QueryRow(ctx, query, token).Scan(&t.Token, &t.UserID, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Token{}, ErrTokenNotFound
		}
		return Token{}, err
	}
	return t, nil
}

func (r *PostgresRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (Token, error) {
	query := fmt.Sprintf(`
		SELECT token, user_id, created_at
		FROM %s
		WHERE user_id = $1
	`, r.table)

	var t Token
	err := r.db.QueryRow(ctx, query, userID).Scan(&t.Token, &t.UserID, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Token{}, ErrTokenNotFound
		}
		return Token{}, err
	}
	return t, nil
}

func (r *PostgresRepository) DeleteByToken(ctx context.Context, token string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE token = $1`, r.table)

	tag, err := r.db.Exec(ctx, query, token)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTokenNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE user_id = $1`, r.table)

	tag, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTokenNotFound
	}
	return nil
}
