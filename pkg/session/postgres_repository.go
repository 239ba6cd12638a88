package session

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL-backed session repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, userID uuid.UUID, token string) (Session, error) {
	query := `
		INSERT INTO sessions (user_id, token)
		VALUES ($1, $2)
		RETURNING id, user_id, token, created_at
	`

	var s Session
	err := r.db.QueryRow(ctx, query, userID, token).Scan(&s.ID, &s.UserID, &s.Token, &s.CreatedAt)
	if err != nil {
		return Session{}, err
	}
	return s, nil
}

func (r *PostgresRepository) FindByToken(ctx context.Context, token string) (Session, error) {
	query := `
		SELECT id, user_id, token, created_at
		FROM sessions
		WHERE token = $1
	`

	var s Session
	err := r.db.QueryRow(ctx, query, token).Scan(&s.ID, &s.UserID, &s.Token, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Session{}, ErrSessionNotFound
		}
		return Session{}, err
	}
	return s, nil
}

func (r *PostgresRepository) DeleteByUserIDAndToken(ctx context.Context, userID uuid.UUID, token string) error {
	query := `
		DELETE FROM sessions
		WHERE user_id = $1
		AND token = $2
	`

	_, err := r.db.Exec(ctx, query, userID, token)
	return err
}

func (r *PostgresRepository) DeleteManyByUserID(ctx context.Context, userID uuid.UUID) error {
	query := `DELETE FROM sessions WHERE user_id = $1`

	_, err := r.db.Exec(ctx, query, userID)
	return err
}

func (r *PostgresRepository) UpdateToken(ctx context.Context, id uuid.UUID, token string) error {
	query := `
		UPDATE sessions
		SET token = $2
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query, id, token)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (r *PostgresRepository) IsTokenValid(ctx context.Context, token string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM sessions WHERE token = $1)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, token).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
