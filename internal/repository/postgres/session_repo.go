package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"calendar-admin/internal/errs"
	"calendar-admin/internal/model"
)

// SessionRepo implements SessionRepository using PostgreSQL.
type SessionRepo struct{ db *DB }

// NewSessionRepo constructs a session repository.
func NewSessionRepo(db *DB) *SessionRepo { return &SessionRepo{db: db} }

// Create inserts a new session row.
func (r *SessionRepo) Create(ctx context.Context, s *model.Session) error {
	const q = `
INSERT INTO sessions (id, user_id, token_hash, created_at, expires_at)
VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.Pool.Exec(ctx, q, s.ID, s.UserID, s.TokenHash, s.CreatedAt, s.ExpiresAt)
	return err
}

// GetByTokenHash selects a session by token hash.
func (r *SessionRepo) GetByTokenHash(ctx context.Context, tokenHash string) (*model.Session, error) {
	const q = `
SELECT id, user_id, token_hash, created_at, expires_at
FROM sessions WHERE token_hash=$1`
	row := r.db.Pool.QueryRow(ctx, q, tokenHash)
	var s model.Session
	if err := row.Scan(&s.ID, &s.UserID, &s.TokenHash, &s.CreatedAt, &s.ExpiresAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// DeleteByTokenHash removes a session. Missing rows are not an error so that
// logout stays idempotent.
func (r *SessionRepo) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	const q = `DELETE FROM sessions WHERE token_hash=$1`
	_, err := r.db.Pool.Exec(ctx, q, tokenHash)
	return err
}

// DeleteExpired removes all sessions past their expiry.
func (r *SessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	const q = `DELETE FROM sessions WHERE expires_at <= now()`
	tag, err := r.db.Pool.Exec(ctx, q)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
