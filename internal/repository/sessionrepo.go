package repository

import (
	"context"

	"calendar-admin/internal/model"
)

// SessionRepository persists login sessions keyed by token hash.
type SessionRepository interface {
	// Create inserts a new session row.
	Create(ctx context.Context, s *model.Session) error
	// GetByTokenHash loads a session by its token hash.
	GetByTokenHash(ctx context.Context, tokenHash string) (*model.Session, error)
	// DeleteByTokenHash removes a session. Deleting an absent row is not an error.
	DeleteByTokenHash(ctx context.Context, tokenHash string) error
	// DeleteExpired removes sessions past their expiry and reports how many.
	DeleteExpired(ctx context.Context) (int64, error)
}
