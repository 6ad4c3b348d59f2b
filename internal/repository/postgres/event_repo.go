package postgres

import (
	"context"

	"calendar-admin/internal/errs"
	"calendar-admin/internal/model"
)

// EventRepo implements EventRepository using PostgreSQL.
type EventRepo struct{ db *DB }

// NewEventRepo constructs an event repository.
func NewEventRepo(db *DB) *EventRepo { return &EventRepo{db: db} }

// Create inserts a new event row and fills in the assigned ID.
func (r *EventRepo) Create(ctx context.Context, e *model.Event) error {
	const q = `
INSERT INTO events (user_id, title, event_date)
VALUES ($1, $2, $3)
RETURNING id`
	err := r.db.Pool.QueryRow(ctx, q, e.UserID, e.Title, e.Date).Scan(&e.ID)
	if isFKViolation(err) {
		return errs.ErrNotFound
	}
	return err
}

// ListByOwner returns the owner's events ordered by date ascending.
func (r *EventRepo) ListByOwner(ctx context.Context, ownerID int64) ([]model.Event, error) {
	const q = `
SELECT id, user_id, title, event_date
FROM events
WHERE user_id=$1
ORDER BY event_date ASC, id ASC`
	rows, err := r.db.Pool.Query(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Event
	for rows.Next() {
		var e model.Event
		if err = rows.Scan(&e.ID, &e.UserID, &e.Title, &e.Date); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
