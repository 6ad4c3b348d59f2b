package postgres

import (
	"context"

	"calendar-admin/internal/errs"
	"calendar-admin/internal/model"
)

// MessageRepo implements MessageRepository using PostgreSQL.
type MessageRepo struct{ db *DB }

// NewMessageRepo constructs a message repository.
func NewMessageRepo(db *DB) *MessageRepo { return &MessageRepo{db: db} }

// Create inserts a new message row and fills in ID and CreatedAt.
// An unknown recipient surfaces as ErrNotFound via the FK constraint.
func (r *MessageRepo) Create(ctx context.Context, m *model.Message) error {
	const q = `
INSERT INTO messages (to_user_id, from_user_id, content)
VALUES ($1, $2, $3)
RETURNING id, read, created_at`
	err := r.db.Pool.QueryRow(ctx, q, m.ToUserID, m.FromUserID, m.Content).
		Scan(&m.ID, &m.Read, &m.CreatedAt)
	if isFKViolation(err) {
		return errs.ErrNotFound
	}
	return err
}

// ListByRecipient returns messages addressed to userID, newest first,
// with the sender's username joined in for display.
func (r *MessageRepo) ListByRecipient(ctx context.Context, userID int64) ([]model.Message, error) {
	const q = `
SELECT m.id, m.to_user_id, m.from_user_id, u.username, m.content, m.read, m.created_at
FROM messages m
JOIN users u ON u.id = m.from_user_id
WHERE m.to_user_id=$1
ORDER BY m.created_at DESC, m.id DESC`
	rows, err := r.db.Pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Message
	for rows.Next() {
		var m model.Message
		if err = rows.Scan(&m.ID, &m.ToUserID, &m.FromUserID, &m.FromUsername, &m.Content, &m.Read, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// MarkRead flips the read flag. The recipient predicate makes marking another
// user's message indistinguishable from marking a missing one.
func (r *MessageRepo) MarkRead(ctx context.Context, id, recipientID int64) error {
	const q = `UPDATE messages SET read = true WHERE id=$1 AND to_user_id=$2`
	tag, err := r.db.Pool.Exec(ctx, q, id, recipientID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}
