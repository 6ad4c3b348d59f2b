package repository

import (
	"context"

	"calendar-admin/internal/model"
)

// MessageRepository provides recipient-scoped access to direct messages.
type MessageRepository interface {
	// Create inserts a new message and fills in ID and CreatedAt.
	Create(ctx context.Context, m *model.Message) error
	// ListByRecipient returns messages addressed to userID, newest first,
	// with the sender's username joined in.
	ListByRecipient(ctx context.Context, userID int64) ([]model.Message, error)
	// MarkRead flips the read flag on a message addressed to recipientID.
	// Returns ErrNotFound when no such message is addressed to the caller.
	MarkRead(ctx context.Context, id, recipientID int64) error
}
