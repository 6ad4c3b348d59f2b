package repository

import (
	"context"

	"calendar-admin/internal/model"
)

// EventRepository provides owner-scoped access to calendar events.
type EventRepository interface {
	// Create inserts a new event and fills in the store-assigned ID.
	Create(ctx context.Context, e *model.Event) error
	// ListByOwner returns the owner's events ordered by date ascending.
	ListByOwner(ctx context.Context, ownerID int64) ([]model.Event, error)
}
