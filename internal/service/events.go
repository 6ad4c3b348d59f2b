package service

import (
	"context"
	"fmt"
	"time"

	"calendar-admin/internal/errs"
	"calendar-admin/internal/model"
	"calendar-admin/internal/repository"
)

// DateLayout is the wire format for calendar dates (no time-of-day).
const DateLayout = "2006-01-02"

// EventService defines owner-scoped calendar operations.
type EventService interface {
	// List returns the caller's events ordered by date ascending.
	List(ctx context.Context, ownerID int64) ([]model.Event, error)
	// Create stores a new event owned by the caller. The owner id always
	// comes from the resolved session, never from client input.
	Create(ctx context.Context, ownerID int64, title, date string) (*model.Event, error)
}

type EventServiceImpl struct {
	events repository.EventRepository
}

// NewEventService constructs EventService.
func NewEventService(events repository.EventRepository) *EventServiceImpl {
	return &EventServiceImpl{events: events}
}

// List returns the owner's events, date ascending.
func (s *EventServiceImpl) List(ctx context.Context, ownerID int64) ([]model.Event, error) {
	return s.events.ListByOwner(ctx, ownerID)
}

// Create validates title and date and inserts the event.
func (s *EventServiceImpl) Create(ctx context.Context, ownerID int64, title, date string) (*model.Event, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", errs.ErrValidation)
	}
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", errs.ErrValidation)
	}
	e := &model.Event{UserID: ownerID, Title: title, Date: d}
	if err := s.events.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}
