package service

import (
	"context"
	"errors"
	"fmt"

	"calendar-admin/internal/errs"
	"calendar-admin/internal/model"
	"calendar-admin/internal/repository"
)

// MessageService defines direct messaging operations.
type MessageService interface {
	// List returns messages addressed to the caller, newest first.
	List(ctx context.Context, callerID int64) ([]model.Message, error)
	// Send stores a message from the caller to another user.
	Send(ctx context.Context, callerID, toID int64, content string) (*model.Message, error)
	// MarkRead flips the read flag on a message addressed to the caller.
	// Messages addressed to anyone else report ErrNotFound.
	MarkRead(ctx context.Context, callerID, messageID int64) error
}

type MessageServiceImpl struct {
	messages repository.MessageRepository
}

// NewMessageService constructs MessageService.
func NewMessageService(messages repository.MessageRepository) *MessageServiceImpl {
	return &MessageServiceImpl{messages: messages}
}

// List returns the caller's inbox, newest first, with sender usernames.
func (s *MessageServiceImpl) List(ctx context.Context, callerID int64) ([]model.Message, error) {
	return s.messages.ListByRecipient(ctx, callerID)
}

// Send validates the payload and inserts the message. The sender is always
// the caller's session-resolved id. An unknown recipient is a validation
// failure rather than an internal one.
func (s *MessageServiceImpl) Send(ctx context.Context, callerID, toID int64, content string) (*model.Message, error) {
	if toID <= 0 {
		return nil, fmt.Errorf("%w: toUserId is required", errs.ErrValidation)
	}
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", errs.ErrValidation)
	}
	m := &model.Message{ToUserID: toID, FromUserID: callerID, Content: content}
	if err := s.messages.Create(ctx, m); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown recipient", errs.ErrValidation)
		}
		return nil, err
	}
	return m, nil
}

// MarkRead transitions unread to read for the caller's own message. The
// transition is one-directional; no operation reverts it.
func (s *MessageServiceImpl) MarkRead(ctx context.Context, callerID, messageID int64) error {
	if messageID <= 0 {
		return errs.ErrNotFound
	}
	return s.messages.MarkRead(ctx, messageID, callerID)
}
