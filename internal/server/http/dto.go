package httpserver

import (
	"time"

	"calendar-admin/internal/model"
	"calendar-admin/internal/service"
)

// Wire DTOs. Field names follow the original portal API; secrets and their
// hashes never appear in any of these shapes.

type userResponse struct {
	ID       int64      `json:"id"`
	Username string     `json:"username"`
	Role     model.Role `json:"role"`
}

func toUserResponse(u *model.User) userResponse {
	return userResponse{ID: u.ID, Username: u.Username, Role: u.Role}
}

type eventResponse struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Date  string `json:"date"`
}

func toEventResponse(e *model.Event) eventResponse {
	return eventResponse{ID: e.ID, Title: e.Title, Date: e.Date.Format(service.DateLayout)}
}

type messageResponse struct {
	ID           int64  `json:"id"`
	FromUserID   int64  `json:"fromUserId"`
	FromUsername string `json:"fromUsername"`
	Content      string `json:"content"`
	Read         int    `json:"read"`
	CreatedAt    string `json:"createdAt"`
}

func toMessageResponse(m *model.Message) messageResponse {
	return messageResponse{
		ID:           m.ID,
		FromUserID:   m.FromUserID,
		FromUsername: m.FromUsername,
		Content:      m.Content,
		Read:         readFlag(m.Read),
		CreatedAt:    m.CreatedAt.UTC().Format(time.RFC3339),
	}
}

type sentMessageResponse struct {
	ID         int64  `json:"id"`
	ToUserID   int64  `json:"toUserId"`
	FromUserID int64  `json:"fromUserId"`
	Content    string `json:"content"`
	Read       int    `json:"read"`
	CreatedAt  string `json:"createdAt"`
}

func toSentMessageResponse(m *model.Message) sentMessageResponse {
	return sentMessageResponse{
		ID:         m.ID,
		ToUserID:   m.ToUserID,
		FromUserID: m.FromUserID,
		Content:    m.Content,
		Read:       readFlag(m.Read),
		CreatedAt:  m.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// readFlag keeps the original 0/1 wire encoding of the read flag.
func readFlag(read bool) int {
	if read {
		return 1
	}
	return 0
}
