package httpserver

import (
	"github.com/gofiber/fiber/v3"
)

type sendMessageRequest struct {
	ToUserID int64  `json:"toUserId"`
	Content  string `json:"content"`
}

// listMessages returns the caller's inbox, newest first.
func (s *Server) listMessages(c fiber.Ctx) error {
	msgs, err := s.messages.List(c.Context(), currentUser(c).ID)
	if err != nil {
		return s.fail(c, err)
	}
	out := make([]messageResponse, 0, len(msgs))
	for i := range msgs {
		out = append(out, toMessageResponse(&msgs[i]))
	}
	return c.JSON(out)
}

// sendMessage stores a message; the sender is always the session user.
func (s *Server) sendMessage(c fiber.Ctx) error {
	var in sendMessageRequest
	if err := c.Bind().Body(&in); err != nil {
		return message(c, fiber.StatusBadRequest, "Invalid request body")
	}
	m, err := s.messages.Send(c.Context(), currentUser(c).ID, in.ToUserID, in.Content)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(toSentMessageResponse(m))
}

// markRead flips the read flag on a message addressed to the caller. A
// message addressed to someone else reports not-found, the same as a missing
// one, so existence never leaks.
func (s *Server) markRead(c fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return message(c, fiber.StatusNotFound, "Not found")
	}
	if err := s.messages.MarkRead(c.Context(), currentUser(c).ID, id); err != nil {
		return s.fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}
