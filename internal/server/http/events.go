package httpserver

import (
	"github.com/gofiber/fiber/v3"
)

type createEventRequest struct {
	Title string `json:"title"`
	Date  string `json:"date"`
}

// listEvents returns the caller's own events, date ascending. Scoping comes
// from the session; there is no way to list another user's calendar.
func (s *Server) listEvents(c fiber.Ctx) error {
	events, err := s.events.List(c.Context(), currentUser(c).ID)
	if err != nil {
		return s.fail(c, err)
	}
	out := make([]eventResponse, 0, len(events))
	for i := range events {
		out = append(out, toEventResponse(&events[i]))
	}
	return c.JSON(out)
}

func (s *Server) createEvent(c fiber.Ctx) error {
	var in createEventRequest
	if err := c.Bind().Body(&in); err != nil {
		return message(c, fiber.StatusBadRequest, "Invalid request body")
	}
	e, err := s.events.Create(c.Context(), currentUser(c).ID, in.Title, in.Date)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(toEventResponse(e))
}
