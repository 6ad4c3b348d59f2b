package httpserver

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	"calendar-admin/internal/errs"
)

type chatRequest struct {
	Prompt string `json:"prompt"`
}

// chatRelay forwards the prompt to the completion upstream. Upstream
// failures affect only this call and are never echoed to the client.
func (s *Server) chatRelay(c fiber.Ctx) error {
	var in chatRequest
	if err := c.Bind().Body(&in); err != nil {
		return message(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if in.Prompt == "" {
		return s.fail(c, fmt.Errorf("%w: prompt is required", errs.ErrValidation))
	}
	text, err := s.relay.Complete(c.Context(), in.Prompt)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(fiber.Map{"message": text})
}
