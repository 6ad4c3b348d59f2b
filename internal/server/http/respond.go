package httpserver

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"calendar-admin/internal/chat"
	"calendar-admin/internal/errs"
)

// message writes the portal's standard {message} body.
func message(c fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"message": msg})
}

// fail translates service-level sentinels into wire-level outcomes. Anything
// unrecognized is logged and surfaced as an opaque internal error.
func (s *Server) fail(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, errs.ErrValidation):
		return message(c, fiber.StatusBadRequest, validationText(err))
	case errors.Is(err, errs.ErrUnauthorized):
		return message(c, fiber.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, errs.ErrInvalidCredentials):
		return message(c, fiber.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, errs.ErrRateLimited):
		return message(c, fiber.StatusTooManyRequests, "Too many login attempts")
	case errors.Is(err, errs.ErrAlreadyExists):
		return message(c, fiber.StatusConflict, "Username already exists")
	case errors.Is(err, errs.ErrNotFound):
		return message(c, fiber.StatusNotFound, "Not found")
	case errors.Is(err, chat.ErrUpstream):
		s.log.Warn("chat relay", zap.Error(err))
		return message(c, fiber.StatusBadGateway, "Chat relay failed")
	default:
		s.log.Error("internal", zap.Error(err), zap.String("path", c.Path()))
		return message(c, fiber.StatusInternalServerError, "Internal server error")
	}
}

// validationText strips the sentinel prefix so the client sees only the
// field description, e.g. "title is required".
func validationText(err error) string {
	msg := err.Error()
	if rest, ok := strings.CutPrefix(msg, errs.ErrValidation.Error()+": "); ok {
		return rest
	}
	return msg
}
