package httpserver

import (
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"calendar-admin/internal/model"
)

const userLocal = "user"

// requireAuth resolves the session cookie through the auth service and stores
// the user for downstream handlers. Every protected route goes through here.
func (s *Server) requireAuth(c fiber.Ctx) error {
	u, err := s.auth.CurrentUser(c.Context(), c.Cookies(cookieName))
	if err != nil {
		// absent, unknown, and expired tokens all land here; no detail leaks
		return s.fail(c, err)
	}
	c.Locals(userLocal, u)
	return c.Next()
}

// requireAdmin gates a route on the admin role. Must run after requireAuth.
func (s *Server) requireAdmin(c fiber.Ctx) error {
	if u := currentUser(c); u == nil || u.Role != model.RoleAdmin {
		return message(c, fiber.StatusForbidden, "Forbidden")
	}
	return c.Next()
}

// currentUser returns the session user stored by requireAuth.
func currentUser(c fiber.Ctx) *model.User {
	u, _ := c.Locals(userLocal).(*model.User)
	return u
}

// logRequests emits one structured line per request. Metadata only; no
// payloads or cookie values.
func (s *Server) logRequests(c fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	s.log.Info("http",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Int("status", c.Response().StatusCode()),
		zap.Duration("dur", time.Since(start)),
		zap.String("ip", c.IP()),
	)
	return err
}

// recoverPanics converts handler panics into opaque 500 responses.
func (s *Server) recoverPanics(c fiber.Ctx) (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("panic",
				zap.Any("reason", r),
				zap.ByteString("stack", debug.Stack()),
				zap.String("path", c.Path()),
			)
			err = message(c, fiber.StatusInternalServerError, "Internal server error")
		}
	}()
	return c.Next()
}
