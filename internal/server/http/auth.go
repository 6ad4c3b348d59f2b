package httpserver

import (
	"time"

	"github.com/gofiber/fiber/v3"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// login authenticates and sets the session cookie. Unknown usernames and
// wrong passwords produce the same response.
func (s *Server) login(c fiber.Ctx) error {
	var in loginRequest
	if err := c.Bind().Body(&in); err != nil {
		return message(c, fiber.StatusBadRequest, "Invalid request body")
	}

	token, sess, err := s.auth.Login(c.Context(), in.Username, in.Password, c.IP())
	if err != nil {
		return s.fail(c, err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     cookieName,
		Value:    token,
		Expires:  sess.ExpiresAt,
		HTTPOnly: true,
		Secure:   s.opts.CookieSecure,
		SameSite: fiber.CookieSameSiteNoneMode,
		Path:     "/",
	})
	return message(c, fiber.StatusOK, "Logged in")
}

// logout destroys the session and clears the cookie. Destroying an absent or
// already-destroyed token is still a success.
func (s *Server) logout(c fiber.Ctx) error {
	if err := s.auth.Logout(c.Context(), c.Cookies(cookieName)); err != nil {
		return s.fail(c, err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     cookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   s.opts.CookieSecure,
		SameSite: fiber.CookieSameSiteNoneMode,
		Path:     "/",
	})
	return message(c, fiber.StatusOK, "Logged out")
}

// me returns the caller's identity.
func (s *Server) me(c fiber.Ctx) error {
	return c.JSON(toUserResponse(currentUser(c)))
}
