package httpserver

import (
	"strconv"

	"github.com/gofiber/fiber/v3"

	"calendar-admin/internal/model"
)

type createUserRequest struct {
	Username string     `json:"username"`
	Password string     `json:"password"`
	Role     model.Role `json:"role"`
}

func (s *Server) createUser(c fiber.Ctx) error {
	var in createUserRequest
	if err := c.Bind().Body(&in); err != nil {
		return message(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if _, err := s.users.Create(c.Context(), in.Username, in.Password, in.Role); err != nil {
		return s.fail(c, err)
	}
	return message(c, fiber.StatusOK, "User created")
}

func (s *Server) listUsers(c fiber.Ctx) error {
	users, err := s.users.List(c.Context())
	if err != nil {
		return s.fail(c, err)
	}
	out := make([]userResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i]))
	}
	return c.JSON(out)
}

func (s *Server) getUser(c fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return message(c, fiber.StatusNotFound, "Not found")
	}
	u, err := s.users.Get(c.Context(), id)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(toUserResponse(u))
}

type updateUserRequest struct {
	Username *string     `json:"username"`
	Password *string     `json:"password"`
	Role     *model.Role `json:"role"`
}

func (s *Server) updateUser(c fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return message(c, fiber.StatusNotFound, "Not found")
	}
	var in updateUserRequest
	if err := c.Bind().Body(&in); err != nil {
		return message(c, fiber.StatusBadRequest, "Invalid request body")
	}
	upd := model.UserUpdate{Username: in.Username, Password: in.Password, Role: in.Role}
	if err := s.users.Update(c.Context(), id, upd); err != nil {
		return s.fail(c, err)
	}
	return message(c, fiber.StatusOK, "User updated")
}

// pathID parses the :id route parameter.
func pathID(c fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("id"), 10, 64)
}
