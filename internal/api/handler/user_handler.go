package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/apisec/secure-api/internal/core/domain"
	"github.com/apisec/secure-api/internal/core/ports"
)

// UserHandler serves the current-user route and the admin user-directory
// surface.
type UserHandler struct {
	userService ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Me returns the authenticated user's own record.
func (h *UserHandler) Me(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, meResponse{
		ID:       user.ID,
		Email:    user.Email,
		Username: user.Username,
		Role:     user.Role,
		Scopes:   user.Scopes,
	})
}

// List returns all users. Password hashes never appear in the payload; the
// domain type excludes them from serialization.
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.userService.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// Delete removes a user by id.
func (h *UserHandler) Delete(c echo.Context) error {
	err := h.userService.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, errorResponse{Error: "user not found"})
		}
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Elevate promotes a user to admin with the full scope set.
func (h *UserHandler) Elevate(c echo.Context) error {
	id := c.Param("id")
	if err := h.userService.Elevate(c.Request().Context(), id); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, errorResponse{Error: "user not found"})
		}
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "user elevated to admin",
		"user_id": id,
	})
}
