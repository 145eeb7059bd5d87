package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/apisec/secure-api/internal/api/middleware"
	"github.com/apisec/secure-api/internal/core/domain"
)

// currentUser extracts the user resolved by the access gate. A missing user
// means the gate did not run on this route; treat it as unauthenticated
// rather than trusting the request.
func currentUser(c echo.Context) (*domain.User, error) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return user, nil
}
