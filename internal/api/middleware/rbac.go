package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireScope passes iff the resolved user's scope set contains scope.
// Must run after Gate.
func RequireScope(scope string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := CurrentUser(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
			}
			if !user.HasScope(scope) {
				return echo.NewHTTPError(http.StatusForbidden, "insufficient permissions, required scope: "+scope)
			}
			return next(c)
		}
	}
}

// RequireRole passes iff the resolved user's role matches role exactly.
// Must run after Gate.
func RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := CurrentUser(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
			}
			if user.Role != role {
				return echo.NewHTTPError(http.StatusForbidden, "insufficient permissions, required role: "+role)
			}
			return next(c)
		}
	}
}
