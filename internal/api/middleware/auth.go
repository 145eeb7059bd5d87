package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/apisec/secure-api/internal/api/metrics"
	"github.com/apisec/secure-api/internal/core/domain"
	"github.com/apisec/secure-api/internal/core/ports"
	"github.com/apisec/secure-api/internal/pkg/token"
)

const userContextKey = "current_user"

// Gate authenticates a request: it extracts the bearer token, verifies it,
// reloads the subject from the user directory and injects the fresh record
// into the context. The directory record, not the token snapshot, is what
// the scope/role checks downstream run against, so a deleted or demoted
// user cannot ride a stale token.
//
// Every failure is a uniform 401 on the wire; the distinct reason is kept
// in the rejection metric.
func Gate(codec *token.Codec, users ports.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return reject(c, "missing", "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return reject(c, "malformed", "invalid authorization header")
			}

			claims, err := codec.Verify(parts[1])
			if err != nil {
				if errors.Is(err, token.ErrExpired) {
					return reject(c, "expired", "token has expired")
				}
				return reject(c, "malformed", "could not validate credentials")
			}

			user, err := users.FindByID(c.Request().Context(), claims.Subject)
			if err != nil {
				if errors.Is(err, domain.ErrUserNotFound) {
					return reject(c, "user_not_found", "user not found")
				}
				return err
			}
			if !user.IsActive {
				return reject(c, "inactive", "account disabled")
			}

			c.Set(userContextKey, user)
			return next(c)
		}
	}
}

func reject(c echo.Context, reason, msg string) error {
	metrics.TokenRejectionsTotal.WithLabelValues(reason).Inc()
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	return echo.NewHTTPError(http.StatusUnauthorized, msg)
}

// CurrentUser returns the user resolved by Gate for this request.
func CurrentUser(c echo.Context) (*domain.User, bool) {
	user, ok := c.Get(userContextKey).(*domain.User)
	return user, ok
}
