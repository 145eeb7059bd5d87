package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/apisec/secure-api/internal/api/metrics"
)

// Counter is the shared request counter behind the rate limiter. Incr must
// be atomic across concurrent calls for the same key, and reports the time
// left until the key's window resets.
type Counter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

// RateLimit enforces a fixed-window quota of limit requests per window for
// route, keyed by client network address. It is the outermost gate on a
// route: rejection happens before any authentication runs. A limit <= 0
// disables the check.
func RateLimit(counter Counter, route string, limit int, window time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if limit <= 0 {
				return next(c)
			}

			key := "ratelimit:" + route + ":" + c.RealIP()
			count, reset, err := counter.Incr(c.Request().Context(), key, window)
			if err != nil {
				return fmt.Errorf("rate limit %s: %w", route, err)
			}
			if count > int64(limit) {
				metrics.RateLimitRejectionsTotal.WithLabelValues(route).Inc()
				c.Response().Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(reset, window)))
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}
			return next(c)
		}
	}
}

// retryAfterSeconds rounds the window reset up to whole seconds so clients
// never retry early. A missing TTL falls back to the full window.
func retryAfterSeconds(reset, window time.Duration) int {
	if reset <= 0 {
		reset = window
	}
	return int((reset + time.Second - 1) / time.Second)
}
