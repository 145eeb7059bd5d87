package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// WindowCounter counts requests per fixed window using Redis. INCR is
// atomic, so concurrent requests from the same client never lose counts.
// The window starts at the first request and the key expires with it.
type WindowCounter struct {
	client *redis.Client
}

// NewWindowCounter creates a WindowCounter wrapping the given Redis client.
func NewWindowCounter(client *redis.Client) *WindowCounter {
	return &WindowCounter{client: client}
}

// Incr increments the counter for key and returns the new count together
// with the time left in the current window. The TTL is set only on the
// increment that creates the key, so the window boundary is stable for its
// whole lifetime.
func (w *WindowCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	pipe := w.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	ttl := pipe.TTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, 0, fmt.Errorf("ratelimit incr: %w", err)
	}
	return incr.Val(), ttl.Val(), nil
}
