package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter implements a fixed-window request counter backed by Redis.
// Key format: ratelimit:<class>:<ip>:<window_start_unix>
type Limiter struct {
	client *redis.Client
	window time.Duration
}

// NewLimiter creates a Limiter with the given window size.
func NewLimiter(client *redis.Client, window time.Duration) *Limiter {
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &Limiter{client: client, window: window}
}

// Allow counts one request for (class, ip) in the current window and reports
// whether it is within limit. On breach it also returns how long until the
// window rolls over.
func (l *Limiter) Allow(ctx context.Context, class, ip string, limit int) (bool, time.Duration, error) {
	now := time.Now().UTC()
	windowStart := now.Truncate(l.window)
	key := fmt.Sprintf("ratelimit:%s:%s:%d", class, ip, windowStart.Unix())

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, fmt.Errorf("rate limit incr: %w", err)
	}

	if incr.Val() > int64(limit) {
		retryAfter := windowStart.Add(l.window).Sub(now)
		return false, retryAfter, nil
	}
	return true, 0, nil
}
