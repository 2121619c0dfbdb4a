// internal/common/ratelimit/limiter.go
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"site-functions/internal/common/config"

	"github.com/redis/go-redis/v9"
)

// Result describes the outcome of one Allow call.
type Result struct {
	Allowed    bool
	Count      int64
	Limit      int
	Remaining  int
	ResetAfter time.Duration
}

// Limiter is a fixed-window counter stored in Redis. Each key gets at most
// Limit hits per Window; the window boundary is aligned to the epoch so all
// instances agree on it.
type Limiter struct {
	client redis.Cmdable
	limit  int
	window time.Duration
	prefix string
	now    func() time.Time
}

func New(client redis.Cmdable, cfg config.RateLimitConfig) *Limiter {
	return &Limiter{
		client: client,
		limit:  cfg.Limit,
		window: cfg.Window,
		prefix: cfg.Prefix,
		now:    time.Now,
	}
}

// WithClock replaces the time source.
func (l *Limiter) WithClock(now func() time.Time) *Limiter {
	l.now = now
	return l
}

// Allow records a hit for key and reports whether it is within the limit.
func (l *Limiter) Allow(ctx context.Context, key string) (*Result, error) {
	now := l.now()
	bucket := now.UnixNano() / l.window.Nanoseconds()
	redisKey := l.Key(key, bucket)

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return nil, fmt.Errorf("rate limit increment failed: %w", err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return nil, fmt.Errorf("rate limit expire failed: %w", err)
		}
	}

	remaining := l.limit - int(count)
	if remaining < 0 {
		remaining = 0
	}

	return &Result{
		Allowed:    count <= int64(l.limit),
		Count:      count,
		Limit:      l.limit,
		Remaining:  remaining,
		ResetAfter: l.window - time.Duration(now.UnixNano()%l.window.Nanoseconds()),
	}, nil
}

// Key is the Redis key holding the counter for key in the given window.
func (l *Limiter) Key(key string, bucket int64) string {
	return fmt.Sprintf("%s:%s:%d", l.prefix, key, bucket)
}
