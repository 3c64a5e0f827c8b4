package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Throttle limits login attempts per key with a fixed window kept in Redis.
type Throttle struct {
	client *redis.Client
	logger *slog.Logger
	prefix string
	max    int64
	window time.Duration
}

// NewThrottle builds a Throttle admitting max attempts per window.
func NewThrottle(client *redis.Client, logger *slog.Logger, max int, window time.Duration) *Throttle {
	return &Throttle{
		client: client,
		logger: logger,
		prefix: "quill:login:",
		max:    int64(max),
		window: window,
	}
}

// Allow records an attempt for key and reports whether it is within the
// limit. Redis failures admit the attempt.
func (t *Throttle) Allow(ctx context.Context, key string) bool {
	if t == nil || t.client == nil || t.max <= 0 || t.window <= 0 {
		return true
	}
	start := time.Now().UTC().Truncate(t.window)
	redisKey := fmt.Sprintf("%s%s:%d", t.prefix, strings.ToLower(strings.TrimSpace(key)), start.Unix())

	hits, err := t.client.Incr(ctx, redisKey).Result()
	if err != nil {
		if t.logger != nil {
			t.logger.Warn("login throttle unavailable", slog.Any("error", err))
		}
		return true
	}
	if hits == 1 {
		if err := t.client.Expire(ctx, redisKey, t.window).Err(); err != nil && t.logger != nil {
			t.logger.Warn("login throttle expiry not set", slog.String("key", redisKey), slog.Any("error", err))
		}
	}
	return hits <= t.max
}
