package notify

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultThrottleKey names the self-expiring last-notification entry.
const DefaultThrottleKey = "media_purge:last_notified_at"

// RedisThrottle stores the last-notification timestamp in Redis with a TTL
// equal to the throttle window, sharing throttle state across workers.
type RedisThrottle struct {
	rdb *redis.Client
	key string
}

// NewRedisThrottle creates a Redis-backed throttle store. An empty key uses
// DefaultThrottleKey.
func NewRedisThrottle(rdb *redis.Client, key string) *RedisThrottle {
	if key == "" {
		key = DefaultThrottleKey
	}
	return &RedisThrottle{rdb: rdb, key: key}
}

// LastNotified implements ThrottleStore.
func (r *RedisThrottle) LastNotified(ctx context.Context) (time.Time, bool, error) {
	value, err := r.rdb.Get(ctx, r.key).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("read throttle state: %w", err)
	}

	unixSeconds, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		// Unparseable state is treated as absent rather than blocking alerts.
		return time.Time{}, false, nil
	}
	return time.Unix(unixSeconds, 0), true, nil
}

// MarkNotified implements ThrottleStore.
func (r *RedisThrottle) MarkNotified(ctx context.Context, at time.Time, ttl time.Duration) error {
	if err := r.rdb.Set(ctx, r.key, strconv.FormatInt(at.Unix(), 10), ttl).Err(); err != nil {
		return fmt.Errorf("write throttle state: %w", err)
	}
	return nil
}
