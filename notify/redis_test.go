package notify

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisThrottle(t *testing.T) (*RedisThrottle, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = rdb.Close()
	})
	return NewRedisThrottle(rdb, ""), mr
}

func TestRedisThrottle_RoundTrip(t *testing.T) {
	throttle, _ := newRedisThrottle(t)

	if _, ok, err := throttle.LastNotified(context.Background()); err != nil || ok {
		t.Fatalf("expected no state initially, ok=%v err=%v", ok, err)
	}

	at := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)
	if err := throttle.MarkNotified(context.Background(), at, 10*time.Minute); err != nil {
		t.Fatalf("mark notified: %v", err)
	}

	got, ok, err := throttle.LastNotified(context.Background())
	if err != nil || !ok {
		t.Fatalf("expected state, ok=%v err=%v", ok, err)
	}
	if !got.Equal(at) {
		t.Fatalf("unexpected timestamp: got=%v want=%v", got, at)
	}
}

func TestRedisThrottle_EntryExpires(t *testing.T) {
	throttle, mr := newRedisThrottle(t)

	at := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)
	if err := throttle.MarkNotified(context.Background(), at, 10*time.Minute); err != nil {
		t.Fatalf("mark notified: %v", err)
	}

	mr.FastForward(11 * time.Minute)

	if _, ok, err := throttle.LastNotified(context.Background()); err != nil || ok {
		t.Fatalf("expected expired state, ok=%v err=%v", ok, err)
	}
}

func TestRedisThrottle_UnparseableStateTreatedAsAbsent(t *testing.T) {
	throttle, mr := newRedisThrottle(t)

	mr.Set(DefaultThrottleKey, "garbage")

	if _, ok, err := throttle.LastNotified(context.Background()); err != nil || ok {
		t.Fatalf("expected garbage state ignored, ok=%v err=%v", ok, err)
	}
}
