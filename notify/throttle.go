package notify

import (
	"context"
	"sync"
	"time"
)

// ThrottleStore persists the timestamp of the last sent notification.
//
// Entries carry a time-to-live equal to the throttle window so stale state
// expires on its own, but the notifier always compares timestamps explicitly
// and never relies on store-side expiry alone.
type ThrottleStore interface {
	LastNotified(ctx context.Context) (time.Time, bool, error)
	MarkNotified(ctx context.Context, at time.Time, ttl time.Duration) error
}

// MemoryThrottle is an in-process ThrottleStore for tests and single-node use.
type MemoryThrottle struct {
	mu        sync.Mutex
	at        time.Time
	expiresAt time.Time
	set       bool
	nowFn     func() time.Time
}

// NewMemoryThrottle creates an empty in-memory throttle store. A nil nowFn
// defaults to time.Now.
func NewMemoryThrottle(nowFn func() time.Time) *MemoryThrottle {
	if nowFn == nil {
		nowFn = time.Now
	}
	return &MemoryThrottle{nowFn: nowFn}
}

// LastNotified implements ThrottleStore.
func (m *MemoryThrottle) LastNotified(context.Context) (time.Time, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.set || m.nowFn().After(m.expiresAt) {
		return time.Time{}, false, nil
	}
	return m.at, true, nil
}

// MarkNotified implements ThrottleStore.
func (m *MemoryThrottle) MarkNotified(_ context.Context, at time.Time, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.at = at
	m.expiresAt = at.Add(ttl)
	m.set = true
	return nil
}
