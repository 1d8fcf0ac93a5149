package settings

import (
	"context"
	"sync"
)

// Store loads and persists the singleton Settings record.
//
// Load never fails on missing or malformed data: implementations sanitize
// what they find and fall back to Default(). Only infrastructure errors
// (unreachable storage) surface as errors.
type Store interface {
	Load(ctx context.Context) (Settings, error)
	Save(ctx context.Context, s Settings) error
	Delete(ctx context.Context) error
}

// MemoryStore is an in-process Store used in tests and single-node setups.
type MemoryStore struct {
	mu      sync.RWMutex
	current Settings
	present bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load implements Store.
func (m *MemoryStore) Load(context.Context) (Settings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.present {
		return Default(), nil
	}
	return m.current, nil
}

// Save implements Store.
func (m *MemoryStore) Save(_ context.Context, s Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = s
	m.present = true
	return nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = Settings{}
	m.present = false
	return nil
}

// TokenSource supplies the CDN API token from an external secret backend.
type TokenSource interface {
	APIToken(ctx context.Context) (string, error)
}

// TokenOverlay decorates a Store so the API token is read from a secret
// backend instead of the stored record. A lookup failure keeps the stored
// token; an empty secret is ignored.
type TokenOverlay struct {
	store  Store
	source TokenSource
}

// WithTokenSource wraps store with a secret-backed API token overlay.
func WithTokenSource(store Store, source TokenSource) *TokenOverlay {
	return &TokenOverlay{store: store, source: source}
}

// Load implements Store.
func (t *TokenOverlay) Load(ctx context.Context) (Settings, error) {
	s, err := t.store.Load(ctx)
	if err != nil {
		return s, err
	}
	token, err := t.source.APIToken(ctx)
	if err == nil && token != "" {
		s.APIToken = token
	}
	return s, nil
}

// Save implements Store.
func (t *TokenOverlay) Save(ctx context.Context, s Settings) error {
	return t.store.Save(ctx, s)
}

// Delete implements Store.
func (t *TokenOverlay) Delete(ctx context.Context) error {
	return t.store.Delete(ctx)
}
