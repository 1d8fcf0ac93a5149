package settings

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestSanitize_EmptyInputYieldsDefaults(t *testing.T) {
	t.Parallel()

	for _, raw := range []map[string]any{nil, {}} {
		s := Sanitize(raw)
		if !s.EnableEmail {
			t.Fatalf("expected email enabled by default")
		}
		if s.EmailThrottleMinutes != DefaultThrottleMinutes {
			t.Fatalf("unexpected default throttle: %d", s.EmailThrottleMinutes)
		}
		if s.HasCredentials() {
			t.Fatalf("expected no credentials from empty input")
		}
	}
}

func TestSanitize_CoercesLooseTypes(t *testing.T) {
	t.Parallel()

	s := Sanitize(map[string]any{
		"zone_id":                "  zone-1  ",
		"api_token":              "tok",
		"notify_email":           "admin@acme.com",
		"enable_email":           "false",
		"email_throttle_minutes": "45",
	})

	if s.ZoneID != "zone-1" {
		t.Fatalf("expected trimmed zone ID, got: %q", s.ZoneID)
	}
	if s.EnableEmail {
		t.Fatalf("expected string false to disable email")
	}
	if s.EmailThrottleMinutes != 45 {
		t.Fatalf("unexpected throttle: %d", s.EmailThrottleMinutes)
	}
	if !s.HasCredentials() {
		t.Fatalf("expected credentials present")
	}
}

func TestSanitize_ClampsThrottleToOneMinute(t *testing.T) {
	t.Parallel()

	for _, value := range []any{0, -3, "not a number", 0.4} {
		s := Sanitize(map[string]any{"email_throttle_minutes": value})
		if s.EmailThrottleMinutes < 1 {
			t.Fatalf("throttle not clamped for %v: %d", value, s.EmailThrottleMinutes)
		}
	}
}

func TestSanitize_InvalidBoolKeepsDefault(t *testing.T) {
	t.Parallel()

	s := Sanitize(map[string]any{"enable_email": []string{"nope"}})
	if !s.EnableEmail {
		t.Fatalf("expected invalid bool to keep the default")
	}
}

func TestThrottleWindow(t *testing.T) {
	t.Parallel()

	s := Settings{EmailThrottleMinutes: 5}
	if s.ThrottleWindow() != 5*time.Minute {
		t.Fatalf("unexpected window: %v", s.ThrottleWindow())
	}

	s.EmailThrottleMinutes = 0
	if s.ThrottleWindow() != DefaultThrottleMinutes*time.Minute {
		t.Fatalf("unexpected fallback window: %v", s.ThrottleWindow())
	}
}

func TestHasCredentials_TrimsWhitespace(t *testing.T) {
	t.Parallel()

	s := Settings{ZoneID: "   ", APIToken: "tok"}
	if s.HasCredentials() {
		t.Fatalf("whitespace zone ID must not count as credentials")
	}
}

func TestMemoryStore_LoadsDefaultsWhenEmpty(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	s, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s != Default() {
		t.Fatalf("expected defaults, got: %#v", s)
	}

	saved := Default()
	saved.ZoneID = "zone-1"
	if err := store.Save(context.Background(), saved); err != nil {
		t.Fatalf("save: %v", err)
	}
	s, err = store.Load(context.Background())
	if err != nil {
		t.Fatalf("load after save: %v", err)
	}
	if s.ZoneID != "zone-1" {
		t.Fatalf("unexpected loaded settings: %#v", s)
	}

	if err := store.Delete(context.Background()); err != nil {
		t.Fatalf("delete: %v", err)
	}
	s, _ = store.Load(context.Background())
	if s.ZoneID != "" {
		t.Fatalf("expected defaults after delete, got: %#v", s)
	}
}

type staticTokenSource struct {
	token string
	err   error
}

func (s staticTokenSource) APIToken(context.Context) (string, error) {
	return s.token, s.err
}

func TestTokenOverlay_ReplacesStoredToken(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	stored := Default()
	stored.APIToken = "stored-token"
	_ = store.Save(context.Background(), stored)

	overlay := WithTokenSource(store, staticTokenSource{token: "vault-token"})
	s, err := overlay.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.APIToken != "vault-token" {
		t.Fatalf("expected vault token, got: %q", s.APIToken)
	}
}

func TestTokenOverlay_KeepsStoredTokenOnLookupFailure(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	stored := Default()
	stored.APIToken = "stored-token"
	_ = store.Save(context.Background(), stored)

	overlay := WithTokenSource(store, staticTokenSource{err: errors.New("vault down")})
	s, err := overlay.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.APIToken != "stored-token" {
		t.Fatalf("expected stored token kept, got: %q", s.APIToken)
	}
}
