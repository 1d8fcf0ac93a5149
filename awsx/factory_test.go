package awsx

import (
	"errors"
	"testing"
)

func TestValidateRegion(t *testing.T) {
	t.Parallel()

	if err := ValidateRegion("us-east-1"); err != nil {
		t.Fatalf("expected us-east-1 to be allowed: %v", err)
	}

	err := ValidateRegion("mars-north-1")
	if !errors.Is(err, ErrInvalidRegion) {
		t.Fatalf("expected ErrInvalidRegion, got: %v", err)
	}
}

func TestNewSESMailer_RequiresFromAddress(t *testing.T) {
	t.Parallel()

	if _, err := NewSESMailer(&Factory{}, "   "); err == nil {
		t.Fatalf("expected error for empty from address")
	}
}
