package vault

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestReadKVv2(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/secret/data/media-purge" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("X-Vault-Token") != "vault-token" {
			t.Fatalf("missing vault token header")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"data":{"api_token":"cf-token-1"}}}`))
	}))
	defer server.Close()

	client, err := New(server.URL, "vault-token")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	data, err := client.ReadKVv2(context.Background(), "secret", "media-purge")
	if err != nil {
		t.Fatalf("read secret: %v", err)
	}
	if data["api_token"] != "cf-token-1" {
		t.Fatalf("unexpected secret data: %#v", data)
	}
}

func TestReadKVv2_NotFound(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client, err := New(server.URL, "vault-token")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	_, err = client.ReadKVv2(context.Background(), "secret", "missing")
	if !errors.Is(err, ErrSecretNotFound) {
		t.Fatalf("expected ErrSecretNotFound, got: %v", err)
	}
}

func TestNew_RequiresAddressAndToken(t *testing.T) {
	t.Parallel()

	if _, err := New("", "token"); err == nil {
		t.Fatalf("expected error for empty address")
	}
	if _, err := New("https://vault.acme.com", ""); err == nil {
		t.Fatalf("expected error for empty token")
	}
}

func TestTokenSource_ReadsConfiguredField(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"data":{"cdn_token":"  cf-token-2  "}}}`))
	}))
	defer server.Close()

	client, err := New(server.URL, "vault-token")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	source := NewTokenSource(client, "secret", "media-purge", "cdn_token")
	token, err := source.APIToken(context.Background())
	if err != nil {
		t.Fatalf("read token: %v", err)
	}
	if token != "cf-token-2" {
		t.Fatalf("unexpected token: %q", token)
	}
}

func TestTokenSource_MissingFieldFails(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"data":{"other":"value"}}}`))
	}))
	defer server.Close()

	client, err := New(server.URL, "vault-token")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	source := NewTokenSource(client, "secret", "media-purge", "")
	if _, err := source.APIToken(context.Background()); err == nil {
		t.Fatalf("expected error for missing field")
	}
}
