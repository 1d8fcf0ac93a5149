package vault

import (
	"context"
	"fmt"
	"strings"
)

// TokenSource reads the CDN API token from a fixed KV v2 secret field.
type TokenSource struct {
	client *Client
	mount  string
	path   string
	field  string
}

// NewTokenSource creates a token source for the given secret location.
func NewTokenSource(client *Client, mount, path, field string) *TokenSource {
	if strings.TrimSpace(field) == "" {
		field = "api_token"
	}
	return &TokenSource{
		client: client,
		mount:  mount,
		path:   path,
		field:  field,
	}
}

// APIToken returns the secret token value, or an error when the secret or
// field is missing.
func (s *TokenSource) APIToken(ctx context.Context) (string, error) {
	data, err := s.client.ReadKVv2(ctx, s.mount, s.path)
	if err != nil {
		return "", err
	}

	value, ok := data[s.field].(string)
	if !ok || strings.TrimSpace(value) == "" {
		return "", fmt.Errorf("vault secret field %q is empty", s.field)
	}
	return strings.TrimSpace(value), nil
}
