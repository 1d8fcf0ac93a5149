// Package wpmedia reads attachment facts from the platform's REST media API.
// It backs the purge package's MediaLibrary contract.
package wpmedia

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mediaops/media-purge-go/internal/httpx"
)

const mediaEndpoint = "/wp-json/wp/v2/media"

// Config controls media client behavior.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Option configures Client construction behavior.
type Option func(*Config)

// WithTimeout sets request timeout for the media client.
func WithTimeout(timeout time.Duration) Option {
	return func(cfg *Config) {
		cfg.Timeout = timeout
	}
}

// WithHTTPClient injects a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(cfg *Config) {
		cfg.HTTPClient = client
	}
}

// Client queries one site's media API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a media client for the given site base URL.
func New(siteURL string, opts ...Option) (*Client, error) {
	cfg := Config{
		BaseURL: strings.TrimRight(strings.TrimSpace(siteURL), "/"),
		Timeout: httpx.DefaultTimeout,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.BaseURL == "" {
		return nil, errors.New("site URL must not be empty")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = httpx.DefaultTimeout
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = httpx.NewClient(cfg.Timeout)
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: cfg.HTTPClient,
	}, nil
}

type attachment struct {
	MimeType  string `json:"mime_type"`
	SourceURL string `json:"source_url"`
}

// MimeType returns the attachment's MIME type, or "" when the attachment does
// not exist.
func (c *Client) MimeType(ctx context.Context, resourceID int64) (string, error) {
	a, err := c.fetch(ctx, resourceID)
	if err != nil {
		return "", err
	}
	return a.MimeType, nil
}

// URL returns the attachment's public URL, or "" when the attachment does not
// exist or has no file.
func (c *Client) URL(ctx context.Context, resourceID int64) (string, error) {
	a, err := c.fetch(ctx, resourceID)
	if err != nil {
		return "", err
	}
	return a.SourceURL, nil
}

func (c *Client) fetch(ctx context.Context, resourceID int64) (attachment, error) {
	target := fmt.Sprintf("%s%s/%d", c.baseURL, mediaEndpoint, resourceID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return attachment{}, fmt.Errorf("create media request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return attachment{}, fmt.Errorf("media request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return attachment{}, fmt.Errorf("read media response body: %w", readErr)
	}

	// A missing attachment is an expected condition, not an error.
	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone {
		return attachment{}, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return attachment{}, fmt.Errorf("media request failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var a attachment
	if err := json.Unmarshal(body, &a); err != nil {
		return attachment{}, fmt.Errorf("decode media response: %w", err)
	}
	return a, nil
}
