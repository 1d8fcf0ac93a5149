package cloudflare

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/mediaops/media-purge-go/internal/httpx"
)

const (
	defaultBaseURL  = "https://api.cloudflare.com/client/v4"
	defaultTokenEnv = "CLOUDFLARE_API_TOKEN"
)

// Config controls Cloudflare client behavior.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Option configures Client construction behavior.
type Option func(*Config)

// WithBaseURL overrides the default Cloudflare API base URL.
func WithBaseURL(baseURL string) Option {
	return func(cfg *Config) {
		cfg.BaseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	}
}

// WithHTTPClient injects a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(cfg *Config) {
		cfg.HTTPClient = client
	}
}

// WithTimeout sets request timeout for the Cloudflare client.
func WithTimeout(timeout time.Duration) Option {
	return func(cfg *Config) {
		cfg.Timeout = timeout
	}
}

// Client is a single-attempt Cloudflare API client. Each call issues exactly
// one request: a failed purge stays failed until the next change event.
type Client struct {
	token string
	cfg   Config
}

// NewFromEnv creates a Cloudflare client using CLOUDFLARE_API_TOKEN.
func NewFromEnv(opts ...Option) (*Client, error) {
	token := strings.TrimSpace(os.Getenv(defaultTokenEnv))
	if token == "" {
		return nil, fmt.Errorf("%s is required", defaultTokenEnv)
	}
	return New(token, opts...)
}

// New creates a Cloudflare client from an explicit API token.
func New(token string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(token) == "" {
		return nil, errors.New("cloudflare API token must be provided")
	}

	cfg := Config{
		BaseURL: defaultBaseURL,
		Timeout: httpx.DefaultTimeout,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = httpx.DefaultTimeout
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = httpx.NewClient(cfg.Timeout)
	} else if cfg.HTTPClient.Timeout <= 0 {
		cfg.HTTPClient.Timeout = cfg.Timeout
	}

	return &Client{
		token: token,
		cfg:   cfg,
	}, nil
}

// HTTPStatusError captures non-2xx responses returned by Cloudflare.
type HTTPStatusError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *HTTPStatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("cloudflare request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("cloudflare request failed with status %d: %s", e.StatusCode, e.Body)
}

// RejectionError captures 2xx responses whose body is not a JSON object with a
// truthy success field. Malformed bodies count as rejections, never as success.
type RejectionError struct {
	StatusCode int
	Body       string
	Errors     []APIErrorItem
}

// Error implements the error interface.
func (e *RejectionError) Error() string {
	if len(e.Errors) > 0 {
		return fmt.Sprintf("cloudflare rejected request with status %d: %s", e.StatusCode, formatAPIErrors(e.Errors))
	}
	return fmt.Sprintf("cloudflare rejected request with status %d: %s", e.StatusCode, strings.TrimSpace(e.Body))
}

// Do executes one Cloudflare API request and unmarshals result into out.
func (c *Client) Do(
	ctx context.Context,
	method string,
	endpoint string,
	requestBody any,
	out any,
) error {
	targetURL, err := c.buildURL(endpoint)
	if err != nil {
		return err
	}

	var payload []byte
	if requestBody != nil {
		payload, err = json.Marshal(requestBody)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
	}

	req, err := c.newRequest(ctx, method, targetURL, payload)
	if err != nil {
		return err
	}

	resp, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("cloudflare request failed: %w", err)
	}

	bodyBytes, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return fmt.Errorf("read cloudflare response body: %w", readErr)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &HTTPStatusError{
			StatusCode: resp.StatusCode,
			Body:       string(bodyBytes),
		}
	}

	var env envelope
	if err := json.Unmarshal(bodyBytes, &env); err != nil {
		return &RejectionError{
			StatusCode: resp.StatusCode,
			Body:       string(bodyBytes),
		}
	}

	if !env.Success {
		return &RejectionError{
			StatusCode: resp.StatusCode,
			Body:       string(bodyBytes),
			Errors:     env.Errors,
		}
	}

	if out == nil || len(env.Result) == 0 || string(env.Result) == "null" {
		return nil
	}

	if err := json.Unmarshal(env.Result, out); err != nil {
		return fmt.Errorf("decode cloudflare result: %w", err)
	}

	return nil
}

func (c *Client) buildURL(endpoint string) (string, error) {
	base, err := url.Parse(strings.TrimRight(c.cfg.BaseURL, "/"))
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}

	cleanEndpoint := endpoint
	if !strings.HasPrefix(cleanEndpoint, "/") {
		cleanEndpoint = "/" + cleanEndpoint
	}

	base.Path = strings.TrimRight(base.Path, "/") + cleanEndpoint
	return base.String(), nil
}

func (c *Client) newRequest(ctx context.Context, method, targetURL string, payload []byte) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, targetURL, body)
	if err != nil {
		return nil, fmt.Errorf("create cloudflare request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func formatAPIErrors(items []APIErrorItem) string {
	if len(items) == 0 {
		return "unknown API error"
	}

	parts := make([]string, 0, len(items))
	for _, item := range items {
		if item.Code == 0 {
			parts = append(parts, item.Message)
			continue
		}
		parts = append(parts, fmt.Sprintf("%d:%s", item.Code, item.Message))
	}
	return strings.Join(parts, ", ")
}
