// Package settings holds the singleton purge configuration record and its
// persistence contract. Stored settings are sanitized on every load: absent or
// invalid fields fall back to defaults and never abort a purge attempt.
package settings

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// DefaultThrottleMinutes is the notification cool-down applied when no valid
// throttle value is stored.
const DefaultThrottleMinutes = 60

// Settings is the per-site purge configuration.
type Settings struct {
	ZoneID                    string `json:"zone_id"`
	APIToken                  string `json:"api_token"`
	NotifyEmail               string `json:"notify_email"`
	EnableEmail               bool   `json:"enable_email"`
	EmailThrottleMinutes      int    `json:"email_throttle_minutes"`
	DeleteSettingsOnUninstall bool   `json:"delete_settings_on_uninstall"`
}

// Default returns the settings applied when nothing is stored.
func Default() Settings {
	return Settings{
		EnableEmail:          true,
		EmailThrottleMinutes: DefaultThrottleMinutes,
	}
}

// HasCredentials reports whether both CDN credentials are present after trimming.
func (s Settings) HasCredentials() bool {
	return strings.TrimSpace(s.ZoneID) != "" && strings.TrimSpace(s.APIToken) != ""
}

// ThrottleWindow returns the notification cool-down as a duration.
func (s Settings) ThrottleWindow() time.Duration {
	minutes := s.EmailThrottleMinutes
	if minutes < 1 {
		minutes = DefaultThrottleMinutes
	}
	return time.Duration(minutes) * time.Minute
}

// Sanitize coerces an arbitrary stored object into a complete Settings record.
// Every field gets a value and the throttle is clamped to at least one minute.
func Sanitize(raw map[string]any) Settings {
	out := Default()
	if raw == nil {
		return out
	}

	out.ZoneID = coerceString(raw["zone_id"])
	out.APIToken = coerceString(raw["api_token"])
	out.NotifyEmail = coerceString(raw["notify_email"])

	if v, ok := raw["enable_email"]; ok {
		out.EnableEmail = coerceBool(v, out.EnableEmail)
	}
	if v, ok := raw["delete_settings_on_uninstall"]; ok {
		out.DeleteSettingsOnUninstall = coerceBool(v, out.DeleteSettingsOnUninstall)
	}
	if v, ok := raw["email_throttle_minutes"]; ok {
		out.EmailThrottleMinutes = coerceMinutes(v, out.EmailThrottleMinutes)
	}
	if out.EmailThrottleMinutes < 1 {
		out.EmailThrottleMinutes = 1
	}

	return out
}

func coerceString(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func coerceBool(v any, fallback bool) bool {
	switch value := v.(type) {
	case bool:
		return value
	case string:
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off", "":
			return false
		}
		return fallback
	case float64:
		return value != 0
	case int:
		return value != 0
	case json.Number:
		parsed, err := value.Float64()
		if err != nil {
			return fallback
		}
		return parsed != 0
	default:
		return fallback
	}
}

func coerceMinutes(v any, fallback int) int {
	switch value := v.(type) {
	case int:
		return value
	case int64:
		return int(value)
	case float64:
		return int(value)
	case json.Number:
		parsed, err := value.Int64()
		if err != nil {
			return fallback
		}
		return int(parsed)
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fallback
		}
		return parsed
	default:
		return fallback
	}
}
