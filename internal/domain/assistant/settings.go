package assistant

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/innledger/backend/internal/domain/shared"
)

// DefaultSettingsKey identifies the single settings row
const DefaultSettingsKey = "default"

// Settings configure the assistant's upstream model. The API key is kept
// encrypted; callers decrypt it only when building a request.
type Settings struct {
	Key             string
	BaseURL         string
	Model           string
	EncryptedAPIKey string
	SystemPrompt    string
	Temperature     float64
	Enabled         bool
	UpdatedAt       time.Time
}

// IsConfigured reports whether the assistant can be used
func (s *Settings) IsConfigured() bool {
	return s != nil && s.Enabled && s.BaseURL != "" && s.Model != "" && s.EncryptedAPIKey != ""
}

// SettingsUpdate is a validated change to the settings. A nil APIKey keeps the stored key.
type SettingsUpdate struct {
	BaseURL      string
	Model        string
	APIKey       *string
	SystemPrompt string
	Temperature  float64
	Enabled      bool
}

// Validate checks the update before it is applied
func (u SettingsUpdate) Validate() error {
	if u.BaseURL != "" {
		parsed, err := url.Parse(u.BaseURL)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
			return shared.NewInvalidInputError("baseUrl must be an absolute http(s) URL")
		}
	}
	if u.Temperature < 0 || u.Temperature > 2 {
		return shared.NewInvalidInputError("temperature must be between 0 and 2")
	}
	if u.Enabled && (strings.TrimSpace(u.BaseURL) == "" || strings.TrimSpace(u.Model) == "") {
		return shared.NewInvalidInputError("baseUrl and model are required when the assistant is enabled")
	}
	return nil
}

// MaskKey hides all but the last four characters of a key
func MaskKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 4 {
		return "****"
	}
	return strings.Repeat("*", 8) + key[len(key)-4:]
}

// SettingsRepository persists the settings row
type SettingsRepository interface {
	// Load returns shared.ErrNotFound when no settings were saved yet
	Load(ctx context.Context, key string) (*Settings, error)
	Save(ctx context.Context, settings *Settings) error
}

// SettingsCache holds loaded settings between requests. Get returns nil, nil on a miss.
type SettingsCache interface {
	Get(ctx context.Context, key string) (*Settings, error)
	Set(ctx context.Context, settings *Settings, ttl time.Duration) error
	Invalidate(ctx context.Context, key string) error
}
