package assistant

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/innledger/backend/internal/domain/assistant"
	"github.com/innledger/backend/internal/domain/shared"
)

// ErrNotConfigured is returned when the assistant is disabled or incomplete
var ErrNotConfigured = shared.NewDomainError(shared.CodeInvalidState, "assistant is not configured")

// Sealer encrypts values stored at rest
type Sealer interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// ResolvedSettings are settings with the API key decrypted, ready for a request
type ResolvedSettings struct {
	Settings *assistant.Settings
	APIKey   string
}

// SettingsService reads and writes the assistant settings
type SettingsService struct {
	repo   assistant.SettingsRepository
	cache  assistant.SettingsCache
	sealer Sealer
	ttl    time.Duration
	group  singleflight.Group
	logger *zap.Logger
}

// NewSettingsService creates a new settings service
func NewSettingsService(repo assistant.SettingsRepository, cache assistant.SettingsCache, sealer Sealer, ttl time.Duration, logger *zap.Logger) *SettingsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &SettingsService{
		repo:   repo,
		cache:  cache,
		sealer: sealer,
		ttl:    ttl,
		logger: logger,
	}
}

// Load returns the stored settings, or empty settings when none were saved.
// Concurrent cache misses share one repository read.
func (s *SettingsService) Load(ctx context.Context) (*assistant.Settings, error) {
	key := assistant.DefaultSettingsKey
	if cached, err := s.cache.Get(ctx, key); err != nil {
		s.logger.Warn("Settings cache read failed", zap.Error(err))
	} else if cached != nil {
		return cached, nil
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		settings, err := s.repo.Load(ctx, key)
		if errors.Is(err, shared.ErrNotFound) {
			return &assistant.Settings{Key: key}, nil
		}
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(ctx, settings, s.ttl); err != nil {
			s.logger.Warn("Settings cache write failed", zap.Error(err))
		}
		return settings, nil
	})
	if err != nil {
		return nil, err
	}
	copied := *v.(*assistant.Settings)
	return &copied, nil
}

// Get returns the settings with the API key masked
func (s *SettingsService) Get(ctx context.Context) (*SettingsResponse, error) {
	settings, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return toSettingsResponse(settings, s.plainKey(settings)), nil
}

// Update validates and stores new settings, then drops the cached copy
func (s *SettingsService) Update(ctx context.Context, req UpdateSettingsRequest) (*SettingsResponse, error) {
	update := assistant.SettingsUpdate{
		BaseURL:      req.BaseURL,
		Model:        req.Model,
		APIKey:       req.APIKey,
		SystemPrompt: req.SystemPrompt,
		Temperature:  req.Temperature,
		Enabled:      req.Enabled,
	}
	if err := update.Validate(); err != nil {
		return nil, err
	}

	current, err := s.repo.Load(ctx, assistant.DefaultSettingsKey)
	if errors.Is(err, shared.ErrNotFound) {
		current = &assistant.Settings{Key: assistant.DefaultSettingsKey}
	} else if err != nil {
		return nil, err
	}

	current.BaseURL = update.BaseURL
	current.Model = update.Model
	current.SystemPrompt = update.SystemPrompt
	current.Temperature = update.Temperature
	current.Enabled = update.Enabled
	if update.APIKey != nil {
		if *update.APIKey == "" {
			current.EncryptedAPIKey = ""
		} else {
			sealed, err := s.sealer.Encrypt(*update.APIKey)
			if err != nil {
				return nil, err
			}
			current.EncryptedAPIKey = sealed
		}
	}
	if current.Enabled && current.EncryptedAPIKey == "" {
		return nil, shared.NewInvalidInputError("apiKey is required when the assistant is enabled")
	}
	current.UpdatedAt = shared.Now(ctx).UTC()

	if err := s.repo.Save(ctx, current); err != nil {
		return nil, err
	}
	if err := s.cache.Invalidate(ctx, assistant.DefaultSettingsKey); err != nil {
		s.logger.Warn("Settings cache invalidation failed", zap.Error(err))
	}
	s.logger.Info("Assistant settings updated",
		zap.String("model", current.Model),
		zap.Bool("enabled", current.Enabled),
	)
	return toSettingsResponse(current, s.plainKey(current)), nil
}

// Resolve returns usable settings or ErrNotConfigured
func (s *SettingsService) Resolve(ctx context.Context) (*ResolvedSettings, error) {
	settings, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	if !settings.IsConfigured() {
		return nil, ErrNotConfigured
	}
	key, err := s.sealer.Decrypt(settings.EncryptedAPIKey)
	if err != nil {
		s.logger.Error("Stored API key cannot be decrypted", zap.Error(err))
		return nil, ErrNotConfigured
	}
	return &ResolvedSettings{Settings: settings, APIKey: key}, nil
}

func (s *SettingsService) plainKey(settings *assistant.Settings) string {
	if settings.EncryptedAPIKey == "" {
		return ""
	}
	key, err := s.sealer.Decrypt(settings.EncryptedAPIKey)
	if err != nil {
		// masks to a fixed placeholder
		return "****"
	}
	return key
}
