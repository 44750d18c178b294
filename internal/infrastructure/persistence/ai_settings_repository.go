package persistence

import (
	"context"
	"errors"

	"github.com/innledger/backend/internal/domain/assistant"
	"github.com/innledger/backend/internal/domain/shared"
	"github.com/innledger/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAISettingsRepository implements assistant.SettingsRepository using GORM
type GormAISettingsRepository struct {
	db *gorm.DB
}

// NewGormAISettingsRepository creates a new GormAISettingsRepository
func NewGormAISettingsRepository(db *gorm.DB) *GormAISettingsRepository {
	return &GormAISettingsRepository{db: db}
}

// Load reads the settings row stored under key
func (r *GormAISettingsRepository) Load(ctx context.Context, key string) (*assistant.Settings, error) {
	var model models.AISettingsModel
	if err := conn(ctx, r.db).First(&model, "settings_key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save writes the whole settings row
func (r *GormAISettingsRepository) Save(ctx context.Context, settings *assistant.Settings) error {
	return conn(ctx, r.db).Save(models.AISettingsModelFromDomain(settings)).Error
}
