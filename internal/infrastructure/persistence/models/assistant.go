package models

import (
	"time"

	"github.com/innledger/backend/internal/domain/assistant"
)

// AISettingsModel stores the assistant configuration as a single keyed row
type AISettingsModel struct {
	Key             string  `gorm:"column:settings_key;type:varchar(50);primary_key"`
	BaseURL         string  `gorm:"type:varchar(500)"`
	Model           string  `gorm:"type:varchar(100)"`
	EncryptedAPIKey string  `gorm:"type:text"`
	SystemPrompt    string  `gorm:"type:text"`
	Temperature     float64 `gorm:"not null;default:0.3"`
	Enabled         bool    `gorm:"not null;default:false"`
	UpdatedAt       time.Time
}

// TableName returns the table name for GORM
func (AISettingsModel) TableName() string { return "ai_settings" }

// ToDomain converts the model to domain Settings
func (m *AISettingsModel) ToDomain() *assistant.Settings {
	return &assistant.Settings{
		Key:             m.Key,
		BaseURL:         m.BaseURL,
		Model:           m.Model,
		EncryptedAPIKey: m.EncryptedAPIKey,
		SystemPrompt:    m.SystemPrompt,
		Temperature:     m.Temperature,
		Enabled:         m.Enabled,
		UpdatedAt:       m.UpdatedAt,
	}
}

// AISettingsModelFromDomain converts domain Settings to a model
func AISettingsModelFromDomain(s *assistant.Settings) *AISettingsModel {
	return &AISettingsModel{
		Key:             s.Key,
		BaseURL:         s.BaseURL,
		Model:           s.Model,
		EncryptedAPIKey: s.EncryptedAPIKey,
		SystemPrompt:    s.SystemPrompt,
		Temperature:     s.Temperature,
		Enabled:         s.Enabled,
		UpdatedAt:       s.UpdatedAt,
	}
}
