package assistant

import (
	"time"

	"github.com/innledger/backend/internal/domain/assistant"
)

// ChatMessage is one prior message of the conversation sent by the client
type ChatMessage struct {
	Role    string `json:"role" binding:"required,oneof=user assistant"`
	Content string `json:"content" binding:"required,max=20000"`
}

// ChatRequest starts a streamed chat turn
type ChatRequest struct {
	Messages []ChatMessage `json:"messages" binding:"required,min=1,max=100,dive"`
}

// SettingsResponse is the settings view. The API key is always masked.
type SettingsResponse struct {
	BaseURL      string    `json:"baseUrl"`
	Model        string    `json:"model"`
	APIKey       string    `json:"apiKey"`
	HasAPIKey    bool      `json:"hasApiKey"`
	SystemPrompt string    `json:"systemPrompt"`
	Temperature  float64   `json:"temperature"`
	Enabled      bool      `json:"enabled"`
	Configured   bool      `json:"configured"`
	UpdatedAt    time.Time `json:"updatedAt,omitzero"`
}

// UpdateSettingsRequest replaces the settings. Omitting apiKey keeps the
// stored key; an empty string clears it.
type UpdateSettingsRequest struct {
	BaseURL      string  `json:"baseUrl" binding:"max=500"`
	Model        string  `json:"model" binding:"max=200"`
	APIKey       *string `json:"apiKey" binding:"omitempty,max=500"`
	SystemPrompt string  `json:"systemPrompt" binding:"max=10000"`
	Temperature  float64 `json:"temperature" binding:"min=0,max=2"`
	Enabled      bool    `json:"enabled"`
}

// Event types written to the chat stream
const (
	EventDelta      = "delta"
	EventToolCall   = "tool_call"
	EventToolResult = "tool_result"
	EventDone       = "done"
	EventError      = "error"
)

// Event is one server-sent event of a chat turn
type Event struct {
	Type string
	Data any
}

// DeltaData carries streamed assistant text
type DeltaData struct {
	Content string `json:"content"`
}

// ToolCallData announces a tool the assistant is about to run
type ToolCallData struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ToolResultData carries the result handed back to the model
type ToolResultData struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Result string `json:"result"`
}

// DoneData ends a successful turn
type DoneData struct {
	Rounds int `json:"rounds"`
}

// ErrorData ends a failed turn
type ErrorData struct {
	Message string `json:"message"`
}

func toSettingsResponse(s *assistant.Settings, plainKey string) *SettingsResponse {
	return &SettingsResponse{
		BaseURL:      s.BaseURL,
		Model:        s.Model,
		APIKey:       assistant.MaskKey(plainKey),
		HasAPIKey:    s.EncryptedAPIKey != "",
		SystemPrompt: s.SystemPrompt,
		Temperature:  s.Temperature,
		Enabled:      s.Enabled,
		Configured:   s.IsConfigured(),
		UpdatedAt:    s.UpdatedAt,
	}
}
