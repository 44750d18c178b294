package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	assistantapp "github.com/innledger/backend/internal/application/assistant"
	"github.com/innledger/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// ChatService prepares assistant conversations
type ChatService interface {
	Start(ctx context.Context, req assistantapp.ChatRequest) (*assistantapp.Conversation, error)
}

// AssistantSettingsService reads and writes the assistant settings
type AssistantSettingsService interface {
	Get(ctx context.Context) (*assistantapp.SettingsResponse, error)
	Update(ctx context.Context, req assistantapp.UpdateSettingsRequest) (*assistantapp.SettingsResponse, error)
}

// AssistantHandler handles the AI chat stream and its settings
type AssistantHandler struct {
	BaseHandler
	chat     ChatService
	settings AssistantSettingsService
}

// NewAssistantHandler creates a new AssistantHandler
func NewAssistantHandler(chat ChatService, settings AssistantSettingsService) *AssistantHandler {
	return &AssistantHandler{chat: chat, settings: settings}
}

// ChatStream godoc
// @Summary      Chat with the assistant
// @Description  Streams the answer as server-sent events: delta, tool_call, tool_result, done and error.
// @Description  Failures before the stream starts (validation, unconfigured assistant) are JSON errors.
// @Tags         assistant
// @Accept       json
// @Produce      text/event-stream
// @Param        request body assistantapp.ChatRequest true "Conversation so far"
// @Success      200 {string} string "SSE stream"
// @Failure      400 {object} ErrorResponse
// @Router       /ai/chat/stream [post]
func (h *AssistantHandler) ChatStream(c *gin.Context) {
	var req assistantapp.ChatRequest
	if err := bindJSON(c, &req); err != nil {
		h.Fail(c, err)
		return
	}

	ctx := c.Request.Context()
	conv, err := h.chat.Start(ctx, req)
	if err != nil {
		h.Fail(c, err)
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	emit := func(ev assistantapp.Event) error {
		return writeSSE(c.Writer, ev)
	}
	if err := conv.Run(ctx, emit); err != nil {
		// the client already received an error event
		level := logger.GetGinLogger(c).Warn
		if errors.Is(err, context.Canceled) {
			level = logger.GetGinLogger(c).Debug
		}
		level("assistant turn ended with error", zap.Error(err))
	}
}

func writeSSE(w gin.ResponseWriter, ev assistantapp.Event) error {
	data, err := json.Marshal(ev.Data)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", ev.Type, err)
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, data); err != nil {
		return err
	}
	w.Flush()
	return nil
}

// GetSettings godoc
// @Summary      Get assistant settings
// @Description  The API key is masked
// @Tags         assistant
// @Produce      json
// @Success      200 {object} dto.Response{data=assistantapp.SettingsResponse}
// @Router       /ai/settings [get]
func (h *AssistantHandler) GetSettings(c *gin.Context) {
	settings, err := h.settings.Get(c.Request.Context())
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.Success(c, settings)
}

// UpdateSettings godoc
// @Summary      Update assistant settings
// @Description  Omitting apiKey keeps the stored key; an empty string clears it
// @Tags         assistant
// @Accept       json
// @Produce      json
// @Param        request body assistantapp.UpdateSettingsRequest true "Settings"
// @Success      200 {object} dto.Response{data=assistantapp.SettingsResponse}
// @Failure      400 {object} ErrorResponse
// @Router       /ai/settings [put]
func (h *AssistantHandler) UpdateSettings(c *gin.Context) {
	var req assistantapp.UpdateSettingsRequest
	if err := bindJSON(c, &req); err != nil {
		h.Fail(c, err)
		return
	}
	settings, err := h.settings.Update(c.Request.Context(), req)
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.Success(c, settings)
}
