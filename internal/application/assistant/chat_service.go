// Package assistant runs chat turns against the configured model and
// manages the assistant settings.
package assistant

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/innledger/backend/internal/domain/assistant"
	"github.com/innledger/backend/internal/domain/shared"
	"github.com/innledger/backend/internal/infrastructure/telemetry"
)

const defaultSystemPrompt = "You are the bookkeeping assistant of a hospitality business. " +
	"Answer questions about payment items, revenue and notifications using the tools provided. " +
	"Amounts are in the business currency. Be concise."

// SettingsResolver supplies usable settings for a chat turn
type SettingsResolver interface {
	Resolve(ctx context.Context) (*ResolvedSettings, error)
}

// Emitter writes one event to the client. An error stops the turn.
type Emitter func(Event) error

// ChatService runs chat turns
type ChatService struct {
	settings  SettingsResolver
	model     assistant.ChatModel
	tools     *Toolbox
	maxRounds int
	metrics   *telemetry.LedgerMetrics
	logger    *zap.Logger
}

// NewChatService creates a new chat service. maxRounds is clamped to the
// hard tool round limit.
func NewChatService(settings SettingsResolver, model assistant.ChatModel, tools *Toolbox, maxRounds int, metrics *telemetry.LedgerMetrics, logger *zap.Logger) *ChatService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxRounds <= 0 || maxRounds > assistant.MaxToolRounds {
		maxRounds = assistant.MaxToolRounds
	}
	return &ChatService{
		settings:  settings,
		model:     model,
		tools:     tools,
		maxRounds: maxRounds,
		metrics:   metrics,
		logger:    logger,
	}
}

// Conversation is a prepared chat turn. Nothing has been sent to the client yet.
type Conversation struct {
	svc      *ChatService
	settings *ResolvedSettings
	messages []assistant.Message
}

// Start resolves the settings and builds the conversation. Errors returned
// here happen before streaming begins.
func (s *ChatService) Start(ctx context.Context, req ChatRequest) (*Conversation, error) {
	resolved, err := s.settings.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	prompt := resolved.Settings.SystemPrompt
	if prompt == "" {
		prompt = defaultSystemPrompt
	}
	prompt += fmt.Sprintf("\nToday is %s.", shared.Today(ctx).Format(shared.DateLayout))

	messages := make([]assistant.Message, 0, len(req.Messages)+1)
	messages = append(messages, assistant.Message{Role: assistant.RoleSystem, Content: prompt})
	for _, m := range req.Messages {
		messages = append(messages, assistant.Message{Role: assistant.Role(m.Role), Content: m.Content})
	}
	return &Conversation{svc: s, settings: resolved, messages: messages}, nil
}

// Run streams the turn to emit. Model failures and the tool round limit are
// reported as an error event and also returned.
func (c *Conversation) Run(ctx context.Context, emit Emitter) error {
	s := c.svc
	turn := assistant.NewTurn(s.maxRounds)
	var emitErr error

	defer func() {
		if s.metrics != nil {
			s.metrics.AssistantToolRounds.Record(ctx, float64(turn.Rounds()),
				telemetry.AttrStatus.String(string(turn.State())))
		}
	}()

	for {
		req := assistant.CompletionRequest{
			BaseURL:     c.settings.Settings.BaseURL,
			APIKey:      c.settings.APIKey,
			Model:       c.settings.Settings.Model,
			Temperature: c.settings.Settings.Temperature,
			Messages:    c.messages,
			Tools:       s.tools.Specs(),
		}

		err := s.model.StreamCompletion(ctx, req, func(chunk assistant.StreamChunk) error {
			if chunk.Content != "" {
				if err := turn.OnContent(chunk.Content); err != nil {
					return err
				}
				if err := emit(Event{Type: EventDelta, Data: DeltaData{Content: chunk.Content}}); err != nil {
					emitErr = err
					return err
				}
			}
			for _, tc := range chunk.ToolCalls {
				if err := turn.OnToolCallDelta(tc.Index, tc.ID, tc.Name, tc.Arguments); err != nil {
					return err
				}
			}
			return nil
		})
		if emitErr != nil {
			turn.Fail(emitErr)
			return emitErr
		}
		if err != nil {
			return c.fail(turn, emit, err)
		}

		if err := turn.EndCompletion(); err != nil {
			return c.fail(turn, emit, err)
		}
		if turn.State() == assistant.StateDone {
			return emit(Event{Type: EventDone, Data: DoneData{Rounds: turn.Rounds()}})
		}

		calls := turn.PendingCalls()
		for i := range calls {
			if calls[i].ID == "" {
				calls[i].ID = fmt.Sprintf("call_%d_%d", turn.Rounds(), i)
			}
		}
		c.messages = append(c.messages, assistant.Message{
			Role:      assistant.RoleAssistant,
			Content:   turn.Content(),
			ToolCalls: calls,
		})
		for _, call := range calls {
			if err := emit(Event{Type: EventToolCall, Data: ToolCallData{ID: call.ID, Name: call.Name, Arguments: call.Arguments}}); err != nil {
				turn.Fail(err)
				return err
			}
			result := s.tools.Execute(ctx, call.Name, call.Arguments)
			s.logger.Debug("Assistant tool executed",
				zap.String("tool", call.Name),
				zap.Int("round", turn.Rounds()),
			)
			if err := emit(Event{Type: EventToolResult, Data: ToolResultData{ID: call.ID, Name: call.Name, Result: result}}); err != nil {
				turn.Fail(err)
				return err
			}
			c.messages = append(c.messages, assistant.Message{
				Role:       assistant.RoleTool,
				Content:    result,
				ToolCallID: call.ID,
				Name:       call.Name,
			})
		}
		if err := turn.OnToolResults(); err != nil {
			return c.fail(turn, emit, err)
		}
	}
}

func (c *Conversation) fail(turn *assistant.Turn, emit Emitter, err error) error {
	turn.Fail(err)
	msg := err.Error()
	if errors.Is(err, context.Canceled) {
		msg = "request cancelled"
	}
	c.svc.logger.Warn("Assistant turn failed", zap.Error(err), zap.Int("rounds", turn.Rounds()))
	if emitErr := emit(Event{Type: EventError, Data: ErrorData{Message: msg}}); emitErr != nil {
		return emitErr
	}
	return err
}
