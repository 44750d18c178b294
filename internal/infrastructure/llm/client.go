// Package llm speaks the OpenAI-compatible streaming chat completions protocol.
package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/innledger/backend/internal/domain/assistant"
	"github.com/innledger/backend/internal/domain/shared"
)

const (
	systemName = "AI provider"
	// maxLineSize bounds a single SSE line
	maxLineSize = 1024 * 1024
	// maxErrorBody bounds how much of an error response is read
	maxErrorBody = 64 * 1024
)

// Client streams chat completions
type Client struct {
	httpClient *http.Client
}

// NewClient creates a client. A zero timeout disables the per-request deadline;
// the caller's context still applies.
func NewClient(timeout time.Duration) *Client {
	return &Client{httpClient: &http.Client{Timeout: timeout}}
}

// NewClientWithHTTP creates a client using httpClient
func NewClientWithHTTP(httpClient *http.Client) *Client {
	return &Client{httpClient: httpClient}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Tools       []chatTool    `json:"tools,omitempty"`
	Temperature float64       `json:"temperature"`
	Stream      bool          `json:"stream"`
}

type chatMessage struct {
	Role       string         `json:"role"`
	Content    string         `json:"content"`
	ToolCalls  []chatToolCall `json:"tool_calls,omitempty"`
	ToolCallID string         `json:"tool_call_id,omitempty"`
	Name       string         `json:"name,omitempty"`
}

type chatToolCall struct {
	Index    *int         `json:"index,omitempty"`
	ID       string       `json:"id,omitempty"`
	Type     string       `json:"type,omitempty"`
	Function chatFunction `json:"function"`
}

type chatFunction struct {
	Name      string `json:"name,omitempty"`
	Arguments string `json:"arguments,omitempty"`
}

type chatTool struct {
	Type     string       `json:"type"`
	Function toolFunction `json:"function"`
}

type toolFunction struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

type streamResponse struct {
	Choices []struct {
		Delta struct {
			Content   string         `json:"content"`
			ToolCalls []chatToolCall `json:"tool_calls"`
		} `json:"delta"`
		FinishReason *string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// StreamCompletion posts to {BaseURL}/chat/completions with stream=true and
// decodes the SSE response line by line until [DONE] or EOF.
func (c *Client) StreamCompletion(ctx context.Context, req assistant.CompletionRequest, onChunk func(assistant.StreamChunk) error) error {
	payload, err := json.Marshal(buildRequest(req))
	if err != nil {
		return fmt.Errorf("llm: failed to encode request: %w", err)
	}

	endpoint := strings.TrimRight(req.BaseURL, "/") + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("llm: failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	httpReq.Header.Set("Authorization", "Bearer "+req.APIKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return shared.NewUpstreamError(systemName, "service unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return shared.NewUpstreamError(systemName, describeFailure(resp))
	}

	return decodeStream(resp.Body, onChunk)
}

func decodeStream(r io.Reader, onChunk func(assistant.StreamChunk) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ":") {
			continue
		}
		data, ok := strings.CutPrefix(line, "data:")
		if !ok {
			continue
		}
		data = strings.TrimSpace(data)
		if data == "[DONE]" {
			return nil
		}

		var event streamResponse
		if err := json.Unmarshal([]byte(data), &event); err != nil {
			return shared.NewUpstreamError(systemName, "malformed stream event")
		}
		if event.Error != nil {
			return shared.NewUpstreamError(systemName, event.Error.Message)
		}
		for _, choice := range event.Choices {
			chunk := assistant.StreamChunk{Content: choice.Delta.Content}
			for i, tc := range choice.Delta.ToolCalls {
				index := i
				if tc.Index != nil {
					index = *tc.Index
				}
				chunk.ToolCalls = append(chunk.ToolCalls, assistant.ToolCallDelta{
					Index:     index,
					ID:        tc.ID,
					Name:      tc.Function.Name,
					Arguments: tc.Function.Arguments,
				})
			}
			if choice.FinishReason != nil {
				chunk.FinishReason = *choice.FinishReason
			}
			if err := onChunk(chunk); err != nil {
				return err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return shared.NewUpstreamError(systemName, "stream interrupted")
	}
	return nil
}

func buildRequest(req assistant.CompletionRequest) chatRequest {
	out := chatRequest{
		Model:       req.Model,
		Temperature: req.Temperature,
		Stream:      true,
		Messages:    make([]chatMessage, 0, len(req.Messages)),
	}
	for _, m := range req.Messages {
		msg := chatMessage{
			Role:       string(m.Role),
			Content:    m.Content,
			ToolCallID: m.ToolCallID,
			Name:       m.Name,
		}
		for _, tc := range m.ToolCalls {
			msg.ToolCalls = append(msg.ToolCalls, chatToolCall{
				ID:       tc.ID,
				Type:     "function",
				Function: chatFunction{Name: tc.Name, Arguments: tc.Arguments},
			})
		}
		out.Messages = append(out.Messages, msg)
	}
	for _, t := range req.Tools {
		params := t.Parameters
		if params == nil {
			params = map[string]any{"type": "object", "properties": map[string]any{}}
		}
		out.Tools = append(out.Tools, chatTool{
			Type:     "function",
			Function: toolFunction{Name: t.Name, Description: t.Description, Parameters: params},
		})
	}
	return out
}

// describeFailure extracts the provider's error message without echoing
// anything that could contain request details.
func describeFailure(resp *http.Response) string {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var payload struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &payload) == nil && payload.Error.Message != "" {
		return fmt.Sprintf("HTTP %d: %s", resp.StatusCode, payload.Error.Message)
	}
	return fmt.Sprintf("HTTP %d", resp.StatusCode)
}

var _ assistant.ChatModel = (*Client)(nil)
