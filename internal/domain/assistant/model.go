package assistant

import "context"

// ToolCallDelta is a fragment of a tool call as streamed by the model
type ToolCallDelta struct {
	Index     int
	ID        string
	Name      string
	Arguments string
}

// StreamChunk is one decoded event of a completion stream
type StreamChunk struct {
	Content      string
	ToolCalls    []ToolCallDelta
	FinishReason string
}

// CompletionRequest is everything needed for one streamed completion
type CompletionRequest struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	Messages    []Message
	Tools       []ToolSpec
}

// ChatModel streams a completion, invoking onChunk for every chunk in order.
// It returns when the stream ends, onChunk fails, or ctx is cancelled.
type ChatModel interface {
	StreamCompletion(ctx context.Context, req CompletionRequest, onChunk func(StreamChunk) error) error
}
