package llm

import (
	"context"

	"docsite/internal/domain/models/docs"
)

// Provider is a chat-completion backend. Implementations translate upstream
// failures into *domain.UpstreamError so callers can classify them.
type Provider interface {
	// Name returns the provider name (e.g., "openai", "anthropic", "lorem")
	Name() string

	// SupportsModel returns true if the provider can serve the given model.
	SupportsModel(model string) bool

	// Complete runs a blocking completion.
	Complete(ctx context.Context, req *CompletionRequest) (*Completion, error)

	// Stream starts a streaming completion. Failures that happen before the
	// first delta are returned directly; later failures arrive as an event
	// with Error set. The channel is closed when the stream ends.
	Stream(ctx context.Context, req *CompletionRequest) (<-chan StreamEvent, error)
}

// CompletionRequest contains the parameters for a completion.
type CompletionRequest struct {
	Model    string
	System   string
	Messages []docs.ChatMessage

	// Temperature is left to the provider default when nil.
	Temperature *float64
	MaxTokens   int
}

// Completion is the result of a blocking completion.
type Completion struct {
	Content      string
	Model        string
	InputTokens  int
	OutputTokens int
	StopReason   string
}

// StreamEvent is one item of a streaming completion.
type StreamEvent struct {
	Delta string
	Error error
}

// Float returns a pointer to f, for optional request fields.
func Float(f float64) *float64 { return &f }
