package llmgo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	llmprovider "github.com/haowjy/meridian-llm-go"

	"docsite/internal/domain"
	"docsite/internal/domain/models/docs"
	domainllm "docsite/internal/domain/services/llm"
)

const (
	blockTypeText = "text"
	deltaTypeText = "text_delta"

	defaultMaxTokens = 4096
)

// Adapter wraps a meridian-llm-go provider and implements domainllm.Provider.
// Chat history is plain text, so every message becomes a single text block.
type Adapter struct {
	provider llmprovider.Provider
}

// NewAdapter wraps an existing library provider.
func NewAdapter(provider llmprovider.Provider) *Adapter {
	return &Adapter{provider: provider}
}

// Name returns the wrapped provider's name.
func (a *Adapter) Name() string {
	return a.provider.Name().String()
}

// SupportsModel returns true if the wrapped provider serves the model.
func (a *Adapter) SupportsModel(model string) bool {
	return a.provider.SupportsModel(model)
}

// Complete runs a blocking completion and joins the text blocks of the reply.
func (a *Adapter) Complete(ctx context.Context, req *domainllm.CompletionRequest) (*domainllm.Completion, error) {
	libReq, err := toLibraryRequest(req)
	if err != nil {
		return nil, fmt.Errorf("failed to convert messages: %w", err)
	}

	resp, err := a.provider.GenerateResponse(ctx, libReq)
	if err != nil {
		return nil, upstreamError(err)
	}

	completion := fromLibraryResponse(resp)
	if completion.Content == "" {
		return nil, domain.NewUpstreamError(0, "no content received from model")
	}
	return completion, nil
}

// Stream forwards the text deltas of the library stream. Thinking, tool and
// usage deltas are dropped.
func (a *Adapter) Stream(ctx context.Context, req *domainllm.CompletionRequest) (<-chan domainllm.StreamEvent, error) {
	libReq, err := toLibraryRequest(req)
	if err != nil {
		return nil, fmt.Errorf("failed to convert messages: %w", err)
	}

	libEvents, err := a.provider.StreamResponse(ctx, libReq)
	if err != nil {
		return nil, upstreamError(err)
	}

	events := make(chan domainllm.StreamEvent, 10)

	go func() {
		defer close(events)
		// Drain the library channel so its producer can exit.
		defer func() {
			for range libEvents {
			}
		}()

		for libEvent := range libEvents {
			event, ok := fromLibraryEvent(libEvent)
			if !ok {
				continue
			}
			select {
			case <-ctx.Done():
				return
			case events <- event:
			}
			if event.Error != nil {
				return
			}
		}
	}()

	return events, nil
}

// toLibraryRequest converts a domain completion request to the library's
// block-based request.
func toLibraryRequest(req *domainllm.CompletionRequest) (*llmprovider.GenerateRequest, error) {
	messages := make([]llmprovider.Message, 0, len(req.Messages))
	for i, msg := range req.Messages {
		if msg.Role != docs.RoleUser && msg.Role != docs.RoleAssistant {
			return nil, fmt.Errorf("message %d: unsupported role '%s'", i, msg.Role)
		}
		text := msg.Content
		messages = append(messages, llmprovider.Message{
			Role: msg.Role,
			Blocks: []*llmprovider.Block{{
				BlockType:   blockTypeText,
				TextContent: &text,
			}},
		})
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	params := &llmprovider.RequestParams{
		MaxTokens:   &maxTokens,
		Temperature: req.Temperature,
	}
	if req.System != "" {
		system := req.System
		params.System = &system
	}

	return &llmprovider.GenerateRequest{
		Messages: messages,
		Model:    req.Model,
		Params:   params,
	}, nil
}

// fromLibraryResponse joins the text blocks of a library response.
func fromLibraryResponse(resp *llmprovider.GenerateResponse) *domainllm.Completion {
	var sb strings.Builder
	for _, block := range resp.Blocks {
		if block == nil || block.BlockType != blockTypeText || block.TextContent == nil {
			continue
		}
		sb.WriteString(*block.TextContent)
	}

	return &domainllm.Completion{
		Content:      sb.String(),
		Model:        resp.Model,
		InputTokens:  resp.InputTokens,
		OutputTokens: resp.OutputTokens,
		StopReason:   resp.StopReason,
	}
}

// fromLibraryEvent keeps text deltas and errors. The bool is false for
// events that carry neither.
func fromLibraryEvent(event llmprovider.StreamEvent) (domainllm.StreamEvent, bool) {
	if event.Error != nil {
		return domainllm.StreamEvent{Error: upstreamError(event.Error)}, true
	}
	delta := event.Delta
	if delta == nil || delta.DeltaType != deltaTypeText || delta.TextDelta == nil || *delta.TextDelta == "" {
		return domainllm.StreamEvent{}, false
	}
	return domainllm.StreamEvent{Delta: *delta.TextDelta}, true
}

// upstreamError classifies library errors. The anthropic backend surfaces
// SDK errors, which carry the HTTP status.
func upstreamError(err error) error {
	var upstream *domain.UpstreamError
	if errors.As(err, &upstream) {
		return err
	}
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return domain.WrapUpstreamError(apiErr.StatusCode, http.StatusText(apiErr.StatusCode), err)
	}
	return domain.WrapUpstreamError(0, err.Error(), err)
}
