package openai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sashabaranov/go-openai"

	"docsite/internal/domain"
	"docsite/internal/domain/models/docs"
	domainllm "docsite/internal/domain/services/llm"
)

// Provider talks to any OpenAI-compatible chat completions endpoint,
// typically an AI gateway.
type Provider struct {
	client *openai.Client
}

// NewProvider creates a provider for baseURL authenticated with apiKey.
func NewProvider(baseURL, apiKey string) (*Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("AI gateway API key is required")
	}

	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = strings.TrimRight(baseURL, "/")
	}

	return &Provider{client: openai.NewClientWithConfig(config)}, nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "openai"
}

// SupportsModel returns true for any model; the gateway decides.
func (p *Provider) SupportsModel(model string) bool {
	return model != ""
}

// Complete runs a blocking chat completion.
func (p *Provider) Complete(ctx context.Context, req *domainllm.CompletionRequest) (*domainllm.Completion, error) {
	resp, err := p.client.CreateChatCompletion(ctx, buildRequest(req, false))
	if err != nil {
		return nil, upstreamError(err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, domain.NewUpstreamError(0, "no content received from model")
	}

	return &domainllm.Completion{
		Content:      resp.Choices[0].Message.Content,
		Model:        resp.Model,
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
		StopReason:   string(resp.Choices[0].FinishReason),
	}, nil
}

// Stream opens a streaming chat completion. HTTP failures surface here,
// before any event is sent.
func (p *Provider) Stream(ctx context.Context, req *domainllm.CompletionRequest) (<-chan domainllm.StreamEvent, error) {
	stream, err := p.client.CreateChatCompletionStream(ctx, buildRequest(req, true))
	if err != nil {
		return nil, upstreamError(err)
	}

	events := make(chan domainllm.StreamEvent, 10)
	go func() {
		defer close(events)
		defer stream.Close()

		for {
			chunk, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				send(ctx, events, domainllm.StreamEvent{Error: upstreamError(err)})
				return
			}
			if len(chunk.Choices) == 0 || chunk.Choices[0].Delta.Content == "" {
				continue
			}
			if !send(ctx, events, domainllm.StreamEvent{Delta: chunk.Choices[0].Delta.Content}) {
				return
			}
		}
	}()

	return events, nil
}

func send(ctx context.Context, events chan<- domainllm.StreamEvent, ev domainllm.StreamEvent) bool {
	select {
	case events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

func buildRequest(req *domainllm.CompletionRequest, stream bool) openai.ChatCompletionRequest {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	for _, m := range req.Messages {
		role := openai.ChatMessageRoleUser
		if m.Role == docs.RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}

	apiReq := openai.ChatCompletionRequest{
		Model:     req.Model,
		Messages:  messages,
		MaxTokens: req.MaxTokens,
		Stream:    stream,
	}
	if req.Temperature != nil {
		apiReq.Temperature = float32(*req.Temperature)
	}
	return apiReq
}

// upstreamError classifies go-openai errors by HTTP status.
func upstreamError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return domain.WrapUpstreamError(apiErr.HTTPStatusCode, apiErr.Message, err)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		message := strings.TrimSpace(string(reqErr.Body))
		if message == "" {
			message = reqErr.HTTPStatus
		}
		return domain.WrapUpstreamError(reqErr.HTTPStatusCode, message, err)
	}

	return domain.WrapUpstreamError(0, err.Error(), err)
}
