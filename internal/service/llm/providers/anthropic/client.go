package anthropic

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"docsite/internal/domain"
	domainllm "docsite/internal/domain/services/llm"
)

// Provider serves Claude models through the Anthropic API.
type Provider struct {
	client *anthropic.Client
}

// NewProvider creates a new Anthropic provider with the given API key.
// Extra options (e.g. option.WithBaseURL) are passed to the SDK client.
func NewProvider(apiKey string, opts ...option.RequestOption) (*Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}

	client := anthropic.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...)

	return &Provider{
		client: &client,
	}, nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "anthropic"
}

// SupportsModel returns true if this provider supports the given model.
// Anthropic models start with "claude-"
func (p *Provider) SupportsModel(model string) bool {
	return strings.HasPrefix(model, "claude-")
}

// Complete generates a response from Claude.
func (p *Provider) Complete(ctx context.Context, req *domainllm.CompletionRequest) (*domainllm.Completion, error) {
	if !p.SupportsModel(req.Model) {
		return nil, fmt.Errorf("model '%s' is not supported by Anthropic provider", req.Model)
	}

	params, err := buildParams(req)
	if err != nil {
		return nil, fmt.Errorf("failed to convert messages: %w", err)
	}

	message, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return nil, upstreamError(err)
	}

	completion := convertResponse(message)
	if completion.Content == "" {
		return nil, domain.NewUpstreamError(0, "no content received from model")
	}
	return completion, nil
}
