package llm

import (
	"fmt"
	"log/slog"

	llmanthropic "github.com/haowjy/meridian-llm-go/providers/anthropic"
	llmlorem "github.com/haowjy/meridian-llm-go/providers/lorem"

	"docsite/internal/config"
	domainllm "docsite/internal/domain/services/llm"
	"docsite/internal/service/llm/providers/anthropic"
	"docsite/internal/service/llm/providers/llmgo"
	"docsite/internal/service/llm/providers/lorem"
	"docsite/internal/service/llm/providers/openai"
)

// ProviderFactory creates LLM provider instances from config.
type ProviderFactory struct {
	config *config.Config
}

// NewProviderFactory creates a new provider factory
func NewProviderFactory(cfg *config.Config) *ProviderFactory {
	return &ProviderFactory{
		config: cfg,
	}
}

// GetProvider returns a provider instance for the given provider name
//
// Supported providers:
//   - "openai" - any OpenAI-compatible gateway (AI_GATEWAY_URL)
//   - "anthropic" - Claude models via Anthropic API
//   - "lorem" - Mock provider for testing (no API key required)
//   - "llmgo-anthropic" - Claude through the meridian-llm-go library
//   - "llmgo-lorem" - the library's mock provider (no API key required)
func (f *ProviderFactory) GetProvider(providerName string) (domainllm.Provider, error) {
	switch providerName {
	case "openai":
		return f.createOpenAIProvider()

	case "anthropic":
		return f.createAnthropicProvider()

	case "lorem":
		return lorem.NewProvider(), nil

	case "llmgo-anthropic":
		return f.createLibraryAnthropicProvider()

	case "llmgo-lorem":
		return llmgo.NewAdapter(llmlorem.NewProvider()), nil

	default:
		return nil, fmt.Errorf("unsupported provider: %s", providerName)
	}
}

func (f *ProviderFactory) createOpenAIProvider() (domainllm.Provider, error) {
	if f.config.AIGatewayKey == "" {
		return nil, fmt.Errorf("AI_GATEWAY_KEY environment variable not set")
	}

	provider, err := openai.NewProvider(f.config.AIGatewayURL, f.config.AIGatewayKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI-compatible provider: %w", err)
	}
	return provider, nil
}

func (f *ProviderFactory) createAnthropicProvider() (domainllm.Provider, error) {
	if f.config.AnthropicAPIKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
	}

	provider, err := anthropic.NewProvider(f.config.AnthropicAPIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create Anthropic provider: %w", err)
	}
	return provider, nil
}

func (f *ProviderFactory) createLibraryAnthropicProvider() (domainllm.Provider, error) {
	if f.config.AnthropicAPIKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
	}

	provider, err := llmanthropic.NewProvider(f.config.AnthropicAPIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create Anthropic provider: %w", err)
	}
	return llmgo.NewAdapter(provider), nil
}

// SetupProvider builds the configured provider and checks that it can serve
// both the generation and the chat model.
func SetupProvider(cfg *config.Config, logger *slog.Logger) (domainllm.Provider, error) {
	provider, err := NewProviderFactory(cfg).GetProvider(cfg.LLMProvider)
	if err != nil {
		return nil, err
	}

	for _, model := range []string{cfg.GenerationModel, cfg.ChatModel} {
		if !provider.SupportsModel(model) {
			return nil, fmt.Errorf("model '%s' is not supported by %s provider", model, provider.Name())
		}
	}

	logger.Info("llm provider initialized",
		"provider", provider.Name(),
		"generation_model", cfg.GenerationModel,
		"chat_model", cfg.ChatModel,
	)
	return provider, nil
}
