package llm

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docsite/internal/config"
	"docsite/internal/service/llm/providers/llmgo"
)

func TestProviderFactory_GetProvider(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		cfg      config.Config
		wantName string
		wantErr  string
	}{
		{name: "lorem needs no key", provider: "lorem", wantName: "lorem"},
		{name: "openai with key", provider: "openai", cfg: config.Config{AIGatewayKey: "k", AIGatewayURL: "http://gw/v1"}, wantName: "openai"},
		{name: "openai without key", provider: "openai", wantErr: "AI_GATEWAY_KEY"},
		{name: "anthropic with key", provider: "anthropic", cfg: config.Config{AnthropicAPIKey: "k"}, wantName: "anthropic"},
		{name: "anthropic without key", provider: "anthropic", wantErr: "ANTHROPIC_API_KEY"},
		{name: "unknown", provider: "gemini", wantErr: "unsupported provider"},
		{name: "library anthropic without key", provider: "llmgo-anthropic", wantErr: "ANTHROPIC_API_KEY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			p, err := NewProviderFactory(&cfg).GetProvider(tt.provider)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, p.Name())
		})
	}
}

func TestSetupProvider_RejectsUnsupportedModel(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, err := SetupProvider(&config.Config{
		LLMProvider:     "lorem",
		GenerationModel: "lorem-test",
		ChatModel:       "gpt-4o",
	}, logger)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gpt-4o")

	p, err := SetupProvider(&config.Config{
		LLMProvider:     "lorem",
		GenerationModel: "lorem-test",
		ChatModel:       "lorem-fast",
	}, logger)
	require.NoError(t, err)
	assert.Equal(t, "lorem", p.Name())
}

func TestProviderFactory_LibraryProviders(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		cfg      config.Config
	}{
		{name: "library lorem", provider: "llmgo-lorem"},
		{name: "library anthropic", provider: "llmgo-anthropic", cfg: config.Config{AnthropicAPIKey: "k"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			p, err := NewProviderFactory(&cfg).GetProvider(tt.provider)
			require.NoError(t, err)
			assert.IsType(t, &llmgo.Adapter{}, p)
			assert.NotEmpty(t, p.Name())
		})
	}
}
