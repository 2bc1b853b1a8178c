package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("TABLE_PREFIX", "")
	t.Setenv("GENERATION_TIMEOUT", "")
	t.Setenv("CHAT_HISTORY_WINDOW", "")
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("DEBUG", "")
	t.Setenv("GENERATION_MODEL", "")
	t.Setenv("CHAT_MODEL", "")

	cfg := Load()

	assert.Equal(t, "test_", cfg.TablePrefix)
	assert.Equal(t, "lorem", cfg.LLMProvider)
	assert.Equal(t, "lorem-fast", cfg.GenerationModel)
	assert.Equal(t, "lorem-fast", cfg.ChatModel)
	assert.Equal(t, 3*time.Minute, cfg.GenerationTimeout)
	assert.Equal(t, DefaultChatHistoryWindow, cfg.ChatHistoryWindow)
	assert.True(t, cfg.Debug)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "prod")
	t.Setenv("TABLE_PREFIX", "custom_")
	t.Setenv("CHAT_TIMEOUT", "90s")
	t.Setenv("CHAT_HISTORY_WINDOW", "5")
	t.Setenv("JWKS_URL", "")
	t.Setenv("SUPABASE_URL", "https://example.supabase.co")
	t.Setenv("AUTO_MIGRATE", "true")
	t.Setenv("DEBUG", "")

	cfg := Load()

	assert.Equal(t, "custom_", cfg.TablePrefix)
	assert.Equal(t, 90*time.Second, cfg.ChatTimeout)
	assert.Equal(t, 5, cfg.ChatHistoryWindow)
	assert.Equal(t, "https://example.supabase.co/auth/v1/.well-known/jwks.json", cfg.JWKSURL)
	assert.True(t, cfg.AutoMigrate)
	assert.False(t, cfg.Debug)
}

func TestGetEnvInt_InvalidFallsBack(t *testing.T) {
	t.Setenv("SOME_INT", "abc")
	assert.Equal(t, 7, getEnvInt("SOME_INT", 7))
}

func TestGetDefaultModel(t *testing.T) {
	tests := []struct {
		provider string
		want     string
	}{
		{"anthropic", "claude-sonnet-4-5"},
		{"lorem", "lorem-fast"},
		{"openai", "google/gemini-2.5-flash"},
	}
	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			assert.Equal(t, tt.want, getDefaultModel(tt.provider))
		})
	}
}
