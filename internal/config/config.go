package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	TablePrefix string
	AutoMigrate bool
	CORSOrigins string

	// Bearer credential. Any combination may be set; none disables auth.
	APIKey    string
	JWTSecret string
	JWKSURL   string

	// LLM Configuration
	LLMProvider     string
	AIGatewayURL    string
	AIGatewayKey    string
	AnthropicAPIKey string
	GenerationModel string
	ChatModel       string

	GenerationTimeout     time.Duration
	ChatTimeout           time.Duration
	ChatHistoryWindow     int
	GenerateRatePerMinute int

	CodeStyle string
	LogDir    string

	// Debug flags
	Debug bool
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	jwksURL := getEnv("JWKS_URL", "")
	if jwksURL == "" {
		if supabaseURL := getEnv("SUPABASE_URL", ""); supabaseURL != "" {
			jwksURL = supabaseURL + "/auth/v1/.well-known/jwks.json"
		}
	}

	provider := getEnv("LLM_PROVIDER", getDefaultProvider(env))
	model := getDefaultModel(provider)

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,
		DatabaseURL: getEnv("DATABASE_URL", getEnv("SUPABASE_DB_URL", "")),
		TablePrefix: getTablePrefix(env),
		AutoMigrate: getEnv("AUTO_MIGRATE", "false") == "true",
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),

		APIKey:    getEnv("API_KEY", ""),
		JWTSecret: getEnv("JWT_SECRET", ""),
		JWKSURL:   jwksURL,

		LLMProvider:     provider,
		AIGatewayURL:    getEnv("AI_GATEWAY_URL", "https://ai.gateway.lovable.dev/v1"),
		AIGatewayKey:    getEnv("AI_GATEWAY_KEY", getEnv("LOVABLE_API_KEY", "")),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		GenerationModel: getEnv("GENERATION_MODEL", model),
		ChatModel:       getEnv("CHAT_MODEL", model),

		GenerationTimeout:     getEnvDuration("GENERATION_TIMEOUT", 3*time.Minute),
		ChatTimeout:           getEnvDuration("CHAT_TIMEOUT", 5*time.Minute),
		ChatHistoryWindow:     getEnvInt("CHAT_HISTORY_WINDOW", DefaultChatHistoryWindow),
		GenerateRatePerMinute: getEnvInt("GENERATE_RATE_PER_MINUTE", 10),

		CodeStyle: getEnv("CODE_STYLE", "dracula"),
		LogDir:    getEnv("LOG_DIR", ""),

		// Debug flags - default to true in dev/test, false in production
		Debug: getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// getDefaultProvider picks the mock provider in test so no key is needed.
func getDefaultProvider(env string) string {
	if env == "test" {
		return "lorem"
	}
	return "openai"
}

// getDefaultModel returns the model used for both generation and chat
// unless GENERATION_MODEL / CHAT_MODEL override it.
func getDefaultModel(provider string) string {
	switch provider {
	case "anthropic", "llmgo-anthropic":
		return "claude-sonnet-4-5"
	case "lorem", "llmgo-lorem":
		return "lorem-fast"
	default:
		return "google/gemini-2.5-flash"
	}
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return defaultValue
}
