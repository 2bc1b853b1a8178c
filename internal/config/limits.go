package config

const (
	// MaxTopicLength bounds the topic (plus additional context) sent for generation.
	MaxTopicLength = 2000

	// MaxChatMessageLength bounds a single chat message.
	MaxChatMessageLength = 8000

	// MaxChatMessages bounds how many messages one chat request may carry
	// before the history window is applied.
	MaxChatMessages = 200

	// DefaultChatHistoryWindow is how many trailing messages are sent upstream per turn.
	DefaultChatHistoryWindow = 20

	// GenerationTemperature and GenerationMaxTokens are the sampling settings
	// for documentation generation.
	GenerationTemperature = 0.7
	GenerationMaxTokens   = 16000
)
