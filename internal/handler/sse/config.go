package sse

import "time"

// Config holds SSE connection settings.
type Config struct {
	// KeepAliveInterval is how often a comment line is written while the
	// upstream is quiet. Zero disables keep-alive.
	KeepAliveInterval time.Duration
}

// DefaultConfig returns the default SSE configuration.
// 10 seconds stays under the idle timeout of common proxies.
func DefaultConfig() *Config {
	return &Config{
		KeepAliveInterval: 10 * time.Second,
	}
}
