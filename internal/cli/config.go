package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"docsite/internal/config"
	"docsite/internal/render"
)

// EnvPrefix prefixes every environment override, e.g. DOCSITE_BASE_URL.
const EnvPrefix = "DOCSITE"

// Settings is the CLI configuration.
// Precedence: flags > env > config file > defaults.
type Settings struct {
	BaseURL       string        `mapstructure:"base_url"`
	Token         string        `mapstructure:"token"`
	Width         int           `mapstructure:"width"`
	HistoryWindow int           `mapstructure:"history_window"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

// loadSettings reads cfgFile, or ~/.docsite/config.yaml when it is empty.
// A missing default file is not an error.
func loadSettings(v *viper.Viper, cfgFile string) (*Settings, error) {
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	v.SetDefault("base_url", "http://localhost:8080")
	v.SetDefault("token", "")
	v.SetDefault("width", render.DefaultTerminalWidth)
	v.SetDefault("history_window", config.DefaultChatHistoryWindow)
	v.SetDefault("timeout", 5*time.Minute)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		v.AddConfigPath(filepath.Join(home, ".docsite"))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &s, nil
}
