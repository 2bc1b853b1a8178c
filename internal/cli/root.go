// Package cli implements docsctl, the terminal client for the docs server.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"docsite/internal/client"
)

type app struct {
	cfgFile  string
	debug    bool
	v        *viper.Viper
	settings *Settings
	logger   *slog.Logger
}

// Execute runs docsctl with os.Args.
func Execute() {
	if err := NewRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:           "docsctl",
		Short:         "Read, generate, and chat about documentation from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd.ErrOrStderr())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is ~/.docsite/config.yaml)")
	flags.BoolVar(&a.debug, "debug", false, "enable debug logging")
	flags.String("base-url", "", "docs server URL")
	flags.String("token", "", "bearer token for the docs server")
	flags.Int("width", 0, "terminal wrap width")
	_ = a.v.BindPFlag("base_url", flags.Lookup("base-url"))
	_ = a.v.BindPFlag("token", flags.Lookup("token"))
	_ = a.v.BindPFlag("width", flags.Lookup("width"))

	root.AddCommand(
		newGenerateCmd(a),
		newChatCmd(a),
		newReadCmd(a),
		newSearchCmd(a),
		newCopyCmd(a),
		newListCmd(a),
		newDeleteCmd(a),
		newExportCmd(a),
	)
	return root
}

func (a *app) init(stderr io.Writer) error {
	level := slog.LevelWarn
	if a.debug {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	s, err := loadSettings(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	a.settings = s
	a.logger.Debug("config loaded", "base_url", s.BaseURL, "config_file", a.v.ConfigFileUsed())
	return nil
}

func (a *app) client() *client.Client {
	return client.New(a.settings.BaseURL, a.settings.Token,
		client.WithHTTPClient(&http.Client{Timeout: a.settings.Timeout}),
		client.WithLogger(a.logger),
	)
}
