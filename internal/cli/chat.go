package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"docsite/internal/client/chat"
)

func newChatCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "chat [message]",
		Short: "Ask the documentation assistant",
		Long: "With a message, asks one question and exits. Without one, starts an " +
			"interactive session; type exit or press Ctrl-D to leave.",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
			session := chat.NewSession(a.client(),
				chat.WithHistoryWindow(a.settings.HistoryWindow),
				chat.WithDeltaHandler(func(delta string) { fmt.Fprint(out, delta) }),
			)

			send := func(message string) {
				err := session.Send(cmd.Context(), message)
				fmt.Fprintln(out)
				if err != nil {
					a.logger.Debug("chat turn failed", "error", err)
					fmt.Fprintln(errOut, chat.FailureMessage(err))
				}
			}

			if len(args) > 0 {
				send(strings.Join(args, " "))
				return nil
			}

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for {
				fmt.Fprint(out, "> ")
				if !scanner.Scan() {
					fmt.Fprintln(out)
					return scanner.Err()
				}
				line := strings.TrimSpace(scanner.Text())
				switch line {
				case "":
					continue
				case "exit", "quit":
					return nil
				}
				send(line)
				if cmd.Context().Err() != nil {
					return cmd.Context().Err()
				}
			}
		},
	}
}
