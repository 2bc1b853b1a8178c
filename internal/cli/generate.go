package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"docsite/internal/client"
	"docsite/internal/export"
	"docsite/internal/render"
)

func newGenerateCmd(a *app) *cobra.Command {
	var (
		extra    string
		save     bool
		markdown bool
	)

	cmd := &cobra.Command{
		Use:   "generate <topic>",
		Short: "Generate documentation for a topic",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
			req := client.GenerateRequest{
				Topic:   strings.Join(args, " "),
				Context: extra,
				Save:    save,
			}

			result, err := a.client().GenerateWithProgress(cmd.Context(), req, func(p int) {
				fmt.Fprintf(errOut, "\rGenerating documentation... %3d%%", p)
			})
			fmt.Fprintln(errOut)
			if err != nil {
				return err
			}

			if markdown {
				_, err := fmt.Fprint(out, export.Markdown(result.Topic, result.Description, result.Sections))
				return err
			}

			term, err := render.NewTerminal(a.settings.Width)
			if err != nil {
				return err
			}
			for _, s := range result.Sections {
				text, err := term.Markdown(s.Content)
				if err != nil {
					return err
				}
				fmt.Fprint(out, text)
			}
			if result.DocID != "" {
				fmt.Fprintln(out, term.Status("Saved as "+result.DocID))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&extra, "context", "", "additional context for the generator")
	cmd.Flags().BoolVar(&save, "save", true, "save the result to the library")
	cmd.Flags().BoolVar(&markdown, "markdown", false, "print raw Markdown instead of rendering it")
	return cmd
}
