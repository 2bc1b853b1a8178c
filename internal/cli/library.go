package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"docsite/internal/domain"
	"docsite/internal/domain/models/docs"
	"docsite/internal/export"
	"docsite/internal/render"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list [query]",
		Short: "List saved documentation, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := a.client().ListDocs(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(list) == 0 {
				fmt.Fprintln(out, "(no saved documentation)")
				return nil
			}
			fmt.Fprintln(out, docsTable(list))
			return nil
		},
	}
}

func docsTable(list []docs.GeneratedDoc) string {
	header := lipgloss.NewStyle().Bold(true)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "TOPIC", "CREATED").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return lipgloss.NewStyle()
		})
	for _, d := range list {
		t.Row(d.ID, d.Topic, d.CreatedAt.Format("2006-01-02 15:04"))
	}
	return t.String()
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved doc and its sections",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client().DeleteDoc(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}

func newExportCmd(a *app) *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Export a saved doc as Markdown or printable HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.client().GetDoc(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			data, name, err := exportDoc(doc, format)
			if err != nil {
				return err
			}
			if output == "" {
				output = name
			}
			if output == "-" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "md", "md or html")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, - for stdout (default derived from the topic)")
	return cmd
}

// exportDoc renders doc in format and returns the bytes and default file name.
func exportDoc(doc *docs.GeneratedDocWithSections, format string) ([]byte, string, error) {
	name := export.Filename(doc.Topic)
	switch format {
	case "md", "markdown":
		return []byte(export.Markdown(doc.Topic, doc.Description, doc.Sections)), name, nil
	case "html":
		var buf bytes.Buffer
		if err := writeHTML(&buf, doc); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), strings.TrimSuffix(name, ".md") + ".html", nil
	}
	return nil, "", domain.NewValidationError("unknown export format %q", format)
}

func writeHTML(w io.Writer, doc *docs.GeneratedDocWithSections) error {
	return export.PrintHTML(w, render.NewRenderer(""), doc.Topic, doc.Description, doc.Sections)
}
