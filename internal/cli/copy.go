package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"docsite/internal/content"
	"docsite/internal/domain"
	"docsite/internal/domain/models/docs"
	"docsite/internal/render"
)

const copyPollInterval = 100 * time.Millisecond

func newCopyCmd(a *app) *cobra.Command {
	var index int

	cmd := &cobra.Command{
		Use:   "copy <category/page>",
		Short: "Copy a page's code sample to the clipboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := content.Load()
			if err != nil {
				return err
			}

			categorySlug, pageSlug, _ := strings.Cut(strings.Trim(args[0], "/"), "/")
			if pageSlug == "" {
				pageSlug = content.DefaultPage
			}
			sample, err := codeSample(catalog.Resolve(categorySlug, pageSlug), index)
			if err != nil {
				return err
			}

			copier := render.NewCopier(nil, nil)
			if err := copier.Copy(sample.Content); err != nil {
				return err
			}

			term, err := render.NewTerminal(a.settings.Width)
			if err != nil {
				return err
			}
			label := sample.Title
			if label == "" {
				label = render.CanonicalLanguage(sample.Language)
			}
			out := cmd.OutOrStdout()
			showCopied(cmd.Context(), out, copier, term.Status("✓ Copied! "+label), copyPollInterval)
			fmt.Fprintf(out, "%s is on the clipboard\n", label)
			return nil
		},
	}

	cmd.Flags().IntVar(&index, "index", 1, "which code sample on the page, starting at 1")
	return cmd
}

// showCopied prints the copied indicator and erases it once the copier
// reverts, or when ctx is done.
func showCopied(ctx context.Context, w io.Writer, copier *render.Copier, status string, poll time.Duration) {
	fmt.Fprint(w, status)

	ticker := time.NewTicker(poll)
	defer ticker.Stop()
wait:
	for copier.Copied() {
		select {
		case <-ctx.Done():
			break wait
		case <-ticker.C:
		}
	}

	fmt.Fprint(w, "\r"+strings.Repeat(" ", lipgloss.Width(status))+"\r")
}

// codeSample returns the index-th (1-based) code sample of page.
func codeSample(page docs.PageContent, index int) (docs.CodeSample, error) {
	var samples []docs.CodeSample
	for _, s := range page.Sections {
		if s.Code != nil {
			samples = append(samples, *s.Code)
		}
	}
	if len(samples) == 0 {
		return docs.CodeSample{}, &domain.NotFoundError{Message: fmt.Sprintf("%q has no code samples", page.Title)}
	}
	if index < 1 || index > len(samples) {
		return docs.CodeSample{}, domain.NewValidationError("index must be between 1 and %d", len(samples))
	}
	return samples[index-1], nil
}
