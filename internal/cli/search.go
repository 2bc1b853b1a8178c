package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"docsite/internal/content"
	"docsite/internal/navigation"
)

func newSearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search [query]",
		Short: "Search the static documentation",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := content.Load()
			if err != nil {
				return err
			}

			query := strings.Join(args, " ")
			results := navigation.Search(navigation.Flatten("/docs", catalog.Categories()), query)
			out := cmd.OutOrStdout()
			if len(results) == 0 {
				fmt.Fprintf(out, "No results for %q\n", query)
				return nil
			}
			for _, e := range results {
				fmt.Fprintf(out, "%s › %s  (%s/%s)\n", e.CategoryTitle, e.Page.Title, e.CategorySlug, e.Page.Slug)
				if e.Page.Description != "" {
					fmt.Fprintf(out, "    %s\n", e.Page.Description)
				}
			}
			return nil
		},
	}
}
