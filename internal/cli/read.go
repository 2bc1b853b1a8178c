package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"docsite/internal/content"
	"docsite/internal/domain"
	"docsite/internal/domain/models/docs"
	"docsite/internal/navigation"
	"docsite/internal/render"
)

func newReadCmd(a *app) *cobra.Command {
	var docID string

	cmd := &cobra.Command{
		Use:   "read [category[/page] | section]",
		Short: "Read a documentation page in the terminal",
		Long: "Reads a static page by category/page. With --doc, reads a section of a " +
			"saved generated doc instead. Without arguments, lists the table of contents.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			arg := ""
			if len(args) == 1 {
				arg = args[0]
			}

			term, err := render.NewTerminal(a.settings.Width)
			if err != nil {
				return err
			}

			if docID != "" {
				doc, err := a.client().GetDoc(cmd.Context(), docID)
				if err != nil {
					return err
				}
				return readGenerated(cmd.OutOrStdout(), term, doc, arg)
			}

			catalog, err := content.Load()
			if err != nil {
				return err
			}
			if arg == "" {
				printContents(cmd.OutOrStdout(), catalog.Categories())
				return nil
			}
			return readStatic(cmd.OutOrStdout(), term, catalog, arg)
		},
	}

	cmd.Flags().StringVar(&docID, "doc", "", "read a saved generated doc by id")
	return cmd
}

// readStatic prints one static page. A bare category opens its default page.
func readStatic(w io.Writer, term *render.Terminal, catalog *content.Catalog, route string) error {
	categorySlug, pageSlug, _ := strings.Cut(strings.Trim(route, "/"), "/")
	if pageSlug == "" {
		pageSlug = content.DefaultPage
	}

	entries := navigation.Flatten("/docs", catalog.Categories())
	crumbs := []string{"Docs"}
	var prev, next *navigation.Entry
	if i, ok := navigation.Locate(entries, categorySlug, pageSlug); ok {
		crumbs = append(crumbs, entries[i].CategoryTitle, entries[i].Page.Title)
		prev, next = navigation.Neighbors(entries, i)
	}

	return printPage(w, term, crumbs, catalog.Resolve(categorySlug, pageSlug), prev, next)
}

// readGenerated prints one section of a generated doc, the first when slug is empty.
func readGenerated(w io.Writer, term *render.Terminal, doc *docs.GeneratedDocWithSections, slug string) error {
	gen := content.FromGenerated(doc.GeneratedDoc, doc.Sections)
	if slug == "" {
		slug = gen.FirstSlug()
	}
	page, ok := gen.Resolve(slug)
	if !ok {
		return &domain.NotFoundError{Message: fmt.Sprintf("section %q not found in %s", slug, doc.Topic)}
	}

	entries := navigation.Flatten("/generated", gen.Navigation())
	crumbs := []string{"Library", doc.Topic}
	var prev, next *navigation.Entry
	if i, ok := navigation.Locate(entries, doc.ID, slug); ok {
		crumbs = append(crumbs, entries[i].Page.Title)
		prev, next = navigation.Neighbors(entries, i)
	}

	return printPage(w, term, crumbs, page, prev, next)
}

func printPage(w io.Writer, term *render.Terminal, crumbs []string, page docs.PageContent, prev, next *navigation.Entry) error {
	body, err := term.Page(page)
	if err != nil {
		return err
	}

	var prevTitle, nextTitle string
	if prev != nil {
		prevTitle = prev.Page.Title
	}
	if next != nil {
		nextTitle = next.Page.Title
	}

	fmt.Fprintln(w, term.Breadcrumbs(crumbs...))
	fmt.Fprint(w, body)
	if footer := term.Footer(prevTitle, nextTitle); footer != "" {
		fmt.Fprintln(w, footer)
	}
	return nil
}

func printContents(w io.Writer, categories []docs.DocCategory) {
	for _, cat := range categories {
		fmt.Fprintln(w, cat.Title)
		for _, page := range cat.Pages {
			fmt.Fprintf(w, "  %-28s %s/%s\n", page.Title, cat.Slug, page.Slug)
		}
	}
}
