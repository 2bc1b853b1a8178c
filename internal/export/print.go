package export

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"docsite/internal/domain/models/docs"
	"docsite/internal/render"
)

//go:embed templates/print.html
var templateFS embed.FS

var printTemplate = template.Must(template.ParseFS(templateFS, "templates/print.html"))

type printSection struct {
	Slug  string
	Title string
	HTML  template.HTML
}

type printPage struct {
	Topic       string
	Description string
	CodeCSS     template.CSS
	Sections    []printSection
}

// PrintHTML writes a standalone HTML document meant for print-to-PDF.
// Section Markdown goes through r, which sanitizes its output.
func PrintHTML(w io.Writer, r *render.Renderer, topic, description string, sections []docs.GeneratedSection) error {
	css, err := r.CodeCSS()
	if err != nil {
		return fmt.Errorf("code css: %w", err)
	}

	page := printPage{
		Topic:       topic,
		Description: description,
		CodeCSS:     template.CSS(css),
	}
	for _, s := range sections {
		html, err := r.Markdown(s.Content)
		if err != nil {
			return fmt.Errorf("render section %q: %w", s.Slug, err)
		}
		page.Sections = append(page.Sections, printSection{
			Slug:  s.Slug,
			Title: s.Title,
			HTML:  template.HTML(html),
		})
	}

	return printTemplate.Execute(w, page)
}
