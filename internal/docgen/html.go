package docgen

import (
	"fmt"
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"

	"docsite/internal/render"
)

var htmlBlockStart = regexp.MustCompile(`(?i)^<(p|div|h[1-6]|ul|ol|pre|table|section|article|blockquote)[\s>]`)

// LooksLikeHTML reports whether section content was written as an HTML
// fragment instead of Markdown.
func LooksLikeHTML(content string) bool {
	return htmlBlockStart.MatchString(strings.TrimSpace(content))
}

// HTMLConverter rewrites HTML section content as Markdown. Content is
// sanitized before conversion.
type HTMLConverter struct {
	sanitizer *render.HTMLSanitizer
	converter *md.Converter
}

// NewHTMLConverter creates a converter with the UGC sanitizer policy.
func NewHTMLConverter() *HTMLConverter {
	return &HTMLConverter{
		sanitizer: render.NewHTMLSanitizer(),
		converter: md.NewConverter("", true, nil),
	}
}

// Convert returns content unchanged unless it looks like HTML.
func (c *HTMLConverter) Convert(content string) (string, error) {
	if !LooksLikeHTML(content) {
		return content, nil
	}

	markdown, err := c.converter.ConvertString(c.sanitizer.Sanitize(content))
	if err != nil {
		return "", fmt.Errorf("failed to convert HTML to markdown: %w", err)
	}
	return markdown, nil
}

// Normalize converts every HTML section of gen in place.
func (c *HTMLConverter) Normalize(gen *Generation) error {
	for i := range gen.Sections {
		content, err := c.Convert(gen.Sections[i].Content)
		if err != nil {
			return fmt.Errorf("section %q: %w", gen.Sections[i].Slug, err)
		}
		gen.Sections[i].Content = content
	}
	return nil
}
