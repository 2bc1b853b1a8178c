// Package export writes a generated doc as a single Markdown file or a
// printable HTML page.
package export

import (
	"fmt"
	"regexp"
	"strings"

	"docsite/internal/domain/models/docs"
)

var whitespace = regexp.MustCompile(`\s+`)

// Filename is the download name for the Markdown export of topic.
func Filename(topic string) string {
	return whitespace.ReplaceAllString(strings.ToLower(strings.TrimSpace(topic)), "-") + "-documentation.md"
}

// Markdown renders the doc as one Markdown file: title, description, a
// numbered table of contents linking to named anchors, then every section
// in the given order.
func Markdown(topic, description string, sections []docs.GeneratedSection) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", topic)
	fmt.Fprintf(&b, "> %s\n\n", description)
	b.WriteString("---\n\n")
	b.WriteString("## Table of Contents\n\n")
	for i, s := range sections {
		fmt.Fprintf(&b, "%d. [%s](#%s)\n", i+1, s.Title, s.Slug)
	}
	b.WriteString("\n---\n\n")

	for _, s := range sections {
		fmt.Fprintf(&b, "<a name=\"%s\"></a>\n\n", s.Slug)
		b.WriteString(s.Content)
		b.WriteString("\n\n---\n\n")
	}

	return b.String()
}
