package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/lipgloss"

	"docsite/internal/domain/models/docs"
)

// DefaultTerminalWidth is the word-wrap width used when the terminal size is unknown.
const DefaultTerminalWidth = 100

// Terminal renders pages for an ANSI terminal.
type Terminal struct {
	renderer *glamour.TermRenderer
	crumb    lipgloss.Style
	muted    lipgloss.Style
	accent   lipgloss.Style
}

// NewTerminal creates a terminal renderer wrapping at width columns.
// The style is static so no terminal queries are issued.
func NewTerminal(width int) (*Terminal, error) {
	if width <= 0 {
		width = DefaultTerminalWidth
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStyles(terminalStyle()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, fmt.Errorf("create terminal renderer: %w", err)
	}
	return &Terminal{
		renderer: renderer,
		crumb:    lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		accent:   lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true),
	}, nil
}

// Markdown renders Markdown source.
func (t *Terminal) Markdown(source string) (string, error) {
	out, err := t.renderer.Render(source)
	if err != nil {
		return "", fmt.Errorf("render terminal markdown: %w", err)
	}
	return strings.TrimRight(out, "\n"), nil
}

// Page renders a whole page.
func (t *Terminal) Page(page docs.PageContent) (string, error) {
	return t.Markdown(PageMarkdown(page))
}

// Breadcrumbs renders labels joined by arrows.
func (t *Terminal) Breadcrumbs(labels ...string) string {
	return t.crumb.Render(strings.Join(labels, " → "))
}

// Footer renders previous/next links. Empty titles are omitted.
func (t *Terminal) Footer(prevTitle, nextTitle string) string {
	var parts []string
	if prevTitle != "" {
		parts = append(parts, t.muted.Render("← "+prevTitle))
	}
	if nextTitle != "" {
		parts = append(parts, t.accent.Render(nextTitle+" →"))
	}
	return strings.Join(parts, "    ")
}

// Status renders a short status line such as the copy acknowledgement.
func (t *Terminal) Status(text string) string {
	return t.accent.Render(text)
}

// PageMarkdown lays a page out as Markdown: title, description, then each
// section with its optional code sample.
func PageMarkdown(page docs.PageContent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", page.Title)
	if page.Description != "" {
		fmt.Fprintf(&b, "> %s\n\n", page.Description)
	}
	for _, section := range page.Sections {
		if section.Title != "" && section.Title != page.Title {
			fmt.Fprintf(&b, "## %s\n\n", section.Title)
		}
		if section.Content != "" {
			b.WriteString(strings.TrimSpace(section.Content))
			b.WriteString("\n\n")
		}
		if section.Code != nil {
			fmt.Fprintf(&b, "```%s\n%s\n```\n\n", CanonicalLanguage(section.Code.Language), strings.TrimSpace(section.Code.Content))
		}
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

func terminalStyle() ansi.StyleConfig {
	return ansi.StyleConfig{
		Document: ansi.StyleBlock{
			Margin: uintPtr(0),
		},
		Heading: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				Color: stringPtr("39"),
				Bold:  boolPtr(true),
			},
		},
		H1: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{Prefix: "# "},
		},
		H2: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{Prefix: "## "},
		},
		H3: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{Prefix: "### "},
		},
		BlockQuote: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				Color:  stringPtr("244"),
				Italic: boolPtr(true),
			},
			Indent:      uintPtr(1),
			IndentToken: stringPtr("│ "),
		},
		Paragraph: ansi.StyleBlock{
			Margin: uintPtr(0),
		},
		List: ansi.StyleList{
			LevelIndent: 2,
		},
		Item: ansi.StylePrimitive{
			BlockPrefix: "• ",
		},
		Enumeration: ansi.StylePrimitive{
			BlockPrefix: ". ",
		},
		Code: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{Color: stringPtr("203")},
		},
		CodeBlock: ansi.StyleCodeBlock{
			StyleBlock: ansi.StyleBlock{
				StylePrimitive: ansi.StylePrimitive{Color: stringPtr("244")},
				Margin:         uintPtr(1),
			},
			Chroma: &ansi.Chroma{
				Text:          ansi.StylePrimitive{Color: stringPtr("#d0d0d0")},
				Keyword:       ansi.StylePrimitive{Color: stringPtr("#00afff")},
				Name:          ansi.StylePrimitive{Color: stringPtr("#87d7ff")},
				LiteralString: ansi.StylePrimitive{Color: stringPtr("#5fd75f")},
				LiteralNumber: ansi.StylePrimitive{Color: stringPtr("#d7005f")},
				Comment:       ansi.StylePrimitive{Color: stringPtr("#626262")},
			},
		},
		Table: ansi.StyleTable{
			CenterSeparator: stringPtr("│"),
			ColumnSeparator: stringPtr("│"),
			RowSeparator:    stringPtr("─"),
		},
		Emph:   ansi.StylePrimitive{Italic: boolPtr(true)},
		Strong: ansi.StylePrimitive{Bold: boolPtr(true)},
		Link: ansi.StylePrimitive{
			Color:     stringPtr("39"),
			Underline: boolPtr(true),
		},
		LinkText: ansi.StylePrimitive{Color: stringPtr("45")},
	}
}

func stringPtr(s string) *string { return &s }
func boolPtr(b bool) *bool       { return &b }
func uintPtr(u uint) *uint       { return &u }
