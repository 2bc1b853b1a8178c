package render

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// DefaultCodeStyle is the chroma style used when none is configured.
const DefaultCodeStyle = "dracula"

// CodeView renders line-numbered, syntax-highlighted code. Output uses CSS
// classes; CSS returns the matching stylesheet.
type CodeView struct {
	style     *chroma.Style
	formatter *html.Formatter
}

// NewCodeView creates a code view for the named chroma style.
// Unknown style names fall back to chroma's default.
func NewCodeView(styleName string) *CodeView {
	if styleName == "" {
		styleName = DefaultCodeStyle
	}
	return &CodeView{
		style: styles.Get(styleName),
		formatter: html.New(
			html.WithClasses(true),
			html.WithLineNumbers(true),
			html.TabWidth(2),
		),
	}
}

// Lexer returns the lexer for a fence language after alias normalization.
func Lexer(language string) chroma.Lexer {
	lexer := lexers.Get(CanonicalLanguage(language))
	if lexer == nil {
		lexer = lexers.Fallback
	}
	return chroma.Coalesce(lexer)
}

// HTML highlights code. Surrounding whitespace is trimmed first.
func (v *CodeView) HTML(code, language string) (string, error) {
	iterator, err := Lexer(language).Tokenise(nil, strings.TrimSpace(code))
	if err != nil {
		return "", fmt.Errorf("tokenise %s: %w", language, err)
	}

	var b strings.Builder
	if err := v.formatter.Format(&b, v.style, iterator); err != nil {
		return "", fmt.Errorf("format code: %w", err)
	}
	return b.String(), nil
}

// CSS returns the stylesheet for the classes HTML emits.
func (v *CodeView) CSS() (string, error) {
	var b strings.Builder
	if err := v.formatter.WriteCSS(&b, v.style); err != nil {
		return "", fmt.Errorf("write code css: %w", err)
	}
	return b.String(), nil
}
