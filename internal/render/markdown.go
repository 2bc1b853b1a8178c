// Package render turns documentation content into HTML and terminal output.
//
// Static pages use a light block grammar (ParseBlocks); generated docs are
// full Markdown rendered by goldmark. Both agree on paragraphs, bold, inline
// code, lists, and pipe tables. Code is highlighted by chroma in both.
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"

	"docsite/internal/domain/models/docs"
)

// Renderer renders both content formats to sanitized HTML.
type Renderer struct {
	md        goldmark.Markdown
	code      *CodeView
	sanitizer *HTMLSanitizer
}

// NewRenderer creates a renderer that highlights code with the given chroma style.
func NewRenderer(codeStyle string) *Renderer {
	code := NewCodeView(codeStyle)
	return &Renderer{
		code:      code,
		sanitizer: NewHTMLSanitizer(),
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			goldmark.WithRendererOptions(
				renderer.WithNodeRenderers(util.Prioritized(&fencedCodeRenderer{code: code}, 200)),
			),
		),
	}
}

// Markdown renders Markdown source.
func (r *Renderer) Markdown(source string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return r.sanitizer.Sanitize(buf.String()), nil
}

// Blocks renders light-markup content.
func (r *Renderer) Blocks(content string) string {
	return r.sanitizer.Sanitize(BlocksHTML(ParseBlocks(content)))
}

// Code renders a code sample with its title and language label.
func (r *Renderer) Code(sample docs.CodeSample) (string, error) {
	highlighted, err := r.code.HTML(sample.Content, sample.Language)
	if err != nil {
		return "", err
	}
	return r.sanitizer.Sanitize(codeBlockHTML(sample.Title, sample.Language, sample.Content, highlighted)), nil
}

// CodeCSS returns the stylesheet for highlighted code.
func (r *Renderer) CodeCSS() (string, error) {
	return r.code.CSS()
}

func codeBlockHTML(title, language, source, highlighted string) string {
	var b bytes.Buffer
	b.WriteString(`<div class="code-block"><div class="code-header">`)
	if title != "" {
		b.WriteString(`<span class="code-title">` + htmlEscaper.Replace(title) + `</span>`)
	}
	if language != "" {
		b.WriteString(`<span class="code-lang">` + htmlEscaper.Replace(CanonicalLanguage(language)) + `</span>`)
	}
	b.WriteString(copyButtonHTML(source))
	b.WriteString(`</div>`)
	b.WriteString(highlighted)
	b.WriteString(`</div>`)
	return b.String()
}

// copyButtonHTML carries the trimmed source and the feedback window for
// the page script in base.html.
func copyButtonHTML(source string) string {
	return fmt.Sprintf(`<button type="button" class="copy-button" data-copy="%s" data-feedback-ms="%d">Copy</button>`,
		htmlEscaper.Replace(strings.TrimSpace(source)), CopyFeedbackWindow.Milliseconds())
}

// fencedCodeRenderer replaces goldmark's fenced code output with CodeView.
type fencedCodeRenderer struct {
	code *CodeView
}

func (r *fencedCodeRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.renderFencedCode)
}

func (r *fencedCodeRenderer) renderFencedCode(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}

	n := node.(*ast.FencedCodeBlock)
	language := string(n.Language(source))

	var code bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		code.Write(line.Value(source))
	}

	highlighted, err := r.code.HTML(code.String(), language)
	if err != nil {
		return ast.WalkStop, err
	}

	_, _ = w.WriteString(codeBlockHTML("", language, code.String(), highlighted))
	_, _ = w.WriteString("\n")
	return ast.WalkSkipChildren, nil
}
