package render

import (
	"regexp"
	"strings"
)

// BlockKind identifies how a content block is rendered.
type BlockKind int

const (
	BlockParagraph BlockKind = iota
	BlockUnorderedList
	BlockOrderedList
	BlockTable
)

// Block is one unit of the light markup used by static pages.
type Block struct {
	Kind BlockKind

	// Text holds the paragraph source.
	Text string

	// Items holds list entries with their markers removed.
	Items []string

	// Header and Rows hold table cells. Rows are not checked against the
	// header width.
	Header []string
	Rows   [][]string
}

var (
	orderedItem = regexp.MustCompile(`^\d+\. `)
	listMarker  = regexp.MustCompile(`^(- |\d+\. )`)
)

// ParseBlocks splits content on blank lines and classifies each block.
//
// A block containing "|" is a table: line 0 is the header, line 1 is the
// separator and is always skipped, and every later line is a row. A block
// starting with "- " is an unordered list and one starting with "N. " an
// ordered list, with every line an item. Anything else is a paragraph.
func ParseBlocks(content string) []Block {
	var blocks []Block
	for _, raw := range strings.Split(content, "\n\n") {
		block := strings.TrimSpace(raw)
		if block == "" {
			continue
		}

		switch {
		case strings.Contains(block, "|"):
			header, rows := ParseTable(block)
			blocks = append(blocks, Block{Kind: BlockTable, Header: header, Rows: rows})
		case strings.HasPrefix(block, "- "):
			blocks = append(blocks, Block{Kind: BlockUnorderedList, Items: listItems(block)})
		case orderedItem.MatchString(block):
			blocks = append(blocks, Block{Kind: BlockOrderedList, Items: listItems(block)})
		default:
			blocks = append(blocks, Block{Kind: BlockParagraph, Text: block})
		}
	}
	return blocks
}

// ParseTable splits a pipe table into header cells and data rows.
func ParseTable(block string) (header []string, rows [][]string) {
	lines := strings.Split(block, "\n")
	header = splitRow(lines[0])
	if len(lines) > 2 {
		for _, line := range lines[2:] {
			rows = append(rows, splitRow(line))
		}
	}
	return header, rows
}

// splitRow splits on "|" and drops cells that are empty after trimming,
// which removes the edges of "| a | b |".
func splitRow(line string) []string {
	var cells []string
	for _, cell := range strings.Split(line, "|") {
		if cell = strings.TrimSpace(cell); cell != "" {
			cells = append(cells, cell)
		}
	}
	return cells
}

func listItems(block string) []string {
	lines := strings.Split(block, "\n")
	items := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		items = append(items, listMarker.ReplaceAllString(line, ""))
	}
	return items
}

var (
	inlineCode = regexp.MustCompile("`([^`]+)`")
	boldSpan   = regexp.MustCompile(`\*\*(.+?)\*\*`)

	htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
)

// InlineHTML escapes text and renders **bold** and `code` spans.
// Bold markers inside code spans are left alone.
func InlineHTML(text string) string {
	var b strings.Builder
	last := 0
	for _, m := range inlineCode.FindAllStringSubmatchIndex(text, -1) {
		b.WriteString(boldHTML(text[last:m[0]]))
		b.WriteString("<code>")
		b.WriteString(htmlEscaper.Replace(text[m[2]:m[3]]))
		b.WriteString("</code>")
		last = m[1]
	}
	b.WriteString(boldHTML(text[last:]))
	return b.String()
}

func boldHTML(text string) string {
	return boldSpan.ReplaceAllString(htmlEscaper.Replace(text), "<strong>$1</strong>")
}

// BlocksHTML renders parsed blocks as HTML.
func BlocksHTML(blocks []Block) string {
	var b strings.Builder
	for _, block := range blocks {
		switch block.Kind {
		case BlockParagraph:
			b.WriteString("<p>" + InlineHTML(block.Text) + "</p>\n")
		case BlockUnorderedList:
			writeList(&b, "ul", block.Items)
		case BlockOrderedList:
			writeList(&b, "ol", block.Items)
		case BlockTable:
			writeTable(&b, block.Header, block.Rows)
		}
	}
	return b.String()
}

func writeList(b *strings.Builder, tag string, items []string) {
	b.WriteString("<" + tag + ">\n")
	for _, item := range items {
		b.WriteString("<li>" + InlineHTML(item) + "</li>\n")
	}
	b.WriteString("</" + tag + ">\n")
}

func writeTable(b *strings.Builder, header []string, rows [][]string) {
	b.WriteString("<table>\n<thead>\n<tr>\n")
	for _, cell := range header {
		b.WriteString("<th>" + InlineHTML(cell) + "</th>\n")
	}
	b.WriteString("</tr>\n</thead>\n")
	if len(rows) > 0 {
		b.WriteString("<tbody>\n")
		for _, row := range rows {
			b.WriteString("<tr>\n")
			for _, cell := range row {
				b.WriteString("<td>" + InlineHTML(cell) + "</td>\n")
			}
			b.WriteString("</tr>\n")
		}
		b.WriteString("</tbody>\n")
	}
	b.WriteString("</table>\n")
}
