package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTable_SkipsSeparator(t *testing.T) {
	header, rows := ParseTable("H1|H2\n--|--\nA|B\nC|D")

	assert.Equal(t, []string{"H1", "H2"}, header)
	assert.Equal(t, [][]string{{"A", "B"}, {"C", "D"}}, rows)
}

func TestParseTable_RaggedRowsPassThrough(t *testing.T) {
	header, rows := ParseTable("| a | b | c |\n|---|---|---|\n| 1 |\n| 1 | 2 | 3 | 4 |")

	assert.Equal(t, []string{"a", "b", "c"}, header)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"1"}, rows[0])
	assert.Equal(t, []string{"1", "2", "3", "4"}, rows[1])
}

func TestParseBlocks(t *testing.T) {
	content := "Intro with **bold**.\n\n- one\n- two\n\n1. first\n2. second\n\n| K | V |\n|---|---|\n| a | b |\n\n\n\nTail"

	blocks := ParseBlocks(content)
	require.Len(t, blocks, 5)

	assert.Equal(t, BlockParagraph, blocks[0].Kind)
	assert.Equal(t, "Intro with **bold**.", blocks[0].Text)

	assert.Equal(t, BlockUnorderedList, blocks[1].Kind)
	assert.Equal(t, []string{"one", "two"}, blocks[1].Items)

	assert.Equal(t, BlockOrderedList, blocks[2].Kind)
	assert.Equal(t, []string{"first", "second"}, blocks[2].Items)

	assert.Equal(t, BlockTable, blocks[3].Kind)
	assert.Equal(t, []string{"K", "V"}, blocks[3].Header)
	assert.Equal(t, [][]string{{"a", "b"}}, blocks[3].Rows)

	assert.Equal(t, BlockParagraph, blocks[4].Kind)
}

func TestParseBlocks_PipeWinsOverList(t *testing.T) {
	blocks := ParseBlocks("- a | b")
	require.Len(t, blocks, 1)
	assert.Equal(t, BlockTable, blocks[0].Kind)
}

func TestInlineHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "hello", "hello"},
		{"bold", "a **b** c", "a <strong>b</strong> c"},
		{"code", "run `go test`", "run <code>go test</code>"},
		{"bold inside code untouched", "`**x**`", "<code>**x**</code>"},
		{"escapes", "<b> & \"q\"", "&lt;b&gt; &amp; &quot;q&quot;"},
		{"escapes in code", "`a<b`", "<code>a&lt;b</code>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InlineHTML(tt.in))
		})
	}
}
