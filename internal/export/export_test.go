package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docsite/internal/domain/models/docs"
	"docsite/internal/render"
)

var sections = []docs.GeneratedSection{
	{Slug: "intro", Title: "Introduction", Content: "## Introduction\n\nHello **world**."},
	{Slug: "usage", Title: "Usage", Content: "```go\nfmt.Println(1)\n```"},
}

func TestFilename(t *testing.T) {
	tests := []struct {
		topic string
		want  string
	}{
		{"React Hooks", "react-hooks-documentation.md"},
		{"  Go   Generics ", "go-generics-documentation.md"},
		{"kubernetes", "kubernetes-documentation.md"},
	}
	for _, tt := range tests {
		t.Run(tt.topic, func(t *testing.T) {
			assert.Equal(t, tt.want, Filename(tt.topic))
		})
	}
}

func TestMarkdown(t *testing.T) {
	got := Markdown("Go", "About Go", sections)

	want := "# Go\n\n" +
		"> About Go\n\n" +
		"---\n\n" +
		"## Table of Contents\n\n" +
		"1. [Introduction](#intro)\n" +
		"2. [Usage](#usage)\n" +
		"\n---\n\n" +
		"<a name=\"intro\"></a>\n\n" +
		"## Introduction\n\nHello **world**." +
		"\n\n---\n\n" +
		"<a name=\"usage\"></a>\n\n" +
		"```go\nfmt.Println(1)\n```" +
		"\n\n---\n\n"
	assert.Equal(t, want, got)
}

func TestPrintHTML(t *testing.T) {
	var buf bytes.Buffer
	err := PrintHTML(&buf, render.NewRenderer(""), "Go <script>", "About Go", sections)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "<title>Go &lt;script&gt; Documentation</title>")
	assert.Contains(t, out, `<a href="#intro">Introduction</a>`)
	assert.Contains(t, out, "<strong>world</strong>")
	assert.Contains(t, out, `class="code-block"`)
	assert.Less(t, bytes.Index(buf.Bytes(), []byte(`id="intro"`)), bytes.Index(buf.Bytes(), []byte(`id="usage"`)))
}
