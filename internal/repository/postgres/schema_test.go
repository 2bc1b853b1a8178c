package postgres

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaStatements(t *testing.T) {
	tables := NewTableNames("test_")

	stmts := SchemaStatements(tables)
	require.Len(t, stmts, 3)

	assert.Contains(t, stmts[0], "CREATE TABLE IF NOT EXISTS test_generated_docs")
	assert.Contains(t, stmts[2], "CREATE TABLE IF NOT EXISTS test_doc_sections")
	assert.Contains(t, stmts[2], "REFERENCES test_generated_docs (id) ON DELETE CASCADE")
	assert.Contains(t, stmts[2], "UNIQUE (doc_id, slug)")
	assert.Contains(t, stmts[2], "UNIQUE (doc_id, order_index)")

	for _, stmt := range stmts {
		assert.False(t, strings.Contains(stmt, "{{"), "unreplaced placeholder in %q", stmt)
	}
}

func TestNewTableNames(t *testing.T) {
	tests := []struct {
		prefix   string
		docs     string
		sections string
	}{
		{"", "generated_docs", "doc_sections"},
		{"dev_", "dev_generated_docs", "dev_doc_sections"},
		{"prod_", "prod_generated_docs", "prod_doc_sections"},
	}

	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			names := NewTableNames(tt.prefix)
			assert.Equal(t, tt.docs, names.Docs)
			assert.Equal(t, tt.sections, names.Sections)
		})
	}
}
