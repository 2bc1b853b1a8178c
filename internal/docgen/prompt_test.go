package docgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrompt(t *testing.T) {
	tests := []struct {
		name    string
		topic   string
		context string
		want    string
	}{
		{"topic only", "Go modules", "", "Go modules"},
		{"trims", "  Go modules ", "   ", "Go modules"},
		{"with context", "Go modules", "for beginners", "Go modules. Additional context: for beginners"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Prompt(tt.topic, tt.context))
		})
	}
}
