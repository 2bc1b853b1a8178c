package llmgo

import (
	"errors"
	"reflect"
	"testing"

	llmprovider "github.com/haowjy/meridian-llm-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docsite/internal/domain"
	"docsite/internal/domain/models/docs"
	domainllm "docsite/internal/domain/services/llm"
)

func strPtr(s string) *string { return &s }

// deltaEvent builds a library stream event carrying one delta.
func deltaEvent(deltaType string, text *string) llmprovider.StreamEvent {
	var event llmprovider.StreamEvent
	field := reflect.ValueOf(&event).Elem().FieldByName("Delta")
	field.Set(reflect.New(field.Type().Elem()))
	event.Delta.DeltaType = deltaType
	event.Delta.TextDelta = text
	return event
}

func TestToLibraryRequest(t *testing.T) {
	req := &domainllm.CompletionRequest{
		Model:  "claude-haiku-4-5",
		System: "Answer briefly.",
		Messages: []docs.ChatMessage{
			{Role: docs.RoleUser, Content: "How do I install it?"},
			{Role: docs.RoleAssistant, Content: "Run the installer."},
		},
		Temperature: domainllm.Float(0.3),
	}

	libReq, err := toLibraryRequest(req)
	require.NoError(t, err)

	assert.Equal(t, "claude-haiku-4-5", libReq.Model)
	require.Len(t, libReq.Messages, 2)
	for i, want := range req.Messages {
		msg := libReq.Messages[i]
		assert.Equal(t, want.Role, msg.Role)
		require.Len(t, msg.Blocks, 1)
		assert.Equal(t, blockTypeText, msg.Blocks[0].BlockType)
		require.NotNil(t, msg.Blocks[0].TextContent)
		assert.Equal(t, want.Content, *msg.Blocks[0].TextContent)
	}

	require.NotNil(t, libReq.Params)
	require.NotNil(t, libReq.Params.System)
	assert.Equal(t, "Answer briefly.", *libReq.Params.System)
	require.NotNil(t, libReq.Params.MaxTokens)
	assert.Equal(t, defaultMaxTokens, *libReq.Params.MaxTokens)
	require.NotNil(t, libReq.Params.Temperature)
	assert.InDelta(t, 0.3, *libReq.Params.Temperature, 1e-9)
}

func TestToLibraryRequest_Errors(t *testing.T) {
	tests := []struct {
		name     string
		messages []docs.ChatMessage
		wantErr  string
	}{
		{name: "system role in history", messages: []docs.ChatMessage{{Role: "system", Content: "x"}}, wantErr: "unsupported role 'system'"},
		{name: "unknown role after valid turn", messages: []docs.ChatMessage{{Role: docs.RoleUser, Content: "hi"}, {Role: "tool", Content: "x"}}, wantErr: "message 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := toLibraryRequest(&domainllm.CompletionRequest{Model: "m", Messages: tt.messages})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestToLibraryRequest_NoSystemKeepsMaxTokens(t *testing.T) {
	libReq, err := toLibraryRequest(&domainllm.CompletionRequest{
		Model:     "m",
		MaxTokens: 256,
		Messages:  []docs.ChatMessage{{Role: docs.RoleUser, Content: "hi"}},
	})
	require.NoError(t, err)
	assert.Nil(t, libReq.Params.System)
	assert.Nil(t, libReq.Params.Temperature)
	require.NotNil(t, libReq.Params.MaxTokens)
	assert.Equal(t, 256, *libReq.Params.MaxTokens)
}

func TestFromLibraryResponse_JoinsTextBlocks(t *testing.T) {
	resp := &llmprovider.GenerateResponse{
		Blocks: []*llmprovider.Block{
			{BlockType: "thinking", TextContent: strPtr("let me see")},
			{BlockType: blockTypeText, TextContent: strPtr("Hello, ")},
			nil,
			{BlockType: blockTypeText},
			{BlockType: blockTypeText, TextContent: strPtr("world")},
		},
		Model:        "claude-haiku-4-5",
		InputTokens:  12,
		OutputTokens: 3,
		StopReason:   "end_turn",
	}

	got := fromLibraryResponse(resp)
	assert.Equal(t, &domainllm.Completion{
		Content:      "Hello, world",
		Model:        "claude-haiku-4-5",
		InputTokens:  12,
		OutputTokens: 3,
		StopReason:   "end_turn",
	}, got)
}

func TestFromLibraryEvent(t *testing.T) {
	tests := []struct {
		name      string
		event     llmprovider.StreamEvent
		wantOK    bool
		wantDelta string
	}{
		{name: "text delta", event: deltaEvent(deltaTypeText, strPtr("chunk")), wantOK: true, wantDelta: "chunk"},
		{name: "thinking delta dropped", event: deltaEvent("thinking_delta", strPtr("hmm"))},
		{name: "empty text dropped", event: deltaEvent(deltaTypeText, strPtr(""))},
		{name: "nil text dropped", event: deltaEvent(deltaTypeText, nil)},
		{name: "no delta", event: llmprovider.StreamEvent{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := fromLibraryEvent(tt.event)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantDelta, got.Delta)
			assert.NoError(t, got.Error)
		})
	}
}

func TestFromLibraryEvent_ErrorBecomesUpstreamError(t *testing.T) {
	got, ok := fromLibraryEvent(llmprovider.StreamEvent{Error: errors.New("connection reset")})
	require.True(t, ok)

	var upstream *domain.UpstreamError
	require.ErrorAs(t, got.Error, &upstream)
	assert.Equal(t, 0, upstream.Status)
	assert.Contains(t, upstream.Error(), "connection reset")
}
