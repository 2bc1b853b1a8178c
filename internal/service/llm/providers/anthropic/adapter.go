package anthropic

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"

	"docsite/internal/domain"
	"docsite/internal/domain/models/docs"
	domainllm "docsite/internal/domain/services/llm"
)

const defaultMaxTokens = 4096

// buildParams converts a domain completion request to Anthropic message params.
func buildParams(req *domainllm.CompletionRequest) (anthropic.MessageNewParams, error) {
	messages := make([]anthropic.MessageParam, 0, len(req.Messages))
	for i, msg := range req.Messages {
		block := anthropic.NewTextBlock(msg.Content)
		switch msg.Role {
		case docs.RoleUser:
			messages = append(messages, anthropic.NewUserMessage(block))
		case docs.RoleAssistant:
			messages = append(messages, anthropic.NewAssistantMessage(block))
		default:
			return anthropic.MessageNewParams{}, fmt.Errorf("message %d: unsupported role '%s'", i, msg.Role)
		}
	}

	maxTokens := int64(req.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(req.Model),
		Messages:  messages,
		MaxTokens: maxTokens,
	}
	if req.Temperature != nil {
		params.Temperature = anthropic.Float(*req.Temperature)
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Type: "text", Text: req.System}}
	}
	return params, nil
}

// convertResponse joins the text blocks of a message.
func convertResponse(msg *anthropic.Message) *domainllm.Completion {
	var sb strings.Builder
	for _, content := range msg.Content {
		if content.Type == "text" {
			sb.WriteString(content.Text)
		}
	}

	return &domainllm.Completion{
		Content:      sb.String(),
		Model:        string(msg.Model),
		InputTokens:  int(msg.Usage.InputTokens),
		OutputTokens: int(msg.Usage.OutputTokens),
		StopReason:   string(msg.StopReason),
	}
}

// upstreamError classifies SDK errors by HTTP status.
func upstreamError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		message := http.StatusText(apiErr.StatusCode)
		return domain.WrapUpstreamError(apiErr.StatusCode, message, err)
	}
	return domain.WrapUpstreamError(0, err.Error(), err)
}
