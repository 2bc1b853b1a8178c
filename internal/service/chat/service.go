// Package chat implements the streaming proxy behind POST /docs-chat.
//
// Replies are re-encoded as OpenAI chat.completion.chunk objects so any
// client that reads choices[0].delta.content works against every provider.
package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/sashabaranov/go-openai"

	"docsite/internal/config"
	"docsite/internal/domain"
	"docsite/internal/domain/models/docs"
	"docsite/internal/domain/services"
	domainllm "docsite/internal/domain/services/llm"
)

// DonePayload terminates every successful stream.
const DonePayload = "[DONE]"

// Config holds the model settings for chat.
type Config struct {
	Model         string
	Timeout       time.Duration
	HistoryWindow int
}

// Service implements services.ChatService
type Service struct {
	provider domainllm.Provider
	config   Config
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates a new chat service
func NewService(provider domainllm.Provider, cfg Config, logger *slog.Logger) *Service {
	if cfg.HistoryWindow <= 0 {
		cfg.HistoryWindow = config.DefaultChatHistoryWindow
	}
	return &Service{
		provider: provider,
		config:   cfg,
		logger:   logger,
		now:      time.Now,
	}
}

func validateMessage(value interface{}) error {
	msg, ok := value.(docs.ChatMessage)
	if !ok {
		return errors.New("invalid message")
	}
	// An assistant turn that produced nothing is blank; only user turns must have text.
	return validation.ValidateStruct(&msg,
		validation.Field(&msg.Role, validation.Required, validation.In(docs.RoleUser, docs.RoleAssistant)),
		validation.Field(&msg.Content,
			validation.When(msg.Role == docs.RoleUser, validation.By(notBlank)),
			validation.RuneLength(0, config.MaxChatMessageLength),
		),
	)
}

// upstreamHistory drops blank assistant turns, which providers reject.
func upstreamHistory(messages []docs.ChatMessage) []docs.ChatMessage {
	out := make([]docs.ChatMessage, 0, len(messages))
	for _, msg := range messages {
		if msg.Role == docs.RoleAssistant && strings.TrimSpace(msg.Content) == "" {
			continue
		}
		out = append(out, msg)
	}
	return out
}

func notBlank(value interface{}) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return errors.New("cannot be blank")
	}
	return nil
}

func validateChatRequest(req *services.ChatRequest) error {
	err := validation.ValidateStruct(req,
		validation.Field(&req.Messages,
			validation.Required,
			validation.Length(1, config.MaxChatMessages),
			validation.Each(validation.By(validateMessage)),
		),
	)
	if err != nil {
		return &domain.ValidationError{Message: err.Error()}
	}
	return nil
}

// Stream forwards the last HistoryWindow messages to the provider and emits
// each delta as a chunk payload, then DonePayload.
func (s *Service) Stream(ctx context.Context, req *services.ChatRequest, emit func(payload []byte) error) error {
	if err := validateChatRequest(req); err != nil {
		return err
	}

	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	history := upstreamHistory(docs.Window(req.Messages, s.config.HistoryWindow))
	s.logger.Debug("chat turn",
		"messages", len(req.Messages),
		"window", len(history),
		"model", s.config.Model,
	)

	events, err := s.provider.Stream(ctx, &domainllm.CompletionRequest{
		Model:    s.config.Model,
		System:   SystemPrompt,
		Messages: history,
	})
	if err != nil {
		s.logger.Error("chat stream failed to start", "error", err)
		return err
	}

	chunk := chunkEncoder{
		id:      "chatcmpl-" + uuid.NewString(),
		created: s.now().Unix(),
		model:   s.config.Model,
	}

	deltas := 0
	for ev := range events {
		if ev.Error != nil {
			s.logger.Error("chat stream interrupted", "error", ev.Error, "deltas", deltas)
			return ev.Error
		}
		payload, err := chunk.delta(ev.Delta)
		if err != nil {
			return err
		}
		if err := emit(payload); err != nil {
			return fmt.Errorf("write chunk: %w", err)
		}
		deltas++
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := chunk.stop()
	if err != nil {
		return err
	}
	if err := emit(payload); err != nil {
		return fmt.Errorf("write chunk: %w", err)
	}
	if err := emit([]byte(DonePayload)); err != nil {
		return fmt.Errorf("write done: %w", err)
	}

	s.logger.Debug("chat turn complete", "deltas", deltas)
	return nil
}

type chunkEncoder struct {
	id      string
	created int64
	model   string
}

func (c chunkEncoder) encode(delta openai.ChatCompletionStreamChoiceDelta, finish openai.FinishReason) ([]byte, error) {
	payload, err := json.Marshal(openai.ChatCompletionStreamResponse{
		ID:      c.id,
		Object:  "chat.completion.chunk",
		Created: c.created,
		Model:   c.model,
		Choices: []openai.ChatCompletionStreamChoice{{
			Index:        0,
			Delta:        delta,
			FinishReason: finish,
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("encode chunk: %w", err)
	}
	return payload, nil
}

func (c chunkEncoder) delta(text string) ([]byte, error) {
	return c.encode(openai.ChatCompletionStreamChoiceDelta{Content: text}, "")
}

func (c chunkEncoder) stop() ([]byte, error) {
	return c.encode(openai.ChatCompletionStreamChoiceDelta{}, openai.FinishReasonStop)
}

var _ services.ChatService = (*Service)(nil)
