// Package generation implements the documentation generator behind
// POST /generate-docs.
package generation

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"docsite/internal/config"
	"docsite/internal/docgen"
	"docsite/internal/domain"
	"docsite/internal/domain/models/docs"
	"docsite/internal/domain/repositories"
	"docsite/internal/domain/services"
	domainllm "docsite/internal/domain/services/llm"
)

// Config holds the model settings for generation.
type Config struct {
	Model   string
	Timeout time.Duration
}

// Service implements services.GenerationService
type Service struct {
	provider  domainllm.Provider
	repo      repositories.GeneratedDocRepository
	txManager repositories.TransactionManager
	converter *docgen.HTMLConverter
	config    Config
	logger    *slog.Logger
}

// NewService creates a new generation service
func NewService(
	provider domainllm.Provider,
	repo repositories.GeneratedDocRepository,
	txManager repositories.TransactionManager,
	cfg Config,
	logger *slog.Logger,
) services.GenerationService {
	return &Service{
		provider:  provider,
		repo:      repo,
		txManager: txManager,
		converter: docgen.NewHTMLConverter(),
		config:    cfg,
		logger:    logger,
	}
}

func validateGenerateRequest(req *services.GenerateRequest) error {
	err := validation.ValidateStruct(req,
		validation.Field(&req.Topic,
			validation.By(notBlank),
			validation.RuneLength(0, config.MaxTopicLength),
		),
	)
	if err != nil {
		return &domain.ValidationError{Message: err.Error()}
	}
	return nil
}

func notBlank(value interface{}) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return errors.New("cannot be blank")
	}
	return nil
}

// Generate asks the model for documentation on req.Topic, decodes the reply
// and, when req.Save is set, stores the doc and its sections atomically.
func (s *Service) Generate(ctx context.Context, req *services.GenerateRequest) (*services.GenerateResult, error) {
	if err := validateGenerateRequest(req); err != nil {
		return nil, err
	}
	topic := strings.TrimSpace(req.Topic)

	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	s.logger.Info("generating documentation", "topic", topic, "save", req.Save, "model", s.config.Model)
	start := time.Now()

	completion, err := s.provider.Complete(ctx, &domainllm.CompletionRequest{
		Model:       s.config.Model,
		System:      SystemPrompt,
		Messages:    []docs.ChatMessage{{Role: docs.RoleUser, Content: UserPrompt(topic)}},
		Temperature: domainllm.Float(config.GenerationTemperature),
		MaxTokens:   config.GenerationMaxTokens,
	})
	if err != nil {
		s.logger.Error("generation call failed", "topic", topic, "error", err)
		return nil, err
	}
	if strings.TrimSpace(completion.Content) == "" {
		return nil, domain.NewUpstreamError(0, "no content received from model")
	}

	gen, err := docgen.Decode(completion.Content)
	if err != nil {
		s.logger.Warn("generated documentation rejected",
			"topic", topic,
			"error", err,
			"content_prefix", prefix(completion.Content, 500),
		)
		return nil, err
	}
	if err := s.converter.Normalize(gen); err != nil {
		return nil, &domain.MalformedGenerationError{Reason: "section content", Err: err}
	}

	description := strings.TrimSpace(gen.Description)
	if description == "" {
		description = "Documentation for " + topic
	}

	result := &services.GenerateResult{
		Topic:       topic,
		Description: description,
		Sections:    gen.Sections,
	}

	if req.Save {
		docID, err := s.save(ctx, topic, description, gen.Sections)
		if err != nil {
			return nil, err
		}
		result.DocID = docID
	}

	s.logger.Info("documentation generated",
		"topic", topic,
		"doc_id", result.DocID,
		"sections", len(result.Sections),
		"input_tokens", completion.InputTokens,
		"output_tokens", completion.OutputTokens,
		"duration", time.Since(start),
	)
	return result, nil
}

// save writes the parent and every section in one transaction.
func (s *Service) save(ctx context.Context, topic, description string, sections []docs.GeneratedSection) (string, error) {
	doc := &docs.GeneratedDoc{Topic: topic, Description: description}

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.CreateDoc(txCtx, doc); err != nil {
			return &domain.PersistenceError{Op: "create doc", Err: err}
		}
		if err := s.repo.CreateSections(txCtx, doc.ID, sections); err != nil {
			return &domain.PersistenceError{Op: "create sections", Err: err}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("failed to save documentation", "topic", topic, "error", err)
		var perr *domain.PersistenceError
		if errors.As(err, &perr) {
			return "", err
		}
		return "", &domain.PersistenceError{Op: "transaction", Err: err}
	}

	return doc.ID, nil
}

func prefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

var _ services.GenerationService = (*Service)(nil)
