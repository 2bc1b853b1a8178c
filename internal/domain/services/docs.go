package services

import (
	"context"

	"docsite/internal/domain/models/docs"
)

// GenerationService turns a topic into a documentation bundle, optionally persisted.
type GenerationService interface {
	Generate(ctx context.Context, req *GenerateRequest) (*GenerateResult, error)
}

// GenerateRequest is the /generate-docs request body.
type GenerateRequest struct {
	Topic string `json:"topic"`
	Save  bool   `json:"save"`
}

// GenerateResult carries the decoded sections. DocID is empty unless saved.
type GenerateResult struct {
	DocID       string
	Topic       string
	Description string
	Sections    []docs.GeneratedSection
}

// ChatService proxies a conversation to the model and streams the reply.
type ChatService interface {
	// Stream validates req, opens the upstream stream and calls emit once per
	// SSE data payload, ending with "[DONE]". An error returned before the
	// first emit means nothing was written.
	Stream(ctx context.Context, req *ChatRequest, emit func(payload []byte) error) error
}

// ChatRequest is the /docs-chat request body.
type ChatRequest struct {
	Messages []docs.ChatMessage `json:"messages"`
}

// LibraryService reads and deletes persisted documentation.
type LibraryService interface {
	// List returns docs newest first. A non-blank query keeps docs whose
	// topic or description contains it, case-insensitively.
	List(ctx context.Context, query string) ([]docs.GeneratedDoc, error)

	// Get returns a doc with its sections in persisted order.
	Get(ctx context.Context, id string) (*docs.GeneratedDocWithSections, error)

	// Delete removes a doc and its sections.
	Delete(ctx context.Context, id string) error
}
