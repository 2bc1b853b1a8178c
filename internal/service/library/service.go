package library

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"docsite/internal/domain"
	"docsite/internal/domain/models/docs"
	"docsite/internal/domain/repositories"
	"docsite/internal/domain/services"
)

// Service implements services.LibraryService
type Service struct {
	repo   repositories.GeneratedDocRepository
	logger *slog.Logger
}

// NewService creates a new library service
func NewService(repo repositories.GeneratedDocRepository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// List returns docs newest first, filtered by query when it is not blank.
func (s *Service) List(ctx context.Context, query string) ([]docs.GeneratedDoc, error) {
	all, err := s.repo.ListDocs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list docs: %w", err)
	}

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return all, nil
	}

	filtered := make([]docs.GeneratedDoc, 0, len(all))
	for _, d := range all {
		if strings.Contains(strings.ToLower(d.Topic), query) ||
			strings.Contains(strings.ToLower(d.Description), query) {
			filtered = append(filtered, d)
		}
	}
	return filtered, nil
}

// Get returns a doc with its ordered sections.
func (s *Service) Get(ctx context.Context, id string) (*docs.GeneratedDocWithSections, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	doc, err := s.repo.GetDoc(ctx, id)
	if err != nil {
		return nil, err
	}

	sections, err := s.repo.ListSections(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}

	return &docs.GeneratedDocWithSections{GeneratedDoc: *doc, Sections: sections}, nil
}

// Delete removes a doc; its sections go with it.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}

	if err := s.repo.DeleteDoc(ctx, id); err != nil {
		return err
	}

	s.logger.Info("generated doc deleted", "doc_id", id)
	return nil
}

// validateID rejects ids that cannot exist so they answer 404 instead of
// reaching the store.
func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return &domain.NotFoundError{Message: fmt.Sprintf("doc %s not found", id)}
	}
	return nil
}

var _ services.LibraryService = (*Service)(nil)
