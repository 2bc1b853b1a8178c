package repositories

import (
	"context"

	"docsite/internal/domain/models/docs"
)

// GeneratedDocRepository persists generated documentation.
//
// CreateDoc and CreateSections are expected to run inside the same
// TransactionManager.ExecTx call so a doc never exists without its sections.
type GeneratedDocRepository interface {
	// CreateDoc inserts the parent record and fills in ID and CreatedAt.
	CreateDoc(ctx context.Context, doc *docs.GeneratedDoc) error

	// CreateSections inserts the sections of docID. OrderIndex is taken as given.
	CreateSections(ctx context.Context, docID string, sections []docs.GeneratedSection) error

	// GetDoc returns the doc or a *domain.NotFoundError.
	GetDoc(ctx context.Context, id string) (*docs.GeneratedDoc, error)

	// ListSections returns the sections of a doc ordered by OrderIndex.
	ListSections(ctx context.Context, docID string) ([]docs.GeneratedSection, error)

	// ListDocs returns every doc, newest first.
	ListDocs(ctx context.Context) ([]docs.GeneratedDoc, error)

	// DeleteDoc removes a doc and, by cascade, its sections.
	DeleteDoc(ctx context.Context, id string) error
}
