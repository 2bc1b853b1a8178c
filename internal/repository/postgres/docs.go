package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"docsite/internal/domain"
	"docsite/internal/domain/models/docs"
	"docsite/internal/domain/repositories"
)

// GeneratedDocRepository is the Postgres store for generated documentation.
type GeneratedDocRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewGeneratedDocRepository creates a new generated doc repository
func NewGeneratedDocRepository(config *RepositoryConfig) repositories.GeneratedDocRepository {
	return &GeneratedDocRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// CreateDoc inserts the parent row. ID is generated here when empty.
func (r *GeneratedDocRepository) CreateDoc(ctx context.Context, doc *docs.GeneratedDoc) error {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, topic, description)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`, r.tables.Docs)

	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, doc.ID, doc.Topic, doc.Description).Scan(&doc.CreatedAt); err != nil {
		return fmt.Errorf("create doc: %w", err)
	}

	r.logger.Debug("generated doc created", "doc_id", doc.ID, "topic", doc.Topic)
	return nil
}

// CreateSections inserts every section of docID.
func (r *GeneratedDocRepository) CreateSections(ctx context.Context, docID string, sections []docs.GeneratedSection) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, doc_id, slug, title, content, icon, order_index)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, r.tables.Sections)

	executor := GetExecutor(ctx, r.pool)
	for i := range sections {
		s := &sections[i]
		if s.ID == "" {
			s.ID = uuid.NewString()
		}
		s.DocID = docID

		if _, err := executor.Exec(ctx, query, s.ID, docID, s.Slug, s.Title, s.Content, s.Icon, s.OrderIndex); err != nil {
			if IsPgDuplicateError(err) {
				return fmt.Errorf("create section %q: duplicate slug or order: %w", s.Slug, err)
			}
			if IsPgForeignKeyError(err) {
				return &domain.NotFoundError{Message: fmt.Sprintf("doc %s not found", docID)}
			}
			return fmt.Errorf("create section %q: %w", s.Slug, err)
		}
	}

	return nil
}

// GetDoc returns a single doc.
func (r *GeneratedDocRepository) GetDoc(ctx context.Context, id string) (*docs.GeneratedDoc, error) {
	query := fmt.Sprintf(`
		SELECT id, topic, description, created_at
		FROM %s
		WHERE id = $1
	`, r.tables.Docs)

	var doc docs.GeneratedDoc
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id).Scan(
		&doc.ID,
		&doc.Topic,
		&doc.Description,
		&doc.CreatedAt,
	)
	if err != nil {
		if IsPgNoRowsError(err) || IsPgInvalidInputError(err) {
			return nil, &domain.NotFoundError{Message: fmt.Sprintf("doc %s not found", id)}
		}
		return nil, fmt.Errorf("get doc: %w", err)
	}

	return &doc, nil
}

// ListSections returns sections ordered by order_index.
func (r *GeneratedDocRepository) ListSections(ctx context.Context, docID string) ([]docs.GeneratedSection, error) {
	query := fmt.Sprintf(`
		SELECT id, doc_id, slug, title, content, icon, order_index
		FROM %s
		WHERE doc_id = $1
		ORDER BY order_index ASC
	`, r.tables.Sections)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, docID)
	if err != nil {
		if IsPgInvalidInputError(err) {
			return nil, &domain.NotFoundError{Message: fmt.Sprintf("doc %s not found", docID)}
		}
		return nil, fmt.Errorf("list sections: %w", err)
	}

	sections, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (docs.GeneratedSection, error) {
		var s docs.GeneratedSection
		err := row.Scan(&s.ID, &s.DocID, &s.Slug, &s.Title, &s.Content, &s.Icon, &s.OrderIndex)
		return s, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan sections: %w", err)
	}

	return sections, nil
}

// ListDocs returns every doc, newest first.
func (r *GeneratedDocRepository) ListDocs(ctx context.Context) ([]docs.GeneratedDoc, error) {
	query := fmt.Sprintf(`
		SELECT id, topic, description, created_at
		FROM %s
		ORDER BY created_at DESC
	`, r.tables.Docs)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list docs: %w", err)
	}

	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (docs.GeneratedDoc, error) {
		var d docs.GeneratedDoc
		err := row.Scan(&d.ID, &d.Topic, &d.Description, &d.CreatedAt)
		return d, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan docs: %w", err)
	}

	return list, nil
}

// DeleteDoc removes a doc; its sections go with it through ON DELETE CASCADE.
func (r *GeneratedDocRepository) DeleteDoc(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Docs)

	executor := GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, id)
	if err != nil {
		if IsPgInvalidInputError(err) {
			return &domain.NotFoundError{Message: fmt.Sprintf("doc %s not found", id)}
		}
		return fmt.Errorf("delete doc: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &domain.NotFoundError{Message: fmt.Sprintf("doc %s not found", id)}
	}

	r.logger.Info("generated doc deleted", "doc_id", id)
	return nil
}
