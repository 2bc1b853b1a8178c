// Package memory is an in-process GeneratedDocRepository used when no
// database is configured, and by tests.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"docsite/internal/domain"
	"docsite/internal/domain/models/docs"
	"docsite/internal/domain/repositories"
)

// Store holds docs and sections in maps guarded by a mutex.
type Store struct {
	mu       sync.RWMutex
	txMu     sync.Mutex
	docs     map[string]docs.GeneratedDoc
	sections map[string][]docs.GeneratedSection
	now      func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		docs:     make(map[string]docs.GeneratedDoc),
		sections: make(map[string][]docs.GeneratedSection),
		now:      time.Now,
	}
}

// CreateDoc inserts the parent record.
func (s *Store) CreateDoc(ctx context.Context, doc *docs.GeneratedDoc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if _, exists := s.docs[doc.ID]; exists {
		return fmt.Errorf("create doc: duplicate id %s", doc.ID)
	}
	doc.CreatedAt = s.now()
	s.docs[doc.ID] = *doc
	return nil
}

// CreateSections inserts sections, enforcing the unique slug and order
// constraints the Postgres schema has.
func (s *Store) CreateSections(ctx context.Context, docID string, sections []docs.GeneratedSection) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[docID]; !ok {
		return &domain.NotFoundError{Message: fmt.Sprintf("doc %s not found", docID)}
	}

	existing := s.sections[docID]
	for i := range sections {
		sec := &sections[i]
		for _, other := range existing {
			if other.Slug == sec.Slug || other.OrderIndex == sec.OrderIndex {
				return fmt.Errorf("create section %q: duplicate slug or order", sec.Slug)
			}
		}
		if sec.OrderIndex < 0 {
			return fmt.Errorf("create section %q: negative order index", sec.Slug)
		}
		if sec.ID == "" {
			sec.ID = uuid.NewString()
		}
		sec.DocID = docID
		existing = append(existing, *sec)
	}
	s.sections[docID] = existing
	return nil
}

// GetDoc returns the doc or a NotFoundError.
func (s *Store) GetDoc(ctx context.Context, id string) (*docs.GeneratedDoc, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[id]
	if !ok {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("doc %s not found", id)}
	}
	return &doc, nil
}

// ListSections returns the sections of docID ordered by OrderIndex.
func (s *Store) ListSections(ctx context.Context, docID string) ([]docs.GeneratedSection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := slices.Clone(s.sections[docID])
	slices.SortFunc(out, func(a, b docs.GeneratedSection) int { return a.OrderIndex - b.OrderIndex })
	return out, nil
}

// ListDocs returns every doc, newest first.
func (s *Store) ListDocs(ctx context.Context) ([]docs.GeneratedDoc, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]docs.GeneratedDoc, 0, len(s.docs))
	for _, d := range s.docs {
		out = append(out, d)
	}
	slices.SortFunc(out, func(a, b docs.GeneratedDoc) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out, nil
}

// DeleteDoc removes a doc and its sections.
func (s *Store) DeleteDoc(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[id]; !ok {
		return &domain.NotFoundError{Message: fmt.Sprintf("doc %s not found", id)}
	}
	delete(s.docs, id)
	delete(s.sections, id)
	return nil
}

// ExecTx runs fn and restores the previous contents if it fails.
// Transactions are serialized.
func (s *Store) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	docsSnap := make(map[string]docs.GeneratedDoc, len(s.docs))
	for k, v := range s.docs {
		docsSnap[k] = v
	}
	sectionsSnap := make(map[string][]docs.GeneratedSection, len(s.sections))
	for k, v := range s.sections {
		sectionsSnap[k] = slices.Clone(v)
	}
	s.mu.RUnlock()

	if err := fn(ctx); err != nil {
		s.mu.Lock()
		s.docs = docsSnap
		s.sections = sectionsSnap
		s.mu.Unlock()
		return err
	}
	return nil
}

var (
	_ repositories.GeneratedDocRepository = (*Store)(nil)
	_ repositories.TransactionManager     = (*Store)(nil)
)
