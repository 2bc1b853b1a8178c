package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docsite/internal/domain"
	"docsite/internal/domain/models/docs"
)

func TestStore_CreateAndRead(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	doc := &docs.GeneratedDoc{Topic: "Go", Description: "d"}
	require.NoError(t, s.CreateDoc(ctx, doc))
	require.NotEmpty(t, doc.ID)

	require.NoError(t, s.CreateSections(ctx, doc.ID, []docs.GeneratedSection{
		{Slug: "b", OrderIndex: 1},
		{Slug: "a", OrderIndex: 0},
	}))

	sections, err := s.ListSections(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, sections, 2)
	assert.Equal(t, "a", sections[0].Slug)
	assert.Equal(t, doc.ID, sections[0].DocID)
}

func TestStore_DuplicateSlugRejected(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	doc := &docs.GeneratedDoc{Topic: "Go"}
	require.NoError(t, s.CreateDoc(ctx, doc))

	err := s.CreateSections(ctx, doc.ID, []docs.GeneratedSection{
		{Slug: "a", OrderIndex: 0},
		{Slug: "a", OrderIndex: 1},
	})
	assert.Error(t, err)
}

func TestStore_ExecTxRollsBack(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	err := s.ExecTx(ctx, func(txCtx context.Context) error {
		doc := &docs.GeneratedDoc{Topic: "Go"}
		require.NoError(t, s.CreateDoc(txCtx, doc))
		return errors.New("boom")
	})
	require.Error(t, err)

	list, err := s.ListDocs(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestStore_ListNewestFirstAndDelete(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	n := 0
	s.now = func() time.Time { n++; return base.Add(time.Duration(n) * time.Minute) }

	older := &docs.GeneratedDoc{Topic: "older"}
	newer := &docs.GeneratedDoc{Topic: "newer"}
	require.NoError(t, s.CreateDoc(ctx, older))
	require.NoError(t, s.CreateDoc(ctx, newer))

	list, err := s.ListDocs(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "newer", list[0].Topic)

	require.NoError(t, s.DeleteDoc(ctx, older.ID))
	_, err = s.GetDoc(ctx, older.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, s.DeleteDoc(ctx, older.ID), domain.ErrNotFound)
}
