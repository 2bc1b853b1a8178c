package generation

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docsite/internal/domain"
	"docsite/internal/domain/models/docs"
	"docsite/internal/domain/services"
	domainllm "docsite/internal/domain/services/llm"
	"docsite/internal/repository/memory"
	"docsite/internal/service/llm/providers/lorem"
)

type fakeProvider struct {
	content string
	err     error
	calls   int
	last    *domainllm.CompletionRequest
}

func (f *fakeProvider) Name() string                { return "fake" }
func (f *fakeProvider) SupportsModel(_ string) bool { return true }
func (f *fakeProvider) Stream(context.Context, *domainllm.CompletionRequest) (<-chan domainllm.StreamEvent, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeProvider) Complete(_ context.Context, req *domainllm.CompletionRequest) (*domainllm.Completion, error) {
	f.calls++
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	return &domainllm.Completion{Content: f.content}, nil
}

// failingSections wraps a store so every section insert fails after the
// parent insert succeeded.
type failingSections struct {
	*memory.Store
}

func (f failingSections) CreateSections(context.Context, string, []docs.GeneratedSection) error {
	return errors.New("insert failed")
}

const twoSections = "```json\n" + `{"description":"About Go","sections":[
 {"slug":"a","title":"A","icon":"Code","content":"## A"},
 {"slug":"b","title":"B","icon":"Nope","content":"## B"}]}` + "\n```"

func newTestService(p domainllm.Provider, store *memory.Store) services.GenerationService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(p, store, store, Config{Model: "fake-model"}, logger)
}

func TestGenerate_ValidatesTopic(t *testing.T) {
	tests := []struct {
		name  string
		topic string
	}{
		{"empty", ""},
		{"whitespace", "  \n\t "},
		{"too long", string(make([]byte, 2001))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &fakeProvider{content: twoSections}
			svc := newTestService(p, memory.NewStore())

			_, err := svc.Generate(context.Background(), &services.GenerateRequest{Topic: tt.topic})
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.Zero(t, p.calls)
		})
	}
}

func TestGenerate_SavePersistsOrderedSections(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	p := &fakeProvider{content: twoSections}
	svc := newTestService(p, store)

	result, err := svc.Generate(ctx, &services.GenerateRequest{Topic: "  Go  ", Save: true})
	require.NoError(t, err)

	assert.Equal(t, "Generate comprehensive documentation for: Go", p.last.Messages[0].Content)
	assert.Equal(t, SystemPrompt, p.last.System)
	require.NotNil(t, p.last.Temperature)
	assert.Equal(t, 0.7, *p.last.Temperature)
	assert.Equal(t, 16000, p.last.MaxTokens)

	require.NotEmpty(t, result.DocID)
	assert.Equal(t, "About Go", result.Description)

	sections, err := store.ListSections(ctx, result.DocID)
	require.NoError(t, err)
	require.Len(t, sections, 2)
	assert.Equal(t, "a", sections[0].Slug)
	assert.Equal(t, 0, sections[0].OrderIndex)
	assert.Equal(t, "b", sections[1].Slug)
	assert.Equal(t, 1, sections[1].OrderIndex)
	assert.Equal(t, docs.DefaultIcon, sections[1].Icon)
}

func TestGenerate_WithoutSaveReturnsSectionsOnly(t *testing.T) {
	store := memory.NewStore()
	svc := newTestService(&fakeProvider{content: twoSections}, store)

	result, err := svc.Generate(context.Background(), &services.GenerateRequest{Topic: "Go"})
	require.NoError(t, err)
	assert.Empty(t, result.DocID)
	assert.Len(t, result.Sections, 2)

	list, err := store.ListDocs(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestGenerate_DefaultDescription(t *testing.T) {
	svc := newTestService(&fakeProvider{content: `{"sections":[]}`}, memory.NewStore())

	result, err := svc.Generate(context.Background(), &services.GenerateRequest{Topic: "Kafka"})
	require.NoError(t, err)
	assert.Equal(t, "Documentation for Kafka", result.Description)
}

func TestGenerate_Errors(t *testing.T) {
	tests := []struct {
		name     string
		provider *fakeProvider
		want     error
	}{
		{"rate limited", &fakeProvider{err: domain.NewUpstreamError(429, "")}, domain.ErrRateLimited},
		{"quota", &fakeProvider{err: domain.NewUpstreamError(402, "")}, domain.ErrQuotaExceeded},
		{"empty content", &fakeProvider{content: "  "}, domain.ErrUpstream},
		{"not json", &fakeProvider{content: "Sure! Here are the docs"}, domain.ErrMalformedGeneration},
		{"sections not array", &fakeProvider{content: `{"sections":{}}`}, domain.ErrMalformedGeneration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(tt.provider, memory.NewStore())
			_, err := svc.Generate(context.Background(), &services.GenerateRequest{Topic: "Go", Save: true})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestGenerate_SectionFailureLeavesNoOrphan(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(&fakeProvider{content: twoSections}, failingSections{store}, store, Config{Model: "m"}, logger)

	_, err := svc.Generate(ctx, &services.GenerateRequest{Topic: "Go", Save: true})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPersistence)

	list, err := store.ListDocs(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestGenerate_LoremProviderEndToEnd(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(lorem.NewProvider(), store, store, Config{Model: "lorem-test"}, logger)

	result, err := svc.Generate(ctx, &services.GenerateRequest{Topic: "Lorem", Save: true})
	require.NoError(t, err)
	require.Len(t, result.Sections, 6)
	for i, s := range result.Sections {
		assert.Equal(t, i, s.OrderIndex)
	}
}
