package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docsite/internal/content"
	"docsite/internal/domain"
	"docsite/internal/domain/models/docs"
	"docsite/internal/domain/services"
	"docsite/internal/handler/sse"
	"docsite/internal/render"
	"docsite/internal/repository/memory"
	"docsite/internal/service/chat"
	"docsite/internal/service/generation"
	"docsite/internal/service/library"
	"docsite/internal/service/llm/providers/lorem"
)

const testModel = "lorem-test"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type testServer struct {
	handler http.Handler
	store   *memory.Store
}

// newTestServer wires the real services over the memory store and the
// lorem provider. Overrides replace individual services.
func newTestServer(t *testing.T, overrides ...func(*Handlers)) *testServer {
	t.Helper()
	logger := testLogger()

	catalog, err := content.Load()
	require.NoError(t, err)

	store := memory.NewStore()
	provider := lorem.NewProvider()
	genSvc := generation.NewService(provider, store, store, generation.Config{Model: testModel}, logger)
	chatSvc := chat.NewService(provider, chat.Config{Model: testModel}, logger)
	libSvc := library.NewService(store, logger)
	renderer := render.NewRenderer("")

	h := Handlers{
		Generate: NewGenerateHandler(genSvc, logger),
		Chat:     NewChatHandler(chatSvc, &sse.Config{}, logger),
		Library:  NewLibraryHandler(libSvc, logger),
		Search:   NewSearchHandler(catalog),
		Pages:    NewPageHandler(catalog, libSvc, genSvc, renderer, logger),
		Health:   NewHealthHandler(nil),
	}
	for _, o := range overrides {
		o(&h)
	}

	mux := http.NewServeMux()
	RegisterRoutes(mux, h, nil)
	return &testServer{handler: mux, store: store}
}

func (s *testServer) do(method, target, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

// seed saves one lorem doc and returns it.
func (s *testServer) seed(t *testing.T) docs.GeneratedDoc {
	t.Helper()
	rec := s.do(http.MethodPost, "/generate-docs", `{"topic":"Seeded Topic","save":true}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	list, err := s.store.ListDocs(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, list)
	return list[0]
}

func TestGenerate(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantSaved bool
	}{
		{name: "saved", body: `{"topic":"Docker","save":true}`, wantSaved: true},
		{name: "not saved", body: `{"topic":"Docker","save":false}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t)
			rec := srv.do(http.MethodPost, "/generate-docs", tt.body)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			var resp struct {
				Success     bool    `json:"success"`
				DocID       *string `json:"docId"`
				Topic       string  `json:"topic"`
				Description string  `json:"description"`
				Sections    []struct {
					Slug    string `json:"slug"`
					Title   string `json:"title"`
					Icon    string `json:"icon"`
					Content string `json:"content"`
				} `json:"sections"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

			assert.True(t, resp.Success)
			assert.Equal(t, "Docker", resp.Topic)
			assert.NotEmpty(t, resp.Description)
			require.Len(t, resp.Sections, 6)
			assert.Equal(t, "section-1", resp.Sections[0].Slug)
			assert.NotEmpty(t, resp.Sections[0].Content)

			list, err := srv.store.ListDocs(context.Background())
			require.NoError(t, err)
			if tt.wantSaved {
				require.NotNil(t, resp.DocID)
				require.Len(t, list, 1)
				assert.Equal(t, *resp.DocID, list[0].ID)
			} else {
				assert.Nil(t, resp.DocID)
				assert.Contains(t, rec.Body.String(), `"docId":null`)
				assert.Empty(t, list)
			}
		})
	}
}

type fakeGeneration struct {
	err error
}

func (f *fakeGeneration) Generate(context.Context, *services.GenerateRequest) (*services.GenerateResult, error) {
	return nil, f.err
}

func TestGenerate_Errors(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{name: "blank topic", body: `{"topic":"   "}`, wantStatus: http.StatusBadRequest},
		{name: "invalid json", body: `{`, wantStatus: http.StatusBadRequest},
		{name: "rate limited", err: domain.NewUpstreamError(429, "slow down"), wantStatus: 429, wantMessage: domain.RateLimitedMessage},
		{name: "quota", err: domain.NewUpstreamError(402, ""), wantStatus: 402, wantMessage: domain.QuotaExceededMessage},
		{name: "upstream failure", err: domain.NewUpstreamError(500, "boom"), wantStatus: http.StatusBadGateway, wantMessage: "upstream request failed"},
		{name: "malformed", err: &domain.MalformedGenerationError{Reason: "no sections"}, wantStatus: http.StatusBadGateway, wantMessage: "failed to parse generated documentation"},
		{name: "persistence", err: &domain.PersistenceError{Op: "create doc", Err: errors.New("db down")}, wantStatus: http.StatusInternalServerError, wantMessage: "failed to save documentation"},
		{name: "timeout", err: context.DeadlineExceeded, wantStatus: http.StatusGatewayTimeout, wantMessage: "upstream timed out"},
		{name: "unexpected", err: errors.New("secret detail"), wantStatus: http.StatusInternalServerError, wantMessage: "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t)
			if tt.err != nil {
				srv = newTestServer(t, func(h *Handlers) {
					h.Generate = NewGenerateHandler(&fakeGeneration{err: tt.err}, testLogger())
				})
			}
			body := tt.body
			if body == "" {
				body = `{"topic":"Docker"}`
			}

			rec := srv.do(http.MethodPost, "/generate-docs", body)
			assert.Equal(t, tt.wantStatus, rec.Code)

			var resp struct {
				Error string `json:"error"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, resp.Error)
			}
		})
	}
}

func TestServiceError_HidesInternalDetail(t *testing.T) {
	const detail = `ERROR: relation "docs" does not exist (SQLSTATE 42P01)`
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{name: "upstream wraps sdk error", err: domain.WrapUpstreamError(0, detail, errors.New(detail)), wantStatus: http.StatusBadGateway, wantMessage: "upstream request failed"},
		{name: "upstream 500", err: domain.WrapUpstreamError(500, detail, errors.New(detail)), wantStatus: http.StatusBadGateway, wantMessage: "upstream request failed"},
		{name: "persistence wraps db error", err: fmt.Errorf("generate: %w", &domain.PersistenceError{Op: "insert sections", Err: errors.New(detail)}), wantStatus: http.StatusInternalServerError, wantMessage: "failed to save documentation"},
		{name: "malformed wraps decode error", err: &domain.MalformedGenerationError{Reason: "invalid json", Err: errors.New(detail)}, wantStatus: http.StatusBadGateway, wantMessage: "failed to parse generated documentation"},
		{name: "validation keeps its text", err: domain.NewValidationError("topic is required"), wantStatus: http.StatusBadRequest, wantMessage: "topic is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, message := serviceError(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantMessage, message)
			assert.NotContains(t, message, "SQLSTATE")
		})
	}
}

func TestChat_Streams(t *testing.T) {
	srv := newTestServer(t)
	rec := srv.do(http.MethodPost, "/docs-chat", `{"messages":[{"role":"user","content":"How do I start?"}]}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, "data: {"))
	assert.True(t, strings.HasSuffix(body, "data: [DONE]\n\n"))
	assert.Contains(t, body, `"delta":{"content":`)
	assert.Contains(t, body, `"finish_reason":"stop"`)
}

func TestChat_ValidationBeforeStream(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no messages", `{"messages":[]}`},
		{"blank content", `{"messages":[{"role":"user","content":"  "}]}`},
		{"bad role", `{"messages":[{"role":"system","content":"hi"}]}`},
		{"invalid json", `nope`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := newTestServer(t).do(http.MethodPost, "/docs-chat", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.Contains(t, rec.Body.String(), `"error"`)
		})
	}
}

type fakeChat struct {
	payloads [][]byte
	err      error
}

func (f *fakeChat) Stream(_ context.Context, _ *services.ChatRequest, emit func([]byte) error) error {
	for _, p := range f.payloads {
		if err := emit(p); err != nil {
			return err
		}
	}
	return f.err
}

func TestChat_UpstreamErrors(t *testing.T) {
	t.Run("before first event", func(t *testing.T) {
		srv := newTestServer(t, func(h *Handlers) {
			h.Chat = NewChatHandler(&fakeChat{err: domain.NewUpstreamError(429, "")}, &sse.Config{}, testLogger())
		})
		rec := srv.do(http.MethodPost, "/docs-chat", `{"messages":[{"role":"user","content":"hi"}]}`)
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.JSONEq(t, `{"error":"Rate limits exceeded, please try again later."}`, rec.Body.String())
	})

	t.Run("mid stream", func(t *testing.T) {
		srv := newTestServer(t, func(h *Handlers) {
			h.Chat = NewChatHandler(&fakeChat{
				payloads: [][]byte{[]byte(`{"choices":[{"delta":{"content":"Hel"}}]}`)},
				err:      domain.NewUpstreamError(0, "connection reset"),
			}, &sse.Config{}, testLogger())
		})
		rec := srv.do(http.MethodPost, "/docs-chat", `{"messages":[{"role":"user","content":"hi"}]}`)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "data: {\"choices\":[{\"delta\":{\"content\":\"Hel\"}}]}\n\n", rec.Body.String())
		assert.NotContains(t, rec.Body.String(), "[DONE]")
	})
}

func TestLibraryAPI(t *testing.T) {
	srv := newTestServer(t)
	doc := srv.seed(t)

	rec := srv.do(http.MethodGet, "/api/docs", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []docs.GeneratedDoc
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Seeded Topic", list[0].Topic)

	rec = srv.do(http.MethodGet, "/api/docs?q=nothing-matches", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = srv.do(http.MethodGet, "/api/docs/"+doc.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var full docs.GeneratedDocWithSections
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &full))
	require.Len(t, full.Sections, 6)
	for i, s := range full.Sections {
		assert.Equal(t, i, s.OrderIndex)
	}

	rec = srv.do(http.MethodDelete, "/api/docs/"+doc.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = srv.do(http.MethodGet, "/api/docs/"+doc.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

	rec = srv.do(http.MethodDelete, "/api/docs/not-a-uuid", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSearchAPI(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(http.MethodGet, "/api/search?q=authentication", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var results []searchResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &results))
	require.NotEmpty(t, results)
	assert.Equal(t, "Authentication", results[0].Title)
	assert.Equal(t, "/docs/api-reference/authentication", results[0].Path)

	rec = srv.do(http.MethodGet, "/api/search", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &results))
	assert.NotEmpty(t, results)
}

func TestDocsPages(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantBody   []string
	}{
		{name: "home", target: "/", wantStatus: http.StatusOK, wantBody: []string{"Getting Started"}},
		{name: "default page", target: "/docs", wantStatus: http.StatusOK, wantBody: []string{"<h1>Introduction to AI Cloud</h1>", `href="/docs/getting-started/quickstart"`}},
		{name: "category default page", target: "/docs/getting-started", wantStatus: http.StatusOK, wantBody: []string{"<h1>Introduction to AI Cloud</h1>"}},
		{name: "known page", target: "/docs/api-reference/authentication", wantStatus: http.StatusOK, wantBody: []string{"Authentication"}},
		{name: "placeholder", target: "/docs/unknown/page", wantStatus: http.StatusOK, wantBody: []string{"Coming Soon"}},
		{name: "create form", target: "/create?topic=Docker", wantStatus: http.StatusOK, wantBody: []string{`value="Docker"`, "React Hooks"}},
		{name: "empty library", target: "/library", wantStatus: http.StatusOK, wantBody: []string{"No saved documentation yet"}},
		{name: "code css", target: "/static/code.css", wantStatus: http.StatusOK, wantBody: []string{".chroma"}},
		{name: "unknown route", target: "/nope", wantStatus: http.StatusNotFound, wantBody: []string{"Page not found"}},
		{name: "unknown generated doc", target: "/generated/00000000-0000-0000-0000-000000000000", wantStatus: http.StatusNotFound},
		{name: "health", target: "/health", wantStatus: http.StatusOK, wantBody: []string{`"ok"`}},
	}

	srv := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := srv.do(http.MethodGet, tt.target, "")
			assert.Equal(t, tt.wantStatus, rec.Code)
			for _, want := range tt.wantBody {
				assert.Contains(t, rec.Body.String(), want)
			}
		})
	}
}

func TestGeneratedPages(t *testing.T) {
	srv := newTestServer(t)
	doc := srv.seed(t)
	base := "/generated/" + doc.ID

	rec := srv.do(http.MethodGet, base, "")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, base+"/section-1", rec.Header().Get("Location"))

	rec = srv.do(http.MethodGet, base+"/section-1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `href="`+base+`/section-2"`)
	assert.Contains(t, rec.Body.String(), "Export Markdown")

	rec = srv.do(http.MethodGet, base+"/section-6", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `href="`+base+`/section-5"`)

	rec = srv.do(http.MethodGet, base+"/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(http.MethodGet, base+"/export.md", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="seeded-topic-documentation.md"`, rec.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "# Seeded Topic\n"))

	rec = srv.do(http.MethodGet, base+"/export.html", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<h1>Seeded Topic</h1>")

	rec = srv.do(http.MethodGet, "/library?q=seeded", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `href="`+base+`"`)
}

func TestLibraryPage_Delete(t *testing.T) {
	srv := newTestServer(t)
	doc := srv.seed(t)

	rec := srv.do(http.MethodGet, "/library", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `action="/library/`+doc.ID+`/delete"`)

	rec = srv.do(http.MethodPost, "/library/"+doc.ID+"/delete", "")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/library", rec.Header().Get("Location"))

	list, err := srv.store.ListDocs(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)

	rec = srv.do(http.MethodGet, "/library", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No saved documentation yet")

	tests := []struct {
		name   string
		method string
		target string
		want   int
	}{
		{name: "already deleted", method: http.MethodPost, target: "/library/" + doc.ID + "/delete", want: http.StatusNotFound},
		{name: "malformed id", method: http.MethodPost, target: "/library/not-a-uuid/delete", want: http.StatusNotFound},
		{name: "get is not routed to delete", method: http.MethodGet, target: "/library/" + doc.ID + "/delete", want: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := srv.do(tt.method, tt.target, "")
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestCreateForm(t *testing.T) {
	t.Run("save redirects to reader", func(t *testing.T) {
		srv := newTestServer(t)
		form := url.Values{"topic": {"Kubernetes"}, "context": {"for beginners"}, "save": {"true"}}
		req := httptest.NewRequest(http.MethodPost, "/create", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		srv.handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusSeeOther, rec.Code)
		list, err := srv.store.ListDocs(context.Background())
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "Kubernetes. Additional context: for beginners", list[0].Topic)
		assert.Equal(t, "/generated/"+list[0].ID, rec.Header().Get("Location"))
	})

	t.Run("unsaved renders inline", func(t *testing.T) {
		srv := newTestServer(t)
		form := url.Values{"topic": {"Kubernetes"}}
		req := httptest.NewRequest(http.MethodPost, "/create", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		srv.handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `href="#section-1"`)
	})

	t.Run("blank topic re-renders form", func(t *testing.T) {
		srv := newTestServer(t)
		req := httptest.NewRequest(http.MethodPost, "/create", strings.NewReader("topic=+"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		srv.handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), `class="error"`)
	})
}
