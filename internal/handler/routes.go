package handler

import (
	"net/http"
)

// Handlers groups every HTTP handler the server mounts.
type Handlers struct {
	Generate *GenerateHandler
	Chat     *ChatHandler
	Library  *LibraryHandler
	Search   *SearchHandler
	Pages    *PageHandler
	Health   *HealthHandler
}

// RegisterRoutes mounts all routes on mux. limit wraps the endpoints that
// spend model tokens; nil leaves them unlimited.
func RegisterRoutes(mux *http.ServeMux, h Handlers, limit func(http.Handler) http.Handler) {
	if limit == nil {
		limit = func(next http.Handler) http.Handler { return next }
	}

	mux.HandleFunc("GET /health", h.Health.Health)

	// Model-backed endpoints
	mux.Handle("POST /generate-docs", limit(http.HandlerFunc(h.Generate.Generate)))
	mux.Handle("POST /docs-chat", limit(http.HandlerFunc(h.Chat.Stream)))
	mux.Handle("POST /create", limit(http.HandlerFunc(h.Pages.Create)))

	mux.HandleFunc("POST /library/{id}/delete", h.Pages.DeleteDoc)

	// Library API
	mux.HandleFunc("GET /api/docs", h.Library.ListDocs)
	mux.HandleFunc("GET /api/docs/{id}", h.Library.GetDoc)
	mux.HandleFunc("DELETE /api/docs/{id}", h.Library.DeleteDoc)
	mux.HandleFunc("GET /api/search", h.Search.Search)

	// Pages
	mux.HandleFunc("GET /{$}", h.Pages.Home)
	mux.HandleFunc("GET /docs", h.Pages.Docs)
	mux.HandleFunc("GET /docs/{category}", h.Pages.Docs)
	mux.HandleFunc("GET /docs/{category}/{page}", h.Pages.Docs)
	mux.HandleFunc("GET /library", h.Pages.Library)
	mux.HandleFunc("GET /create", h.Pages.CreateForm)
	mux.HandleFunc("GET /generated/{id}", h.Pages.Generated)
	mux.HandleFunc("GET /generated/{id}/export.md", h.Pages.ExportMarkdown) // Must be more specific than {slug}
	mux.HandleFunc("GET /generated/{id}/export.html", h.Pages.ExportHTML)
	mux.HandleFunc("GET /generated/{id}/{slug}", h.Pages.Generated)
	mux.HandleFunc("GET /static/code.css", h.Pages.CodeCSS)
	mux.HandleFunc("/", h.Pages.NotFound)
}
