package handler

import (
	"net/http"

	"docsite/internal/content"
	"docsite/internal/httputil"
	"docsite/internal/navigation"
)

// SearchHandler answers the static-docs search box.
type SearchHandler struct {
	entries []navigation.Entry
}

func NewSearchHandler(catalog *content.Catalog) *SearchHandler {
	return &SearchHandler{entries: navigation.Flatten(DocsPrefix, catalog.Categories())}
}

type searchResult struct {
	Category      string `json:"category"`
	CategoryTitle string `json:"categoryTitle"`
	Slug          string `json:"slug"`
	Title         string `json:"title"`
	Description   string `json:"description,omitempty"`
	Path          string `json:"path"`
}

// Search returns matching pages, or suggestions for a blank query.
// GET /api/search?q=
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	matches := navigation.Search(h.entries, r.URL.Query().Get("q"))

	results := make([]searchResult, 0, len(matches))
	for _, e := range matches {
		results = append(results, searchResult{
			Category:      e.CategorySlug,
			CategoryTitle: e.CategoryTitle,
			Slug:          e.Page.Slug,
			Title:         e.Page.Title,
			Description:   e.Page.Description,
			Path:          e.Path,
		})
	}
	httputil.RespondJSON(w, http.StatusOK, results)
}
