package handler

import (
	"log/slog"
	"net/http"

	"docsite/internal/domain/services"
	"docsite/internal/httputil"
)

// LibraryHandler serves the saved-documentation JSON API.
type LibraryHandler struct {
	service services.LibraryService
	logger  *slog.Logger
}

func NewLibraryHandler(service services.LibraryService, logger *slog.Logger) *LibraryHandler {
	return &LibraryHandler{service: service, logger: logger}
}

// ListDocs returns saved docs, newest first, optionally filtered by ?q=.
// GET /api/docs
func (h *LibraryHandler) ListDocs(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.logger.Error("failed to list docs", "error", err)
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, list)
}

// GetDoc returns a doc with its sections.
// GET /api/docs/{id}
func (h *LibraryHandler) GetDoc(w http.ResponseWriter, r *http.Request) {
	doc, err := h.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, doc)
}

// DeleteDoc removes a doc and its sections.
// DELETE /api/docs/{id}
func (h *LibraryHandler) DeleteDoc(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.service.Delete(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}
	h.logger.Info("doc deleted", "doc_id", id, "subject", httputil.GetSubject(r))
	w.WriteHeader(http.StatusNoContent)
}
