package handler

import (
	"log/slog"
	"net/http"

	"docsite/internal/domain/models/docs"
	"docsite/internal/domain/services"
	"docsite/internal/httputil"
)

// GenerateHandler serves POST /generate-docs.
type GenerateHandler struct {
	service services.GenerationService
	logger  *slog.Logger
}

func NewGenerateHandler(service services.GenerationService, logger *slog.Logger) *GenerateHandler {
	return &GenerateHandler{service: service, logger: logger}
}

type generateResponse struct {
	Success     bool          `json:"success"`
	DocID       *string       `json:"docId"`
	Topic       string        `json:"topic"`
	Description string        `json:"description"`
	Sections    []sectionBody `json:"sections"`
}

type sectionBody struct {
	Slug    string `json:"slug"`
	Title   string `json:"title"`
	Icon    string `json:"icon"`
	Content string `json:"content"`
}

// Generate runs one generation. docId is null unless the request asked to save.
// POST /generate-docs
func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req services.GenerateRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.service.Generate(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, newGenerateResponse(result))
}

func newGenerateResponse(result *services.GenerateResult) generateResponse {
	resp := generateResponse{
		Success:     true,
		Topic:       result.Topic,
		Description: result.Description,
		Sections:    make([]sectionBody, 0, len(result.Sections)),
	}
	if result.DocID != "" {
		resp.DocID = &result.DocID
	}
	for _, s := range result.Sections {
		resp.Sections = append(resp.Sections, sectionBody{
			Slug:    s.Slug,
			Title:   s.Title,
			Icon:    docs.NormalizeIcon(s.Icon),
			Content: s.Content,
		})
	}
	return resp
}
