package handler

import (
	"log/slog"
	"net/http"

	"docsite/internal/domain/services"
	"docsite/internal/handler/sse"
	"docsite/internal/httputil"
)

// ChatHandler serves POST /docs-chat as a server-sent event stream.
type ChatHandler struct {
	service services.ChatService
	sseCfg  *sse.Config
	logger  *slog.Logger
}

func NewChatHandler(service services.ChatService, sseCfg *sse.Config, logger *slog.Logger) *ChatHandler {
	if sseCfg == nil {
		sseCfg = sse.DefaultConfig()
	}
	return &ChatHandler{service: service, sseCfg: sseCfg, logger: logger}
}

// Stream proxies one chat turn. Failures before the first event are
// answered with a JSON error; after that the stream is simply cut, and
// the missing [DONE] tells the client the turn did not complete.
// POST /docs-chat
func (h *ChatHandler) Stream(w http.ResponseWriter, r *http.Request) {
	var req services.ChatRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	stream, err := sse.NewStream(w, h.sseCfg, h.logger)
	if err != nil {
		h.logger.Error("response writer cannot stream", "error", err)
		httputil.RespondMessage(w, http.StatusInternalServerError, "streaming not supported")
		return
	}
	defer stream.Close()

	err = h.service.Stream(r.Context(), &req, stream.WriteData)
	if err == nil {
		return
	}
	if !stream.Started() {
		respondServiceError(w, h.logger, err)
		return
	}
	h.logger.Warn("chat stream ended early", "error", err, "messages", len(req.Messages))
}
