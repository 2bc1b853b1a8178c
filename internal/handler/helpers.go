package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"docsite/internal/domain"
	"docsite/internal/httputil"
)

// handleError converts domain errors to RFC 7807 responses.
func handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
	default:
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// respondServiceError answers the generation and chat endpoints, whose
// clients expect {"error": "..."}. Upstream 429 and 402 keep their status.
func respondServiceError(w http.ResponseWriter, logger *slog.Logger, err error) {
	status, message := serviceError(err)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "error", err)
	} else {
		logger.Info("request rejected", "status", status, "error", err)
	}
	httputil.RespondMessage(w, status, message)
}

// Messages for failures whose error text carries provider or database detail.
// Callers log the full error.
const (
	upstreamFailedMessage    = "upstream request failed"
	malformedDocMessage      = "failed to parse generated documentation"
	persistenceFailedMessage = "failed to save documentation"
	internalErrorMessage     = "internal server error"
)

// serviceError maps an error to a status and a client-safe message. Only
// client errors (4xx) echo the error text.
func serviceError(err error) (int, string) {
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout, "upstream timed out"
	}

	var upstream *domain.UpstreamError
	if errors.As(err, &upstream) {
		switch upstream.Status {
		case http.StatusTooManyRequests, http.StatusPaymentRequired:
			return upstream.Status, upstream.Message
		}
		return http.StatusBadGateway, upstreamFailedMessage
	}

	var httpErr domain.HTTPError
	if !errors.As(err, &httpErr) {
		return http.StatusInternalServerError, internalErrorMessage
	}

	status := httpErr.StatusCode()
	switch {
	case status < http.StatusInternalServerError:
		return status, err.Error()
	case errors.Is(err, domain.ErrMalformedGeneration):
		return status, malformedDocMessage
	case errors.Is(err, domain.ErrPersistence):
		return status, persistenceFailedMessage
	case status == http.StatusBadGateway:
		return status, upstreamFailedMessage
	}
	return status, internalErrorMessage
}
