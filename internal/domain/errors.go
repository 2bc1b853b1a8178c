package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound            = errors.New("not found")
	ErrValidation          = errors.New("validation failed")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrUpstream            = errors.New("upstream error")
	ErrRateLimited         = errors.New("rate limits exceeded, please try again later")
	ErrQuotaExceeded       = errors.New("payment required, please add funds")
	ErrMalformedGeneration = errors.New("malformed generation")
	ErrPersistence         = errors.New("persistence failed")

	// ErrStreamDecode marks a stream payload that could not be parsed yet.
	// It is absorbed by the chat decoder and never returned to callers.
	ErrStreamDecode = errors.New("stream payload not decodable")
)

type (
	// NotFoundError indicates a resource was not found
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates invalid input caught before any network call
	ValidationError struct {
		Message string
	}

	// UnauthorizedError indicates the bearer credential was missing or rejected
	UnauthorizedError struct {
		Message string
	}
)

func (e *NotFoundError) Error() string     { return e.Message }
func (e *ValidationError) Error() string   { return e.Message }
func (e *UnauthorizedError) Error() string { return e.Message }

func (e *NotFoundError) StatusCode() int     { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int   { return http.StatusBadRequest }
func (e *UnauthorizedError) StatusCode() int { return http.StatusUnauthorized }

func (e *NotFoundError) Is(target error) bool     { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool   { return target == ErrValidation }
func (e *UnauthorizedError) Is(target error) bool { return target == ErrUnauthorized }

// NewValidationError builds a ValidationError with a formatted message.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// UpstreamError represents a failed call to the generation or chat service.
// Status is the HTTP status returned by the upstream, or 0 for transport failures.
type UpstreamError struct {
	Status  int
	Message string
	Err     error
}

func (e *UpstreamError) Error() string {
	switch {
	case e.Message != "" && e.Status != 0:
		return fmt.Sprintf("upstream error (status %d): %s", e.Status, e.Message)
	case e.Message != "":
		return "upstream error: " + e.Message
	case e.Err != nil:
		return "upstream error: " + e.Err.Error()
	default:
		return fmt.Sprintf("upstream error (status %d)", e.Status)
	}
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Is matches ErrUpstream for every upstream failure, plus the specific
// rate-limit and quota sentinels for 429 and 402.
func (e *UpstreamError) Is(target error) bool {
	switch target {
	case ErrUpstream:
		return true
	case ErrRateLimited:
		return e.Status == http.StatusTooManyRequests
	case ErrQuotaExceeded:
		return e.Status == http.StatusPaymentRequired
	}
	return false
}

// StatusCode maps upstream failures onto the status this service answers with.
func (e *UpstreamError) StatusCode() int {
	switch e.Status {
	case http.StatusTooManyRequests, http.StatusPaymentRequired:
		return e.Status
	}
	return http.StatusBadGateway
}

// User-facing messages for the two upstream statuses callers can act on.
const (
	RateLimitedMessage   = "Rate limits exceeded, please try again later."
	QuotaExceededMessage = "Payment required, please add funds."
)

// NewUpstreamError classifies an upstream HTTP status and message.
// 429 and 402 always carry the fixed user-facing messages.
func NewUpstreamError(status int, message string) *UpstreamError {
	switch status {
	case http.StatusTooManyRequests:
		message = RateLimitedMessage
	case http.StatusPaymentRequired:
		message = QuotaExceededMessage
	}
	return &UpstreamError{Status: status, Message: message}
}

// WrapUpstreamError is NewUpstreamError keeping the underlying cause.
func WrapUpstreamError(status int, message string, err error) *UpstreamError {
	e := NewUpstreamError(status, message)
	e.Err = err
	return e
}

// MalformedGenerationError is returned when a generation response parsed as
// text but did not carry the expected structure.
type MalformedGenerationError struct {
	Reason string
	Err    error
}

func (e *MalformedGenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to parse generated documentation: %s: %v", e.Reason, e.Err)
	}
	return "failed to parse generated documentation: " + e.Reason
}

func (e *MalformedGenerationError) Unwrap() error { return e.Err }
func (e *MalformedGenerationError) Is(target error) bool {
	return target == ErrMalformedGeneration
}
func (e *MalformedGenerationError) StatusCode() int { return http.StatusBadGateway }

// PersistenceError wraps a store failure that happened after a successful generation.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to save documentation (%s): %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error        { return e.Err }
func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }
func (e *PersistenceError) StatusCode() int      { return http.StatusInternalServerError }
