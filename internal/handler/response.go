package handler

// RESPONSE HELPERS:
// Every endpoint answers with the same envelope:
//
//	{"success": true,  "message": "...", "data": {...}}
//	{"success": false, "error": "...",   "message": "..."}
//
// One shape for every status code means the frontend parses responses
// with a single code path. writeError is the one place domain errors
// become HTTP status codes — handlers never touch status mapping
// themselves.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/rewear/internal/apperror"
)

// Envelope is the uniform response body.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// writeJSON sends a JSON response with the given status code. Headers
// and status must be set before the first body write — Encode writes.
func writeJSON(w http.ResponseWriter, status int, body Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		// Headers are already gone; all we can do is log.
		slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
	}
}

// writeSuccess sends a success envelope carrying data.
func writeSuccess(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, Envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// writeError maps a domain error to an HTTP status and sends the
// failure envelope.
//
// The service layer returns apperror sentinels; errors.Is walks the
// wrap chain so the mapping works no matter how many fmt.Errorf("%w")
// layers the error passed through. Anything unrecognized is a 500 with
// the detail suppressed — raw errors can leak SQL or file paths.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		errorType := "internal_error"

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
			errorType = "validation_error"
		case errors.Is(err, apperror.ErrInvalidOperation):
			status = http.StatusBadRequest
			errorType = "invalid_operation"
		case errors.Is(err, apperror.ErrAuth):
			status = http.StatusUnauthorized
			errorType = "unauthorized"
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden
			errorType = "forbidden"
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
			errorType = "not_found"
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusConflict
			errorType = "conflict"
		}

		writeJSON(w, status, Envelope{
			Success: false,
			Error:   errorType,
			Message: appErr.Message,
		})
		return
	}

	writeJSON(w, http.StatusInternalServerError, Envelope{
		Success: false,
		Error:   "internal_error",
		Message: "an internal error occurred",
	})
}

// writeBadRequest reports a malformed request body (not-even-JSON, as
// opposed to valid JSON failing domain validation).
func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, Envelope{
		Success: false,
		Error:   "bad_request",
		Message: message,
	})
}
