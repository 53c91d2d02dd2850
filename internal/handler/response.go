package handler

// RESPONSE HELPERS:
// Every handler sends JSON through these two functions so the wire format
// stays uniform. Error responses always look like:
//
//	{"error": "not_found", "message": "video not found with id abc123"}
//
// and validation errors additionally carry the offending field:
//
//	{"error": "validation_error", "message": "title is required", "field": "title"}

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/video-catalog/internal/apperror"
)

// ErrorResponse is the standard error format returned by all API endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`           // machine-readable type (e.g. "not_found")
	Message string `json:"message"`         // human-readable description
	Field   string `json:"field,omitempty"` // offending field on validation errors
}

// writeJSON sends a JSON response with the given status code. Headers and
// status must go out before the body; Encode writes the body.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers already sent — logging is all that's left.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to its HTTP status code and sends it.
//
// The service layer speaks apperror sentinels, not status codes; this is
// the single place they become HTTP:
//
//	ErrValidation → 422   the request was well-formed but semantically bad
//	ErrNotFound   → 404
//	ErrForbidden  → 403
//	ErrConflict   → 409
//	ErrUpstream   → 500   the video platform API failed mid-call
//
// Malformed JSON is the handlers' own concern and gets a 400 before the
// service is ever involved — 400 and 422 are deliberately distinct.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		errorType := "internal_error"

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusUnprocessableEntity // 422
			errorType = "validation_error"
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound // 404
			errorType = "not_found"
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden // 403
			errorType = "forbidden"
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusConflict // 409
			errorType = "conflict"
		case errors.Is(err, apperror.ErrUpstream):
			status = http.StatusInternalServerError // 500
			errorType = "upstream_error"
		}

		writeJSON(w, status, ErrorResponse{
			Error:   errorType,
			Message: appErr.Message,
			Field:   appErr.Field,
		})
		return
	}

	// Unknown error — generic 500, never leak internals to the client.
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}

// writeBadRequest reports a malformed request (unparseable JSON, bad date
// format) before any domain logic runs.
func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{
		Error:   "bad_request",
		Message: message,
	})
}
