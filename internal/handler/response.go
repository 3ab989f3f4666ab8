package handler

// RESPONSE HELPERS:
// Every JSON response goes through writeJSON, and every failure through
// writeError, so the frontend always sees the same envelope:
//
//	success: {"success": true, "data": ..., "message": "..."}
//	list:    {"success": true, "data": [...], "pagination": {...}}
//	failure: {"success": false, "error": "validation_error", "message": "...", "field": "text"}

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/mini-diary/internal/apperror"
	"github.com/sakif/mini-diary/internal/model"
	"github.com/sakif/mini-diary/internal/query"
)

// DataResponse wraps a single payload.
type DataResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data"`
	Message string `json:"message,omitempty"`
}

// ListResponse is one page of diaries. Data is never null; an empty page is [].
type ListResponse struct {
	Success    bool             `json:"success"`
	Data       []model.Diary    `json:"data"`
	Pagination query.Pagination `json:"pagination"`
}

// MessageResponse carries only a confirmation message.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ErrorResponse is the standard error format returned by all API endpoints.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`           // Machine-readable error type (e.g., "not_found")
	Message string `json:"message"`         // Human-readable description
	Field   string `json:"field,omitempty"` // Rejected input field, for validation errors
}

// writeJSON sends a JSON response with the given status code. Headers must be
// set before WriteHeader; anything set afterwards is silently dropped.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent; logging is all that is left.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to an HTTP status and sends it.
//
// ERROR MAPPING:
//
//	apperror.ErrValidation → 400 validation_error (with field)
//	apperror.ErrNotFound   → 404 not_found
//	anything else          → 500 internal_error, generic message
//
// Internal error text never reaches the client; it can contain file paths or
// SQL. It is logged instead.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		switch {
		case errors.Is(err, apperror.ErrValidation):
			writeJSON(w, http.StatusBadRequest, ErrorResponse{
				Error:   "validation_error",
				Message: appErr.Message,
				Field:   appErr.Field,
			})
			return
		case errors.Is(err, apperror.ErrNotFound):
			writeJSON(w, http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: appErr.Message,
			})
			return
		}
	}

	slog.Error("internal error", slog.String("error", err.Error()))
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}

// NotFound answers requests for routes that do not exist.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, ErrorResponse{
		Error:   "not_found",
		Message: "route " + r.Method + " " + r.URL.Path + " not found",
	})
}

// MethodNotAllowed answers requests whose path exists under another method.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{
		Error:   "method_not_allowed",
		Message: "method " + r.Method + " is not allowed on " + r.URL.Path,
	})
}
