// Package handlers contains the JSON HTTP handlers for the API. Handlers
// are grouped by resource and receive their dependencies through the
// handler struct. Only this package maps domain errors to HTTP statuses.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rootv890/discovery-5/internal/catalog"
	"github.com/rootv890/discovery-5/internal/pagination"
	"github.com/rootv890/discovery-5/internal/store"
)

// maxBodySize caps request bodies at 1 MB.
const maxBodySize = 1 << 20

// Envelope is the uniform response shape for every endpoint. Data is
// always an array, even for single-object responses.
type Envelope struct {
	Success  bool                 `json:"success"`
	Message  string               `json:"message"`
	Data     any                  `json:"data"`
	Metadata *pagination.Metadata `json:"metadata,omitempty"`
	Error    *APIError            `json:"error,omitempty"`
}

// APIError is the error block of a failed response.
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// respond writes a success envelope. A nil data becomes an empty array.
func respond(w http.ResponseWriter, status int, message string, data any, meta *pagination.Metadata) {
	if data == nil {
		data = []any{}
	}
	writeJSON(w, status, Envelope{
		Success:  true,
		Message:  message,
		Data:     data,
		Metadata: meta,
	})
}

// respondError writes a failure envelope with the given status and message.
func respondError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, Envelope{
		Success: false,
		Message: http.StatusText(status),
		Data:    []any{},
		Error:   &APIError{Code: status, Message: message},
	})
}

// handleError maps a domain error onto an HTTP status. Unrecognized
// errors become an opaque 500; the detail goes to the log only.
func handleError(w http.ResponseWriter, err error) {
	var (
		validationErr *catalog.ValidationError
		identifierErr *catalog.InvalidIdentifierError
		notFoundErr   *catalog.NotFoundError
		duplicateErr  *catalog.DuplicateNameError
		constraintErr *catalog.ConstraintViolationError
	)

	switch {
	case errors.As(err, &validationErr), errors.As(err, &identifierErr):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &notFoundErr):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &duplicateErr), errors.As(err, &constraintErr):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, store.ErrDuplicate):
		respondError(w, http.StatusConflict, "resource already exists")
	default:
		slog.Error("unhandled request error", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// decode reads a JSON request body into v.
func decode(r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodySize)
	return json.NewDecoder(r.Body).Decode(v)
}
