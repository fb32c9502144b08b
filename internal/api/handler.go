// internal/api/handler.go
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/listenband/backend/internal/domain/answersheet"
	"github.com/listenband/backend/internal/domain/exam"
	"github.com/listenband/backend/internal/service"
	"github.com/listenband/backend/internal/store"
)

const maxBodyBytes = 4 << 20

// Handler holds all dependencies needed by HTTP handlers.
type Handler struct {
	store   store.Store
	scoring *service.ScoringService
	logger  *slog.Logger
}

// NewHandler creates a Handler with the given dependencies.
func NewHandler(s store.Store, svc *service.ScoringService, logger *slog.Logger) *Handler {
	return &Handler{
		store:   s,
		scoring: svc,
		logger:  logger,
	}
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// decodeJSON reads the request body into v. On failure it writes a 400 and
// returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// handleStoreError checks for common store errors and writes the appropriate
// HTTP response. Returns true if an error was handled (caller should return).
func (h *Handler) handleStoreError(w http.ResponseWriter, err error, entity string) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, entity+" not found")
		return true
	}
	h.logger.Error("store error", "error", err, "entity", entity)
	respondError(w, http.StatusInternalServerError, "internal error")
	return true
}

// handleScoringError maps loader, scoring and sheet errors onto status
// codes. Returns true if an error was handled.
func (h *Handler) handleScoringError(w http.ResponseWriter, err error) bool {
	if err == nil {
		return false
	}
	switch {
	case errors.Is(err, exam.ErrMalformedDocument),
		errors.Is(err, exam.ErrMalformedQuestion),
		errors.Is(err, exam.ErrUnsupportedQuestionType),
		errors.Is(err, answersheet.ErrResponseShape),
		errors.Is(err, service.ErrUnknownQuestion):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrSheetNotFound):
		respondError(w, http.StatusNotFound, "sheet not found")
	case errors.Is(err, service.ErrSheetSubmitted):
		respondError(w, http.StatusConflict, err.Error())
	default:
		return h.handleStoreError(w, err, "exam")
	}
	return true
}
