package api

import (
	"errors"
	"io"
	"net/http"
)

// ── Request / Response types ────────────────────────────────────────────────

type ImportExamResponse struct {
	ID        string `json:"id" example:"3f9c2a71b4d84e10"`
	Title     string `json:"title" example:"Listening Practice Test 2"`
	Parts     int    `json:"parts" example:"4"`
	Questions int    `json:"questions" example:"12"`
	Units     int    `json:"units" example:"17"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// importExam adds an exam document to the catalog.
// @Summary      Import an exam
// @Description  Validate an exam document and add it to the catalog. Every question is checked at import time.
// @Tags         Exams
// @Accept       json
// @Produce      json
// @Param        title  query     string  false  "Title overriding the document title"
// @Param        body   body      object  true   "Exam document"
// @Success      201    {object}  ImportExamResponse
// @Failure      400    {object}  map[string]string
// @Failure      500    {object}  map[string]string
// @Router       /exams [post]
func (h *Handler) importExam(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, "exam document too large")
			return
		}
		respondError(w, http.StatusBadRequest, "failed to read body")
		return
	}

	ex, err := h.scoring.ImportExam(r.Context(), data, r.URL.Query().Get("title"))
	if h.handleScoringError(w, err) {
		return
	}

	respondJSON(w, http.StatusCreated, ImportExamResponse{
		ID:        ex.ID,
		Title:     ex.Title,
		Parts:     len(ex.Parts),
		Questions: ex.QuestionCount(),
		Units:     ex.Units(),
	})
}

// listExams lists the catalog.
// @Summary      List exams
// @Tags         Exams
// @Produce      json
// @Success      200  {array}   store.ExamSummary
// @Failure      500  {object}  map[string]string
// @Router       /exams [get]
func (h *Handler) listExams(w http.ResponseWriter, r *http.Request) {
	exams, err := h.store.ListExams(r.Context())
	if err != nil {
		h.logger.Error("list exams", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load exams")
		return
	}
	respondJSON(w, http.StatusOK, exams)
}

// getExam returns an exam without its answer keys, ready for rendering.
// @Summary      Get an exam
// @Description  Returns parts, instructions, audio references and questions. Answer keys are stripped.
// @Tags         Exams
// @Produce      json
// @Param        examID  path      string  true  "Exam ID"
// @Success      200     {object}  exam.Exam
// @Failure      404     {object}  map[string]string
// @Failure      500     {object}  map[string]string
// @Router       /exams/{examID} [get]
func (h *Handler) getExam(w http.ResponseWriter, r *http.Request) {
	ex, err := h.store.GetExam(r.Context(), r.PathValue("examID"))
	if h.handleStoreError(w, err, "exam") {
		return
	}
	respondJSON(w, http.StatusOK, ex.Redacted())
}

// deleteExam removes an exam from the catalog.
// @Summary      Delete an exam
// @Tags         Exams
// @Param        examID  path  string  true  "Exam ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /exams/{examID} [delete]
func (h *Handler) deleteExam(w http.ResponseWriter, r *http.Request) {
	if h.handleStoreError(w, h.store.DeleteExam(r.Context(), r.PathValue("examID")), "exam") {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
