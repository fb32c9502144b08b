package api

import (
	"net/http"

	"github.com/listenband/backend/internal/domain/answersheet"
)

// ── Request / Response types ────────────────────────────────────────────────

type CreateSheetRequest struct {
	ExamID string `json:"exam_id" example:"3f9c2a71b4d84e10"`
}

type SaveAnswersRequest struct {
	Answers answersheet.Answers `json:"answers"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// createSheet opens an answer sheet.
// @Summary      Open an answer sheet
// @Description  Sheets live in memory until submitted. Nothing about an attempt is stored.
// @Tags         Sheets
// @Accept       json
// @Produce      json
// @Param        body  body      CreateSheetRequest  true  "Exam to answer"
// @Success      201   {object}  service.SheetView
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /sheets [post]
func (h *Handler) createSheet(w http.ResponseWriter, r *http.Request) {
	var req CreateSheetRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ExamID == "" {
		respondError(w, http.StatusBadRequest, "exam_id is required")
		return
	}

	sheet, err := h.scoring.CreateSheet(r.Context(), req.ExamID)
	if h.handleScoringError(w, err) {
		return
	}
	respondJSON(w, http.StatusCreated, sheet)
}

// saveAnswers records answers on an open sheet.
// @Summary      Save answers
// @Description  Merges the given answers into the sheet. Diagram and matching objects merge key by key.
// @Tags         Sheets
// @Accept       json
// @Produce      json
// @Param        sheetID  path      string              true  "Sheet ID"
// @Param        body     body      SaveAnswersRequest  true  "Answers"
// @Success      200      {object}  service.SheetView
// @Failure      400      {object}  map[string]string
// @Failure      404      {object}  map[string]string
// @Failure      409      {object}  map[string]string  "already submitted"
// @Router       /sheets/{sheetID}/answers [put]
func (h *Handler) saveAnswers(w http.ResponseWriter, r *http.Request) {
	var req SaveAnswersRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	sheet, err := h.scoring.SaveAnswers(r.Context(), r.PathValue("sheetID"), req.Answers)
	if h.handleScoringError(w, err) {
		return
	}
	respondJSON(w, http.StatusOK, sheet)
}

// getSheet returns the answers recorded so far.
// @Summary      Get an answer sheet
// @Tags         Sheets
// @Produce      json
// @Param        sheetID  path      string  true  "Sheet ID"
// @Success      200      {object}  service.SheetView
// @Failure      404      {object}  map[string]string
// @Failure      409      {object}  map[string]string  "already submitted"
// @Router       /sheets/{sheetID} [get]
func (h *Handler) getSheet(w http.ResponseWriter, r *http.Request) {
	sheet, err := h.scoring.GetSheet(r.Context(), r.PathValue("sheetID"))
	if h.handleScoringError(w, err) {
		return
	}
	respondJSON(w, http.StatusOK, sheet)
}

// submitSheet scores a sheet and closes it.
// @Summary      Submit an answer sheet
// @Tags         Sheets
// @Produce      json
// @Produce      plain
// @Param        sheetID  path      string  true   "Sheet ID"
// @Param        format   query     string  false  "json (default) or text"
// @Success      200      {object}  scoring.Report
// @Failure      404      {object}  map[string]string
// @Failure      409      {object}  map[string]string  "already submitted"
// @Failure      500      {object}  map[string]string
// @Router       /sheets/{sheetID}/submit [post]
func (h *Handler) submitSheet(w http.ResponseWriter, r *http.Request) {
	rep, err := h.scoring.Submit(r.Context(), r.PathValue("sheetID"))
	if h.handleScoringError(w, err) {
		return
	}
	h.respondReport(w, r, rep)
}
