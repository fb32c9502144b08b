package api

import (
	"net/http"

	"github.com/listenband/backend/internal/domain/answersheet"
	"github.com/listenband/backend/internal/scoring"
	"github.com/listenband/backend/internal/service"
)

// ── Request / Response types ────────────────────────────────────────────────

type ScoreRequest struct {
	Answers answersheet.Answers `json:"answers"`
}

type BatchScoreRequest struct {
	Submissions []service.Submission `json:"submissions"`
}

type BatchScoreResponse struct {
	Results []service.BatchResult `json:"results"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// scoreExam grades one set of answers without keeping anything.
// @Summary      Score answers
// @Description  Answers are keyed by question id. A value is a string (fill-in, single choice), an array (multi choice) or an object (diagram label id or matching item → value). Add format=text for the plain-text report.
// @Tags         Scoring
// @Accept       json
// @Produce      json
// @Produce      plain
// @Param        examID  path      string        true   "Exam ID"
// @Param        format  query     string        false  "json (default) or text"
// @Param        body    body      ScoreRequest  true   "Answers"
// @Success      200     {object}  scoring.Report
// @Failure      400     {object}  map[string]string
// @Failure      404     {object}  map[string]string
// @Failure      500     {object}  map[string]string
// @Router       /exams/{examID}/score [post]
func (h *Handler) scoreExam(w http.ResponseWriter, r *http.Request) {
	var req ScoreRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	rep, err := h.scoring.Score(r.Context(), r.PathValue("examID"), req.Answers)
	if h.handleScoringError(w, err) {
		return
	}
	h.respondReport(w, r, rep)
}

// scoreBatch grades several independent submissions against one exam.
// @Summary      Score a batch
// @Description  Each submission is scored on its own; a bad submission gets an error entry and the rest still score.
// @Tags         Scoring
// @Accept       json
// @Produce      json
// @Param        examID  path      string             true  "Exam ID"
// @Param        body    body      BatchScoreRequest  true  "Submissions"
// @Success      200     {object}  BatchScoreResponse
// @Failure      400     {object}  map[string]string
// @Failure      404     {object}  map[string]string
// @Failure      500     {object}  map[string]string
// @Router       /exams/{examID}/score/batch [post]
func (h *Handler) scoreBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchScoreRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.Submissions) == 0 {
		respondError(w, http.StatusBadRequest, "no submissions")
		return
	}

	results, err := h.scoring.ScoreBatch(r.Context(), r.PathValue("examID"), req.Submissions)
	if h.handleScoringError(w, err) {
		return
	}
	respondJSON(w, http.StatusOK, BatchScoreResponse{Results: results})
}

func (h *Handler) respondReport(w http.ResponseWriter, r *http.Request, rep *scoring.Report) {
	if r.URL.Query().Get("format") != "text" {
		respondJSON(w, http.StatusOK, rep)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := scoring.WriteText(w, rep); err != nil {
		h.logger.Error("write text report", "error", err)
	}
}
