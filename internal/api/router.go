package api

import "net/http"

func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	// Exams
	mux.HandleFunc("POST /exams", h.importExam)
	mux.HandleFunc("GET /exams", h.listExams)
	mux.HandleFunc("GET /exams/{examID}", h.getExam)
	mux.HandleFunc("DELETE /exams/{examID}", h.deleteExam)

	// Scoring
	mux.HandleFunc("POST /exams/{examID}/score", h.scoreExam)
	mux.HandleFunc("POST /exams/{examID}/score/batch", h.scoreBatch)

	// Sheets
	mux.HandleFunc("POST /sheets", h.createSheet)
	mux.HandleFunc("GET /sheets/{sheetID}", h.getSheet)
	mux.HandleFunc("PUT /sheets/{sheetID}/answers", h.saveAnswers)
	mux.HandleFunc("POST /sheets/{sheetID}/submit", h.submitSheet)
}
