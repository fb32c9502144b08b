package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/listenband/backend/internal/api"
	"github.com/listenband/backend/internal/metrics"
	"github.com/listenband/backend/internal/scoring"
	"github.com/listenband/backend/internal/service"
	"github.com/listenband/backend/internal/store"
)

func newServer(t *testing.T) http.Handler {
	t.Helper()
	db, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.NewScoringService(db, scoring.NewEngine(), metrics.New(), 2, logger)

	mux := http.NewServeMux()
	api.RegisterRoutes(mux, api.NewHandler(db, svc, logger))
	return api.Logging(logger)(mux)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, rdr))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rec.Body.String())
	}
}

func importSample(t *testing.T, h http.Handler) string {
	t.Helper()
	data, err := os.ReadFile("../../testdata/listening.json")
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/exams", bytes.NewReader(data)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp api.ImportExamResponse
	decode(t, rec, &resp)
	if resp.Questions != 12 || resp.Units != 17 || resp.Parts != 4 {
		t.Errorf("unexpected import summary %+v", resp)
	}
	return resp.ID
}

func TestImportAndListExams(t *testing.T) {
	h := newServer(t)
	id := importSample(t, h)

	rec := do(t, h, http.MethodGet, "/exams", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var list []store.ExamSummary
	decode(t, rec, &list)
	if len(list) != 1 || list[0].ID != id {
		t.Errorf("expected exam %s in list, got %+v", id, list)
	}
}

func TestImportExam_WithTitle(t *testing.T) {
	h := newServer(t)
	data, _ := os.ReadFile("../../testdata/listening.json")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/exams?title=Mock+B", bytes.NewReader(data)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var resp api.ImportExamResponse
	decode(t, rec, &resp)
	if resp.Title != "Mock B" {
		t.Errorf("expected title Mock B, got %q", resp.Title)
	}
}

func TestImportExam_Rejects(t *testing.T) {
	h := newServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"not json", `nope`},
		{"missing answer", `[{"Part 1": {"questions": [{"question": "Name"}]}}]`},
		{"unsupported type", `[{"Part 1": {"questions": [{"question": "Essay", "type": "essay", "answer": "x"}]}}]`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/exams", tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestGetExam_StripsKeys(t *testing.T) {
	h := newServer(t)
	id := importSample(t, h)

	rec := do(t, h, http.MethodGet, "/exams/"+id, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, secret := range []string{`"answer"`, `"answers"`, `"correct"`, "landlord"} {
		if strings.Contains(body, secret) {
			t.Errorf("expected %s to be stripped from exam view", secret)
		}
	}
	if !strings.Contains(body, "Complete the notes below.") {
		t.Error("expected default part instructions in exam view")
	}
}

func TestGetExam_NotFound(t *testing.T) {
	h := newServer(t)
	if rec := do(t, h, http.MethodGet, "/exams/missing", ""); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestDeleteExam(t *testing.T) {
	h := newServer(t)
	id := importSample(t, h)

	if rec := do(t, h, http.MethodDelete, "/exams/"+id, ""); rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if rec := do(t, h, http.MethodDelete, "/exams/"+id, ""); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 on second delete, got %d", rec.Code)
	}
}

func TestScoreExam(t *testing.T) {
	h := newServer(t)
	id := importSample(t, h)

	rec := do(t, h, http.MethodPost, "/exams/"+id+"/score", `{"answers": {
		"part1-q1": "Riverside",
		"part2-q1": "b) Central Library",
		"part3-q1": ["D", "A"],
		"part4-q2": {"X1": "valve", "X2": ""}
	}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var rep scoring.Report
	decode(t, rec, &rep)
	if rep.Correct != 4 || rep.Total != 17 {
		t.Errorf("expected 4 of 17 correct, got %d of %d", rep.Correct, rep.Total)
	}
	if rep.Correct+rep.Incorrect+rep.Unanswered != rep.Total {
		t.Error("counters do not sum to total")
	}
	if len(rep.Feedback) != 17 {
		t.Errorf("expected 17 feedback units, got %d", len(rep.Feedback))
	}
}

func TestScoreExam_TextFormat(t *testing.T) {
	h := newServer(t)
	id := importSample(t, h)

	rec := do(t, h, http.MethodPost, "/exams/"+id+"/score?format=text", `{"answers": {}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("expected text/plain, got %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "Band Score: 0") {
		t.Errorf("expected band line, got:\n%s", rec.Body.String())
	}
}

func TestScoreExam_Errors(t *testing.T) {
	h := newServer(t)
	id := importSample(t, h)

	tests := []struct {
		name string
		path string
		body string
		want int
	}{
		{"unknown exam", "/exams/missing/score", `{"answers": {}}`, http.StatusNotFound},
		{"unknown question", "/exams/" + id + "/score", `{"answers": {"Name of the apartment block": "Riverside"}}`, http.StatusBadRequest},
		{"wrong shape", "/exams/" + id + "/score", `{"answers": {"part1-q1": ["Riverside"]}}`, http.StatusBadRequest},
		{"unknown label", "/exams/" + id + "/score", `{"answers": {"part4-q2": {"NOPE": "valve"}}}`, http.StatusBadRequest},
		{"bad value", "/exams/" + id + "/score", `{"answers": {"part1-q1": true}}`, http.StatusBadRequest},
		{"bad body", "/exams/" + id + "/score", `{`, http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, tc.path, tc.body)
			if rec.Code != tc.want {
				t.Errorf("expected %d, got %d: %s", tc.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestScoreBatch(t *testing.T) {
	h := newServer(t)
	id := importSample(t, h)

	rec := do(t, h, http.MethodPost, "/exams/"+id+"/score/batch", `{"submissions": [
		{"id": "a", "answers": {"part1-q1": "Riverside"}},
		{"id": "b", "answers": {"part1-q1": {"x": "y"}}}
	]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp api.BatchScoreResponse
	decode(t, rec, &resp)
	if len(resp.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(resp.Results))
	}
	if resp.Results[0].Report == nil || resp.Results[0].Report.Correct != 1 {
		t.Errorf("unexpected first result %+v", resp.Results[0])
	}
	if resp.Results[1].Error == "" {
		t.Errorf("expected error for second result, got %+v", resp.Results[1])
	}

	if rec := do(t, h, http.MethodPost, "/exams/"+id+"/score/batch", `{"submissions": []}`); rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for empty batch, got %d", rec.Code)
	}
}

func TestSheetFlow(t *testing.T) {
	h := newServer(t)
	id := importSample(t, h)

	rec := do(t, h, http.MethodPost, "/sheets", `{"exam_id": "`+id+`"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var sheet service.SheetView
	decode(t, rec, &sheet)

	rec = do(t, h, http.MethodPut, "/sheets/"+sheet.ID+"/answers", `{"answers": {"part2-q3": {"Flat 1": "balcony"}}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	rec = do(t, h, http.MethodPut, "/sheets/"+sheet.ID+"/answers", `{"answers": {"part2-q3": {"Flat 2": "garage"}}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = do(t, h, http.MethodGet, "/sheets/"+sheet.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	decode(t, rec, &sheet)
	if f := sheet.Answers["part2-q3"].Fields; len(f) != 2 {
		t.Errorf("expected merged pairs, got %v", f)
	}

	rec = do(t, h, http.MethodPost, "/sheets/"+sheet.ID+"/submit", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var rep scoring.Report
	decode(t, rec, &rep)
	if rep.Correct != 2 {
		t.Errorf("expected 2 correct, got %d", rep.Correct)
	}

	if rec := do(t, h, http.MethodPost, "/sheets/"+sheet.ID+"/submit", ""); rec.Code != http.StatusConflict {
		t.Errorf("expected 409 on resubmit, got %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/sheets/unknown", ""); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown sheet, got %d", rec.Code)
	}
}

func TestCreateSheet_Errors(t *testing.T) {
	h := newServer(t)

	if rec := do(t, h, http.MethodPost, "/sheets", `{}`); rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 without exam_id, got %d", rec.Code)
	}
	if rec := do(t, h, http.MethodPost, "/sheets", `{"exam_id": "missing"}`); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown exam, got %d", rec.Code)
	}
}
