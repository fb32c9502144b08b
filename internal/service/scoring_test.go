package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/listenband/backend/internal/domain/answersheet"
	"github.com/listenband/backend/internal/domain/exam"
	"github.com/listenband/backend/internal/metrics"
	"github.com/listenband/backend/internal/scoring"
	"github.com/listenband/backend/internal/service"
	"github.com/listenband/backend/internal/store"
)

func newService(t *testing.T, opts ...service.Option) *service.ScoringService {
	t.Helper()
	svc, _ := newServiceWithStore(t, opts...)
	return svc
}

func newServiceWithStore(t *testing.T, opts ...service.Option) (*service.ScoringService, *store.SQLiteStore) {
	t.Helper()
	db, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return service.NewScoringService(db, scoring.NewEngine(), metrics.New(), 2, logger, opts...), db
}

// fakeClock is advanced by hand in expiry tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func importSample(t *testing.T, svc *service.ScoringService) *exam.Exam {
	t.Helper()
	data, err := os.ReadFile("../../testdata/listening.json")
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	ex, err := svc.ImportExam(context.Background(), data, "")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	return ex
}

func TestImportExam(t *testing.T) {
	svc := newService(t)
	ex := importSample(t, svc)

	if ex.ID == "" {
		t.Error("expected an exam id")
	}
	if ex.Title != "Listening Practice Test 2" {
		t.Errorf("expected document title, got %q", ex.Title)
	}

	data, _ := os.ReadFile("../../testdata/listening.json")
	renamed, err := svc.ImportExam(context.Background(), data, "Mock A")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if renamed.Title != "Mock A" {
		t.Errorf("expected title override, got %q", renamed.Title)
	}
	if renamed.ID == ex.ID {
		t.Error("expected distinct ids for separate imports")
	}
}

func TestImportExam_Malformed(t *testing.T) {
	svc := newService(t)
	_, err := svc.ImportExam(context.Background(), []byte(`[{"Part 1": {"questions": [{"answer": "x"}]}}]`), "")
	if !errors.Is(err, exam.ErrMalformedQuestion) {
		t.Errorf("expected ErrMalformedQuestion, got %v", err)
	}
}

func TestScore(t *testing.T) {
	svc := newService(t)
	ex := importSample(t, svc)

	rep, err := svc.Score(context.Background(), ex.ID, answersheet.Answers{
		"part1-q1": answersheet.Text("riverside"),
		"part4-q2": answersheet.Fields(map[string]string{"X1": "valve", "X2": ""}),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rep.ExamID != ex.ID {
		t.Errorf("expected exam id %q, got %q", ex.ID, rep.ExamID)
	}
	if rep.Correct != 2 || rep.Total != 17 || rep.Unanswered != 15 {
		t.Errorf("unexpected tally %+v", rep.Tally)
	}
}

func TestScore_Errors(t *testing.T) {
	svc := newService(t)
	ex := importSample(t, svc)
	ctx := context.Background()

	if _, err := svc.Score(ctx, "missing", nil); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	_, err := svc.Score(ctx, ex.ID, answersheet.Answers{"Where will the tour start?": answersheet.Text("B")})
	if !errors.Is(err, service.ErrUnknownQuestion) {
		t.Errorf("expected ErrUnknownQuestion for prompt-keyed answer, got %v", err)
	}

	_, err = svc.Score(ctx, ex.ID, answersheet.Answers{"part1-q1": answersheet.Choices("a")})
	if !errors.Is(err, answersheet.ErrResponseShape) {
		t.Errorf("expected ErrResponseShape, got %v", err)
	}
}

func TestScoreBatch(t *testing.T) {
	svc := newService(t)
	ex := importSample(t, svc)

	subs := []service.Submission{
		{ID: "alice", Answers: answersheet.Answers{"part1-q1": answersheet.Text("Riverside")}},
		{ID: "bob", Answers: answersheet.Answers{"nope": answersheet.Text("x")}},
		{ID: "carol", Answers: nil},
	}

	results, err := svc.ScoreBatch(context.Background(), ex.ID, subs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	if results[0].ID != "alice" || results[0].Report == nil || results[0].Report.Correct != 1 {
		t.Errorf("unexpected result for alice: %+v", results[0])
	}
	if results[1].ID != "bob" || results[1].Error == "" || results[1].Report != nil {
		t.Errorf("expected error entry for bob, got %+v", results[1])
	}
	if results[2].Report == nil || results[2].Report.Unanswered != 17 || results[2].Report.Band != 0 {
		t.Errorf("expected all-unanswered report for carol, got %+v", results[2])
	}
}

func TestSheetLifecycle(t *testing.T) {
	svc := newService(t)
	ex := importSample(t, svc)
	ctx := context.Background()

	sheet, err := svc.CreateSheet(ctx, ex.ID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if sheet.Questions != 12 || sheet.Answered != 0 {
		t.Errorf("unexpected new sheet %+v", sheet)
	}

	if _, err := svc.SaveAnswers(ctx, sheet.ID, answersheet.Answers{
		"part1-q1": answersheet.Text("Riverside"),
		"part4-q2": answersheet.Fields(map[string]string{"X1": "valve"}),
	}); err != nil {
		t.Fatalf("save: %v", err)
	}

	view, err := svc.SaveAnswers(ctx, sheet.ID, answersheet.Answers{
		"part4-q2": answersheet.Fields(map[string]string{"X2": "pump"}),
	})
	if err != nil {
		t.Fatalf("save label: %v", err)
	}
	if view.Answered != 2 {
		t.Errorf("expected 2 answered, got %d", view.Answered)
	}
	if f := view.Answers["part4-q2"].Fields; f["X1"] != "valve" || f["X2"] != "pump" {
		t.Errorf("expected labels merged, got %v", f)
	}

	got, err := svc.GetSheet(ctx, sheet.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ExamID != ex.ID {
		t.Errorf("expected exam id %q, got %q", ex.ID, got.ExamID)
	}

	rep, err := svc.Submit(ctx, sheet.ID)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if rep.Correct != 3 {
		t.Errorf("expected 3 correct units, got %d", rep.Correct)
	}

	if _, err := svc.Submit(ctx, sheet.ID); !errors.Is(err, service.ErrSheetSubmitted) {
		t.Errorf("expected ErrSheetSubmitted on resubmit, got %v", err)
	}
	if _, err := svc.SaveAnswers(ctx, sheet.ID, answersheet.Answers{}); !errors.Is(err, service.ErrSheetSubmitted) {
		t.Errorf("expected ErrSheetSubmitted on save after submit, got %v", err)
	}
	if _, err := svc.GetSheet(ctx, sheet.ID); !errors.Is(err, service.ErrSheetSubmitted) {
		t.Errorf("expected ErrSheetSubmitted on get after submit, got %v", err)
	}
}

func TestSheet_Errors(t *testing.T) {
	svc := newService(t)
	ex := importSample(t, svc)
	ctx := context.Background()

	if _, err := svc.CreateSheet(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.GetSheet(ctx, "missing"); !errors.Is(err, service.ErrSheetNotFound) {
		t.Errorf("expected ErrSheetNotFound, got %v", err)
	}
	if _, err := svc.Submit(ctx, "missing"); !errors.Is(err, service.ErrSheetNotFound) {
		t.Errorf("expected ErrSheetNotFound, got %v", err)
	}

	sheet, err := svc.CreateSheet(ctx, ex.ID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err = svc.SaveAnswers(ctx, sheet.ID, answersheet.Answers{"part9-q1": answersheet.Text("x")})
	if !errors.Is(err, service.ErrUnknownQuestion) {
		t.Errorf("expected ErrUnknownQuestion, got %v", err)
	}
}

func TestSubmit_ConcurrentOnlyOneWins(t *testing.T) {
	svc := newService(t)
	ex := importSample(t, svc)
	ctx := context.Background()

	sheet, err := svc.CreateSheet(ctx, ex.ID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Submit(ctx, sheet.ID); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if wins != 1 {
		t.Errorf("expected exactly one successful submit, got %d", wins)
	}
}

func TestScore_UnknownFieldKeys(t *testing.T) {
	svc := newService(t)
	ex := importSample(t, svc)
	ctx := context.Background()

	tests := []struct {
		name    string
		answers answersheet.Answers
	}{
		{"diagram label", answersheet.Answers{"part4-q2": answersheet.Fields(map[string]string{"NOPE": "valve"})}},
		{"diagram mixed", answersheet.Answers{"part4-q2": answersheet.Fields(map[string]string{"X1": "valve", "X9": "pump"})}},
		{"matching left", answersheet.Answers{"part3-q3": answersheet.Fields(map[string]string{"Dr Smith": "statistics"})}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Score(ctx, ex.ID, tt.answers); !errors.Is(err, service.ErrUnknownQuestion) {
				t.Errorf("expected ErrUnknownQuestion, got %v", err)
			}
		})
	}

	rep, err := svc.Score(ctx, ex.ID, answersheet.Answers{
		"part4-q2": answersheet.Fields(map[string]string{"X1": "valve"}),
		"part3-q3": answersheet.Fields(map[string]string{"Dr Lee": "field research"}),
	})
	if err != nil {
		t.Fatalf("expected known keys to score, got %v", err)
	}
	if rep.Correct != 2 {
		t.Errorf("expected 2 correct, got %d", rep.Correct)
	}

	sheet, err := svc.CreateSheet(ctx, ex.ID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err = svc.SaveAnswers(ctx, sheet.ID, answersheet.Answers{"part4-q2": answersheet.Fields(map[string]string{"NOPE": "valve"})})
	if !errors.Is(err, service.ErrUnknownQuestion) {
		t.Errorf("expected ErrUnknownQuestion on save, got %v", err)
	}
}

func TestSheet_Expiry(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)}
	svc := newService(t, service.WithSheetTTL(time.Hour), service.WithClock(clock.Now))
	ex := importSample(t, svc)
	ctx := context.Background()

	idle, err := svc.CreateSheet(ctx, ex.ID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	active, err := svc.CreateSheet(ctx, ex.ID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	submitted, err := svc.CreateSheet(ctx, ex.ID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Submit(ctx, submitted.ID); err != nil {
		t.Fatalf("submit: %v", err)
	}

	clock.Advance(40 * time.Minute)
	if _, err := svc.GetSheet(ctx, active.ID); err != nil {
		t.Fatalf("expected active sheet to be open, got %v", err)
	}

	clock.Advance(40 * time.Minute)
	if _, err := svc.GetSheet(ctx, idle.ID); !errors.Is(err, service.ErrSheetNotFound) {
		t.Errorf("expected ErrSheetNotFound for idle sheet, got %v", err)
	}
	if _, err := svc.GetSheet(ctx, active.ID); err != nil {
		t.Errorf("expected recently used sheet to be open, got %v", err)
	}
	if _, err := svc.Submit(ctx, submitted.ID); !errors.Is(err, service.ErrSheetNotFound) {
		t.Errorf("expected old submission record to be dropped, got %v", err)
	}

	clock.Advance(2 * time.Hour)
	if n := svc.OpenSheets(); n != 0 {
		t.Errorf("expected every sheet swept, got %d", n)
	}
}

func TestSubmit_ExamMissingKeepsSheet(t *testing.T) {
	svc, db := newServiceWithStore(t)
	ex := importSample(t, svc)
	ctx := context.Background()

	sheet, err := svc.CreateSheet(ctx, ex.ID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.SaveAnswers(ctx, sheet.ID, answersheet.Answers{"part1-q1": answersheet.Text("Riverside")}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := db.DeleteExam(ctx, ex.ID); err != nil {
		t.Fatalf("delete exam: %v", err)
	}

	if _, err := svc.Submit(ctx, sheet.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// Restore the exam under the same id; the answers must still be there.
	if err := db.SaveExam(ctx, ex); err != nil {
		t.Fatalf("restore exam: %v", err)
	}
	rep, err := svc.Submit(ctx, sheet.ID)
	if err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if rep.Correct != 1 {
		t.Errorf("expected the saved answer to be scored, got %d correct", rep.Correct)
	}
}
