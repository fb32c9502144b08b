// internal/service/scoring.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/listenband/backend/internal/domain/answersheet"
	"github.com/listenband/backend/internal/domain/exam"
	"github.com/listenband/backend/internal/id"
	"github.com/listenband/backend/internal/metrics"
	"github.com/listenband/backend/internal/scoring"
	"github.com/listenband/backend/internal/store"
	"github.com/listenband/backend/internal/worker"
)

var (
	ErrSheetNotFound   = errors.New("answer sheet not found")
	ErrSheetSubmitted  = errors.New("answer sheet already submitted")
	ErrUnknownQuestion = errors.New("unknown question id")
)

// Submission is one entry of a batch scoring request.
type Submission struct {
	ID      string              `json:"id"`
	Answers answersheet.Answers `json:"answers"`
}

// BatchResult carries either the report or the error for one submission.
type BatchResult struct {
	ID     string          `json:"id"`
	Report *scoring.Report `json:"report,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// SheetView is a read-only snapshot of an answer sheet.
type SheetView struct {
	ID        string              `json:"id"`
	ExamID    string              `json:"exam_id"`
	Answers   answersheet.Answers `json:"answers"`
	Answered  int                 `json:"answered"`
	Questions int                 `json:"questions"`
	CreatedAt time.Time           `json:"created_at"`
}

// DefaultSheetTTL is how long an untouched sheet, or the record of a
// submitted one, is kept.
const DefaultSheetTTL = 2 * time.Hour

type openSheet struct {
	sheet    *answersheet.Sheet
	lastSeen time.Time
}

// ScoringService scores submissions against exams from the catalog and
// keeps in-progress answer sheets in memory until they are submitted.
type ScoringService struct {
	store   store.Store
	engine  *scoring.Engine
	metrics *metrics.Metrics
	workers int
	logger  *slog.Logger

	sheetTTL time.Duration
	now      func() time.Time

	mu        sync.Mutex
	sheets    map[string]*openSheet
	closed    map[string]time.Time // submitted sheet id → submission time
	lastSweep time.Time
}

// Option configures a ScoringService.
type Option func(*ScoringService)

// WithSheetTTL sets how long idle sheets and submitted sheet ids are kept.
// Non-positive values are ignored.
func WithSheetTTL(d time.Duration) Option {
	return func(s *ScoringService) {
		if d > 0 {
			s.sheetTTL = d
		}
	}
}

// WithClock replaces time.Now for sheet expiry.
func WithClock(now func() time.Time) Option {
	return func(s *ScoringService) {
		s.now = now
	}
}

// NewScoringService creates a ScoringService. workers bounds the number of
// submissions a batch scores concurrently.
func NewScoringService(s store.Store, e *scoring.Engine, m *metrics.Metrics, workers int, logger *slog.Logger, opts ...Option) *ScoringService {
	svc := &ScoringService{
		store:    s,
		engine:   e,
		metrics:  m,
		workers:  workers,
		logger:   logger,
		sheetTTL: DefaultSheetTTL,
		now:      time.Now,
		sheets:   make(map[string]*openSheet),
		closed:   make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(svc)
	}
	svc.lastSweep = svc.now()
	return svc
}

// ImportExam validates an exam document and adds it to the catalog. A
// non-empty title overrides the one in the document.
func (s *ScoringService) ImportExam(ctx context.Context, data []byte, title string) (*exam.Exam, error) {
	ex, err := exam.Parse(data)
	if err != nil {
		return nil, err
	}
	ex.ID = id.GenerateID()
	if title != "" {
		ex.Title = title
	}

	if err := s.store.SaveExam(ctx, ex); err != nil {
		return nil, fmt.Errorf("save exam: %w", err)
	}

	s.logger.Info("exam imported",
		"exam_id", ex.ID,
		"title", ex.Title,
		"questions", ex.QuestionCount(),
		"units", ex.Units(),
	)
	return ex, nil
}

// Score grades one set of answers against an exam from the catalog.
func (s *ScoringService) Score(ctx context.Context, examID string, answers answersheet.Answers) (*scoring.Report, error) {
	ex, err := s.store.GetExam(ctx, examID)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ex, answers); err != nil {
		return nil, err
	}
	return s.score(ex, answers)
}

// ScoreBatch grades independent submissions on the worker pool. A bad
// submission yields an error entry and does not affect the others. Results
// come back in request order.
func (s *ScoringService) ScoreBatch(ctx context.Context, examID string, subs []Submission) ([]BatchResult, error) {
	ex, err := s.store.GetExam(ctx, examID)
	if err != nil {
		return nil, err
	}

	keys := make([]string, len(subs))
	jobs := make(map[string]worker.Job[BatchResult], len(subs))
	for i, sub := range subs {
		keys[i] = strconv.Itoa(i)
		sub := sub
		jobs[keys[i]] = func() BatchResult {
			res := BatchResult{ID: sub.ID}
			if err := s.validate(ex, sub.Answers); err != nil {
				res.Error = err.Error()
				return res
			}
			rep, err := s.score(ex, sub.Answers)
			if err != nil {
				res.Error = err.Error()
				return res
			}
			res.Report = rep
			return res
		}
	}

	out := worker.Run(s.workers, jobs)

	results := make([]BatchResult, len(subs))
	for i, k := range keys {
		results[i] = out[k]
	}

	s.logger.Info("batch scored", "exam_id", examID, "submissions", len(subs))
	return results, nil
}

// CreateSheet opens an empty answer sheet for an exam.
func (s *ScoringService) CreateSheet(ctx context.Context, examID string) (*SheetView, error) {
	ex, err := s.store.GetExam(ctx, examID)
	if err != nil {
		return nil, err
	}

	sheet := answersheet.New(ex.ID)

	s.mu.Lock()
	s.sweep()
	s.sheets[sheet.ID] = &openSheet{sheet: sheet, lastSeen: s.now()}
	view := s.view(sheet, ex.QuestionCount())
	s.mu.Unlock()

	s.logger.Info("sheet created", "sheet_id", sheet.ID, "exam_id", ex.ID)
	return view, nil
}

// SaveAnswers merges answers into an open sheet. Every key must name a
// question of the sheet's exam and every response must fit its question.
func (s *ScoringService) SaveAnswers(ctx context.Context, sheetID string, answers answersheet.Answers) (*SheetView, error) {
	examID, err := s.sheetExamID(sheetID)
	if err != nil {
		return nil, err
	}
	ex, err := s.store.GetExam(ctx, examID)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ex, answers); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sheet, err := s.lookup(sheetID)
	if err != nil {
		return nil, err
	}
	if err := sheet.Merge(answers); err != nil {
		return nil, ErrSheetSubmitted
	}
	return s.view(sheet, ex.QuestionCount()), nil
}

// GetSheet returns a snapshot of an open sheet.
func (s *ScoringService) GetSheet(ctx context.Context, sheetID string) (*SheetView, error) {
	examID, err := s.sheetExamID(sheetID)
	if err != nil {
		return nil, err
	}
	ex, err := s.store.GetExam(ctx, examID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sheet, err := s.lookup(sheetID)
	if err != nil {
		return nil, err
	}
	return s.view(sheet, ex.QuestionCount()), nil
}

// Submit freezes a sheet, scores it and forgets its answers. Later calls
// for the same sheet get ErrSheetSubmitted. The sheet stays open if its
// exam cannot be loaded.
func (s *ScoringService) Submit(ctx context.Context, sheetID string) (*scoring.Report, error) {
	examID, err := s.sheetExamID(sheetID)
	if err != nil {
		return nil, err
	}
	ex, err := s.store.GetExam(ctx, examID)
	if err != nil {
		s.logger.Error("exam for submitted sheet unavailable",
			"sheet_id", sheetID,
			"exam_id", examID,
			"error", err,
		)
		return nil, err
	}

	s.mu.Lock()
	sheet, err := s.lookup(sheetID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	answers, err := sheet.Submit()
	if err != nil {
		s.mu.Unlock()
		return nil, ErrSheetSubmitted
	}
	delete(s.sheets, sheetID)
	s.closed[sheetID] = s.now()
	s.mu.Unlock()

	rep, err := s.score(ex, answers)
	if err != nil {
		return nil, err
	}

	s.logger.Info("sheet submitted",
		"sheet_id", sheetID,
		"exam_id", ex.ID,
		"band", rep.Band,
		"correct", rep.Correct,
		"total", rep.Total,
	)
	return rep, nil
}

func (s *ScoringService) score(ex *exam.Exam, answers answersheet.Answers) (*scoring.Report, error) {
	rep, err := s.engine.Score(ex, answers)
	if err != nil {
		s.logger.Error("scoring failed", "exam_id", ex.ID, "error", err)
		return nil, err
	}
	s.metrics.ObserveSubmission(rep.Band, rep.Correct, rep.Incorrect, rep.Unanswered)
	return rep, nil
}

// validate rejects answers for unknown questions, label or match keys the
// question does not have, and responses whose shape cannot apply to their
// question.
func (s *ScoringService) validate(ex *exam.Exam, answers answersheet.Answers) error {
	for qid, resp := range answers {
		q, ok := ex.Question(qid)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownQuestion, qid)
		}
		if _, err := s.engine.ScoreQuestion(q, resp, true); err != nil {
			return err
		}
		if resp.Shape == answersheet.ShapeFields {
			if err := checkFieldKeys(q, resp.Fields); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkFieldKeys(q exam.Question, fields map[string]string) error {
	known := make(map[string]struct{}, len(q.Labels)+len(q.Pairs))
	for _, l := range q.Labels {
		known[l.ID] = struct{}{}
	}
	for _, p := range q.Pairs {
		known[p.Left] = struct{}{}
	}
	for k := range fields {
		if _, ok := known[k]; !ok {
			return fmt.Errorf("%w: %q has no %q", ErrUnknownQuestion, q.ID, k)
		}
	}
	return nil
}

func (s *ScoringService) sheetExamID(sheetID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sheet, err := s.lookup(sheetID)
	if err != nil {
		return "", err
	}
	return sheet.ExamID, nil
}

// lookup must be called with mu held. A successful lookup counts as
// activity on the sheet.
func (s *ScoringService) lookup(sheetID string) (*answersheet.Sheet, error) {
	s.sweep()
	now := s.now()
	if open, ok := s.sheets[sheetID]; ok {
		if now.Sub(open.lastSeen) > s.sheetTTL {
			delete(s.sheets, sheetID)
			return nil, ErrSheetNotFound
		}
		open.lastSeen = now
		return open.sheet, nil
	}
	if at, ok := s.closed[sheetID]; ok && now.Sub(at) <= s.sheetTTL {
		return nil, ErrSheetSubmitted
	}
	return nil, ErrSheetNotFound
}

// sweep drops idle sheets and old submission records, at most once per
// TTL. It must be called with mu held.
func (s *ScoringService) sweep() {
	now := s.now()
	if now.Sub(s.lastSweep) <= s.sheetTTL {
		return
	}
	for k, open := range s.sheets {
		if now.Sub(open.lastSeen) > s.sheetTTL {
			delete(s.sheets, k)
		}
	}
	for k, at := range s.closed {
		if now.Sub(at) > s.sheetTTL {
			delete(s.closed, k)
		}
	}
	s.lastSweep = now
	s.logger.Debug("sheets swept", "open", len(s.sheets), "submitted", len(s.closed))
}

// OpenSheets returns how many sheets are held in memory.
func (s *ScoringService) OpenSheets() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweep()
	return len(s.sheets)
}

func (s *ScoringService) view(sheet *answersheet.Sheet, questions int) *SheetView {
	return &SheetView{
		ID:        sheet.ID,
		ExamID:    sheet.ExamID,
		Answers:   sheet.Answers.Clone(),
		Answered:  sheet.Answered(),
		Questions: questions,
		CreatedAt: sheet.CreatedAt,
	}
}
