package scoring

import (
	"fmt"

	"github.com/listenband/backend/internal/domain/answersheet"
	"github.com/listenband/backend/internal/domain/exam"
)

// Strategy grades one question kind. ok is false when no response was
// collected for the question at all.
type Strategy interface {
	Grade(q exam.Question, resp answersheet.Response, ok bool) ([]Feedback, error)
}

// Collector supplies the response captured for a question id.
// answersheet.Answers.Lookup is the usual implementation.
type Collector func(questionID string) (answersheet.Response, bool)

// Engine routes each question to the strategy registered for its kind.
type Engine struct {
	strategies map[exam.Kind]Strategy
}

type Option func(*Engine)

// WithStrategy installs or replaces the strategy for a kind.
func WithStrategy(kind exam.Kind, s Strategy) Option {
	return func(e *Engine) { e.strategies[kind] = s }
}

// NewEngine installs the built-in strategies.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		strategies: map[exam.Kind]Strategy{
			exam.KindSingleChoice: textStrategy{},
			exam.KindFillBlank:    textStrategy{},
			exam.KindMultiChoice:  multiStrategy{},
			exam.KindDiagram:      diagramStrategy{},
			exam.KindMatching:     matchingStrategy{},
		},
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

var defaultEngine = NewEngine()

// Score grades answers against ex with the built-in strategies.
func Score(ex *exam.Exam, answers answersheet.Answers) (*Report, error) {
	return defaultEngine.Score(ex, answers)
}

// ScoreQuestion grades a single question. An unknown kind is an error
// rather than a skipped question, since skipping would shrink the total.
func (e *Engine) ScoreQuestion(q exam.Question, resp answersheet.Response, ok bool) ([]Feedback, error) {
	s, found := e.strategies[q.Kind]
	if !found {
		return nil, fmt.Errorf("question %s: %w: %q", q.ID, exam.ErrUnsupportedQuestionType, q.Kind)
	}
	return s.Grade(q, resp, ok)
}

// Score grades every question of ex using the given answers.
func (e *Engine) Score(ex *exam.Exam, answers answersheet.Answers) (*Report, error) {
	return e.ScoreWith(ex, answers.Lookup)
}

// ScoreWith grades every question of ex, asking collect for each response.
// It either completes a full pass or returns the first error; no partial
// report is produced.
func (e *Engine) ScoreWith(ex *exam.Exam, collect Collector) (*Report, error) {
	rep := &Report{
		ExamID:   ex.ID,
		Parts:    make([]PartSummary, 0, len(ex.Parts)),
		Feedback: make([]Feedback, 0, ex.Units()),
	}

	for _, p := range ex.Parts {
		summary := PartSummary{Name: p.Name}
		for _, q := range p.Questions {
			resp, ok := collect(q.ID)
			units, err := e.ScoreQuestion(q, resp, ok)
			if err != nil {
				return nil, err
			}
			for i := range units {
				units[i].Part = p.Name
				summary.Add(units[i].Status)
			}
			rep.Feedback = append(rep.Feedback, units...)
		}
		rep.Parts = append(rep.Parts, summary)
	}

	rep.Tally = Aggregate(rep.Feedback)
	rep.Percentage = Percentage(rep.Correct, rep.Total)
	rep.Band = BandScore(rep.Correct, rep.Total)
	d := DescribeBand(rep.Band)
	rep.SkillLevel = d.SkillLevel
	rep.Description = d.Description
	return rep, nil
}
