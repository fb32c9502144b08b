package answersheet

import (
	"errors"
	"time"

	"github.com/listenband/backend/internal/id"
)

// ErrSubmitted is returned when a sheet is changed after submission.
var ErrSubmitted = errors.New("sheet already submitted")

// Sheet collects a candidate's answers for one exam until submission.
// It lives only in memory; nothing about an attempt is persisted.
type Sheet struct {
	ID        string
	ExamID    string
	Answers   Answers
	CreatedAt time.Time
	Submitted bool
}

// New creates an empty sheet for the given exam.
func New(examID string) *Sheet {
	return &Sheet{
		ID:        id.GenerateID(),
		ExamID:    examID,
		Answers:   Answers{},
		CreatedAt: time.Now(),
	}
}

// Record stores or replaces the response for a single question.
func (s *Sheet) Record(questionID string, r Response) error {
	if s.Submitted {
		return ErrSubmitted
	}
	s.Answers[questionID] = r
	return nil
}

// Merge records every response in a. Fields of diagram and matching
// responses are merged key by key, so a presentation layer can send one
// label at a time.
func (s *Sheet) Merge(a Answers) error {
	if s.Submitted {
		return ErrSubmitted
	}
	for qid, r := range a {
		prev, ok := s.Answers[qid]
		if ok && prev.Shape == ShapeFields && r.Shape == ShapeFields {
			merged := make(map[string]string, len(prev.Fields)+len(r.Fields))
			for k, v := range prev.Fields {
				merged[k] = v
			}
			for k, v := range r.Fields {
				merged[k] = v
			}
			r = Fields(merged)
		}
		s.Answers[qid] = r
	}
	return nil
}

// Submit freezes the sheet and returns a snapshot of its answers.
func (s *Sheet) Submit() (Answers, error) {
	if s.Submitted {
		return nil, ErrSubmitted
	}
	s.Submitted = true
	return s.Answers.Clone(), nil
}

// Answered returns how many questions have non-empty input.
func (s *Sheet) Answered() int {
	n := 0
	for _, r := range s.Answers {
		if !r.IsEmpty() {
			n++
		}
	}
	return n
}
