package store

import (
	"context"
	"errors"
	"time"

	"github.com/listenband/backend/internal/domain/exam"
)

var (
	ErrNotFound = errors.New("not found")
)

// ExamSummary is the catalog listing entry of an imported exam.
type ExamSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Questions int       `json:"questions"`
	Units     int       `json:"units"`
	CreatedAt time.Time `json:"created_at"`
}

// Store is the exam catalog. Only validated exams go in; nothing about an
// attempt is ever written.
type Store interface {
	SaveExam(ctx context.Context, ex *exam.Exam) error
	GetExam(ctx context.Context, id string) (*exam.Exam, error)
	ListExams(ctx context.Context) ([]ExamSummary, error)
	DeleteExam(ctx context.Context, id string) error
}
