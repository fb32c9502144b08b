// internal/store/sqlite.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/listenband/backend/internal/domain/exam"
)

const schema = `
CREATE TABLE IF NOT EXISTS exams (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    question_count INTEGER NOT NULL,
    unit_count INTEGER NOT NULL,
    document TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
);
`

type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

func NewSQLite(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveExam inserts or replaces an exam. The resolved form is stored, so a
// read never has to re-run kind detection.
func (s *SQLiteStore) SaveExam(ctx context.Context, ex *exam.Exam) error {
	doc, err := json.Marshal(ex)
	if err != nil {
		return fmt.Errorf("encode exam %s: %w", ex.ID, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO exams (id, title, question_count, unit_count, document, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			question_count = excluded.question_count,
			unit_count = excluded.unit_count,
			document = excluded.document
	`, ex.ID, ex.Title, ex.QuestionCount(), ex.Units(), string(doc), time.Now().UTC())
	return err
}

func (s *SQLiteStore) GetExam(ctx context.Context, id string) (*exam.Exam, error) {
	var doc string
	err := s.db.QueryRowContext(ctx, "SELECT document FROM exams WHERE id = ?", id).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var ex exam.Exam
	if err := json.Unmarshal([]byte(doc), &ex); err != nil {
		return nil, fmt.Errorf("decode exam %s: %w", id, err)
	}
	return &ex, nil
}

func (s *SQLiteStore) ListExams(ctx context.Context) ([]ExamSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, question_count, unit_count, created_at
		FROM exams
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	exams := []ExamSummary{}
	for rows.Next() {
		var e ExamSummary
		if err := rows.Scan(&e.ID, &e.Title, &e.Questions, &e.Units, &e.CreatedAt); err != nil {
			return nil, err
		}
		exams = append(exams, e)
	}
	return exams, rows.Err()
}

func (s *SQLiteStore) DeleteExam(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM exams WHERE id = ?", id)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
