// Command bandscore scores an answers file against an exam document and
// prints the results.
//
//	bandscore -exam exam.json -answers answers.json [-json]
//
// The answers file is a JSON object keyed by question id, e.g.
//
//	{"part1-q1": "Riverside", "part3-q1": ["A", "D"], "part4-q2": {"X1": "valve"}}
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/listenband/backend/internal/domain/answersheet"
	"github.com/listenband/backend/internal/domain/exam"
	"github.com/listenband/backend/internal/scoring"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	logger := slog.New(slog.NewTextHandler(stderr, nil))

	fs := flag.NewFlagSet("bandscore", flag.ContinueOnError)
	fs.SetOutput(stderr)
	examPath := fs.String("exam", "", "exam document (JSON)")
	answersPath := fs.String("answers", "", "answers keyed by question id (JSON)")
	asJSON := fs.Bool("json", false, "print the report as JSON")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *examPath == "" || *answersPath == "" {
		fmt.Fprintln(stderr, "usage: bandscore -exam FILE -answers FILE [-json]")
		return 2
	}

	ex, err := exam.LoadFile(*examPath)
	if err != nil {
		logger.Error("failed to load exam", "path", *examPath, "error", err)
		return 1
	}

	answers, err := loadAnswers(*answersPath)
	if err != nil {
		logger.Error("failed to load answers", "path", *answersPath, "error", err)
		return 1
	}
	for qid := range answers {
		if _, ok := ex.Question(qid); !ok {
			logger.Warn("answer for unknown question ignored", "question_id", qid)
		}
	}

	rep, err := scoring.Score(ex, answers)
	if err != nil {
		logger.Error("scoring failed", "error", err)
		return 1
	}

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		err = enc.Encode(rep)
	} else {
		err = scoring.WriteText(stdout, rep)
	}
	if err != nil {
		logger.Error("failed to write report", "error", err)
		return 1
	}
	return 0
}

func loadAnswers(path string) (answersheet.Answers, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var answers answersheet.Answers
	if err := json.Unmarshal(data, &answers); err != nil {
		return nil, err
	}
	if answers == nil {
		return nil, errors.New("answers file must hold a JSON object")
	}
	return answers, nil
}
