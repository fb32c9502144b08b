package scoring

import (
	"fmt"
	"io"
	"strings"
)

// PartSummary carries the counts for one part of the exam.
type PartSummary struct {
	Name string `json:"name"`
	Tally
}

// Report is the result of one submission. It is built once and not
// modified afterwards.
type Report struct {
	ExamID string `json:"exam_id,omitempty"`
	Tally
	Percentage  float64       `json:"percentage"`
	Band        int           `json:"band"`
	SkillLevel  string        `json:"skill_level"`
	Description string        `json:"description"`
	Parts       []PartSummary `json:"parts"`
	Feedback    []Feedback    `json:"feedback"`
}

// WriteText renders the report as the plain-text results screen.
func WriteText(w io.Writer, r *Report) error {
	var b strings.Builder

	b.WriteString("Results\n")
	fmt.Fprintf(&b, "Correct: %d\n", r.Correct)
	fmt.Fprintf(&b, "Incorrect: %d\n", r.Incorrect)
	fmt.Fprintf(&b, "Unanswered: %d\n", r.Unanswered)
	fmt.Fprintf(&b, "Total: %d (%.2f%%)\n", r.Total, r.Percentage)
	fmt.Fprintf(&b, "Band Score: %d\n", r.Band)
	fmt.Fprintf(&b, "Skill Level: %s\n", r.SkillLevel)
	fmt.Fprintf(&b, "Description: %s\n", r.Description)

	if len(r.Parts) > 0 {
		b.WriteString("\nParts\n")
		for _, p := range r.Parts {
			fmt.Fprintf(&b, "%s: %d correct, %d incorrect, %d unanswered\n",
				p.Name, p.Correct, p.Incorrect, p.Unanswered)
		}
	}

	if len(r.Feedback) > 0 {
		b.WriteString("\nQuestion Feedback\n")
		for _, f := range r.Feedback {
			fmt.Fprintf(&b, "Question: %s %s\n", f.QuestionID, f.Prompt)
			if f.Status == StatusUnanswered {
				b.WriteString("Your Answer: (unanswered)\n")
			} else {
				fmt.Fprintf(&b, "Your Answer: %s (%s)\n", strings.Join(f.UserAnswer, ", "), f.Status)
			}
			fmt.Fprintf(&b, "Correct Answer: %s\n", strings.Join(f.CorrectAnswer, ", "))
			b.WriteString("---\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
