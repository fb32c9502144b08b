package scoring

import (
	"fmt"
	"strings"

	"github.com/listenband/backend/internal/domain/answersheet"
	"github.com/listenband/backend/internal/domain/exam"
)

// textStrategy grades single_choice and fill_blank questions.
type textStrategy struct{}

func (textStrategy) Grade(q exam.Question, resp answersheet.Response, ok bool) ([]Feedback, error) {
	fb := Feedback{
		QuestionID:    q.ID,
		Prompt:        q.Prompt,
		CorrectAnswer: []string{q.Answer},
	}

	var raw string
	if ok {
		switch resp.Shape {
		case answersheet.ShapeNone:
		case answersheet.ShapeText:
			raw = resp.Text
		default:
			return nil, shapeError(q, resp)
		}
	}

	user := Normalize(raw)
	if user == "" {
		fb.Status = StatusUnanswered
		return []Feedback{fb}, nil
	}
	fb.UserAnswer = []string{strings.TrimSpace(raw)}
	fb.Status = verdict(user == Normalize(q.Answer))
	return []Feedback{fb}, nil
}

// multiStrategy grades multi_choice questions with set semantics: order is
// irrelevant and duplicates collapse. No partial credit.
type multiStrategy struct{}

func (multiStrategy) Grade(q exam.Question, resp answersheet.Response, ok bool) ([]Feedback, error) {
	fb := Feedback{
		QuestionID:    q.ID,
		Prompt:        q.Prompt,
		CorrectAnswer: q.Answers,
	}

	var raw []string
	if ok {
		switch resp.Shape {
		case answersheet.ShapeNone:
		case answersheet.ShapeChoices:
			raw = resp.Choices
		case answersheet.ShapeText:
			raw = []string{resp.Text}
		default:
			return nil, shapeError(q, resp)
		}
	}

	user := normalizedSet(raw)
	if len(user) == 0 {
		fb.Status = StatusUnanswered
		return []Feedback{fb}, nil
	}
	for _, r := range raw {
		if t := strings.TrimSpace(r); t != "" {
			fb.UserAnswer = append(fb.UserAnswer, t)
		}
	}
	fb.Status = verdict(setEqual(user, normalizedSet(q.Answers)))
	return []Feedback{fb}, nil
}

// diagramStrategy grades each label of a diagram as its own unit.
type diagramStrategy struct{}

func (diagramStrategy) Grade(q exam.Question, resp answersheet.Response, ok bool) ([]Feedback, error) {
	fields, err := responseFields(q, resp, ok)
	if err != nil {
		return nil, err
	}

	out := make([]Feedback, 0, len(q.Labels))
	for _, l := range q.Labels {
		out = append(out, gradeField(
			q.ID+"/"+l.ID,
			"Label for "+l.ID,
			fields[l.ID],
			l.Correct,
		))
	}
	return out, nil
}

// matchingStrategy grades each pair of a matching question as its own unit.
type matchingStrategy struct{}

func (matchingStrategy) Grade(q exam.Question, resp answersheet.Response, ok bool) ([]Feedback, error) {
	fields, err := responseFields(q, resp, ok)
	if err != nil {
		return nil, err
	}

	out := make([]Feedback, 0, len(q.Pairs))
	for _, p := range q.Pairs {
		out = append(out, gradeField(
			q.ID+"/"+p.Left,
			"Match for "+p.Left,
			fields[p.Left],
			p.Right,
		))
	}
	return out, nil
}

func responseFields(q exam.Question, resp answersheet.Response, ok bool) (map[string]string, error) {
	if !ok {
		return nil, nil
	}
	switch resp.Shape {
	case answersheet.ShapeNone:
		return nil, nil
	case answersheet.ShapeFields:
		return resp.Fields, nil
	default:
		return nil, shapeError(q, resp)
	}
}

func gradeField(unitID, prompt, given, correct string) Feedback {
	fb := Feedback{
		QuestionID:    unitID,
		Prompt:        prompt,
		CorrectAnswer: []string{correct},
	}
	user := Normalize(given)
	if user == "" {
		fb.Status = StatusUnanswered
		return fb
	}
	fb.UserAnswer = []string{strings.TrimSpace(given)}
	fb.Status = verdict(user == Normalize(correct))
	return fb
}

func shapeError(q exam.Question, resp answersheet.Response) error {
	return fmt.Errorf("question %s (%s): %w: got %s", q.ID, q.Kind, answersheet.ErrResponseShape, resp.Shape)
}
