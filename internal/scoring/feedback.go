package scoring

// Status is the verdict for one gradable unit.
type Status string

const (
	StatusCorrect    Status = "correct"
	StatusIncorrect  Status = "incorrect"
	StatusUnanswered Status = "unanswered"
)

// Feedback is the graded outcome of one unit: a whole question for the
// single-answer kinds, one label of a diagram or one pair of a matching
// question otherwise.
type Feedback struct {
	QuestionID    string   `json:"question_id"`
	Part          string   `json:"part,omitempty"`
	Prompt        string   `json:"prompt,omitempty"`
	UserAnswer    []string `json:"user_answer"`
	CorrectAnswer []string `json:"correct_answer"`
	Status        Status   `json:"status"`
}

// Tally counts units by status. Total is always the sum of the three
// counters; it is never taken from the number of questions.
type Tally struct {
	Correct    int `json:"correct"`
	Incorrect  int `json:"incorrect"`
	Unanswered int `json:"unanswered"`
	Total      int `json:"total"`
}

// Add counts one unit.
func (t *Tally) Add(s Status) {
	switch s {
	case StatusCorrect:
		t.Correct++
	case StatusIncorrect:
		t.Incorrect++
	case StatusUnanswered:
		t.Unanswered++
	default:
		return
	}
	t.Total = t.Correct + t.Incorrect + t.Unanswered
}

// Merge adds the counts of o to t.
func (t *Tally) Merge(o Tally) {
	t.Correct += o.Correct
	t.Incorrect += o.Incorrect
	t.Unanswered += o.Unanswered
	t.Total = t.Correct + t.Incorrect + t.Unanswered
}

// Aggregate tallies a sequence of feedback units.
func Aggregate(feedback []Feedback) Tally {
	var t Tally
	for _, f := range feedback {
		t.Add(f.Status)
	}
	return t
}

func verdict(correct bool) Status {
	if correct {
		return StatusCorrect
	}
	return StatusIncorrect
}
