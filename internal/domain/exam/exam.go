package exam

// Kind identifies the question variant. It decides both how a question is
// rendered and which comparison rule scores it.
type Kind string

const (
	KindSingleChoice Kind = "single_choice"
	KindMultiChoice  Kind = "multi_choice"
	KindFillBlank    Kind = "fill_blank"
	KindDiagram      Kind = "diagram"
	KindMatching     Kind = "matching"
)

// Kinds lists every variant the loader can produce.
var Kinds = []Kind{KindSingleChoice, KindMultiChoice, KindFillBlank, KindDiagram, KindMatching}

// Label is one point on a diagram that the candidate must name.
type Label struct {
	ID      string   `json:"id"`
	Options []string `json:"options,omitempty"`
	Correct string   `json:"correct,omitempty"`
}

// MatchPair is one left-hand item of a matching question and the
// right-hand value it belongs with.
type MatchPair struct {
	Left  string `json:"left"`
	Right string `json:"right,omitempty"`
}

// MatchKind records which field names a matching question was authored
// with, e.g. person → work. It is resolved once when the exam is loaded.
type MatchKind struct {
	LeftField  string `json:"left_field"`
	RightField string `json:"right_field"`
}

// Question is a tagged variant over the five question kinds. Only the
// fields relevant to Kind are populated:
//
//	single_choice: Prompt, Options, Answer
//	multi_choice:  Prompt, Options, Answers
//	fill_blank:    Prompt, Answer
//	diagram:       Prompt, Image, Options, Labels
//	matching:      Prompt, Options (shared pool), Pairs, Match
type Question struct {
	ID      string      `json:"id"`
	Kind    Kind        `json:"kind"`
	Prompt  string      `json:"prompt"`
	Options []string    `json:"options,omitempty"`
	Answer  string      `json:"answer,omitempty"`
	Answers []string    `json:"answers,omitempty"`
	Image   string      `json:"image,omitempty"`
	Labels  []Label     `json:"labels,omitempty"`
	Pairs   []MatchPair `json:"pairs,omitempty"`
	Match   *MatchKind  `json:"match,omitempty"`
}

// Units returns how many gradable units the question contributes.
// Diagram and matching questions are graded per label / per pair.
func (q Question) Units() int {
	switch q.Kind {
	case KindDiagram:
		return len(q.Labels)
	case KindMatching:
		return len(q.Pairs)
	default:
		return 1
	}
}

// Redacted returns a copy of the question with every answer key removed,
// suitable for handing to the presentation layer.
func (q Question) Redacted() Question {
	out := q
	out.Answer = ""
	out.Answers = nil
	if len(q.Labels) > 0 {
		out.Labels = make([]Label, len(q.Labels))
		for i, l := range q.Labels {
			out.Labels[i] = Label{ID: l.ID, Options: l.Options}
		}
	}
	if len(q.Pairs) > 0 {
		out.Pairs = make([]MatchPair, len(q.Pairs))
		for i, p := range q.Pairs {
			out.Pairs[i] = MatchPair{Left: p.Left}
		}
	}
	return out
}

// Part is one section of the listening test ("Part 1".."Part 4").
type Part struct {
	Name         string     `json:"name"`
	Audio        string     `json:"audio,omitempty"`
	Instructions string     `json:"instructions,omitempty"`
	Questions    []Question `json:"questions"`
}

// Exam is the immutable in-memory form of an exam document.
type Exam struct {
	ID    string `json:"id,omitempty"`
	Title string `json:"title,omitempty"`
	Audio string `json:"audio,omitempty"`
	Parts []Part `json:"parts"`
}

// Units returns the number of gradable units across all parts.
func (e *Exam) Units() int {
	n := 0
	for _, p := range e.Parts {
		for _, q := range p.Questions {
			n += q.Units()
		}
	}
	return n
}

// QuestionCount returns the number of questions, counting compound
// questions once.
func (e *Exam) QuestionCount() int {
	n := 0
	for _, p := range e.Parts {
		n += len(p.Questions)
	}
	return n
}

// Question looks a question up by its stable identifier.
func (e *Exam) Question(id string) (Question, bool) {
	for _, p := range e.Parts {
		for _, q := range p.Questions {
			if q.ID == id {
				return q, true
			}
		}
	}
	return Question{}, false
}

// Redacted returns a deep copy of the exam without answer keys.
func (e *Exam) Redacted() *Exam {
	out := &Exam{
		ID:    e.ID,
		Title: e.Title,
		Audio: e.Audio,
		Parts: make([]Part, len(e.Parts)),
	}
	for i, p := range e.Parts {
		rp := p
		rp.Questions = make([]Question, len(p.Questions))
		for j, q := range p.Questions {
			rp.Questions[j] = q.Redacted()
		}
		out.Parts[i] = rp
	}
	return out
}
