package exam

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

// matchKinds are the left/right field pairs matching questions are authored
// with. The first left field found on a pair decides the kind for the whole
// question.
var matchKinds = []MatchKind{
	{LeftField: "apartment", RightField: "facility"},
	{LeftField: "person", RightField: "work"},
	{LeftField: "strategy", RightField: "benefit"},
	{LeftField: "feature", RightField: "description"},
}

// DefaultInstructions are shown for a part whose document entry carries no
// instructions of its own.
var DefaultInstructions = map[string]string{
	"Part 1": "Complete the notes below. Write NO MORE THAN ONE WORD OR A NUMBER for each answer.",
	"Part 2": "Choose the correct letter, A, B, or C.",
	"Part 3": "Choose the correct letter, A, B, or C. For questions that ask for two answers, choose TWO letters, A-E.",
	"Part 4": "Complete the flow chart below. Write NO MORE THAN TWO WORDS for each answer.",
}

type rawPart struct {
	Audio        string            `json:"audio"`
	Instructions string            `json:"instructions"`
	Questions    []json.RawMessage `json:"questions"`
}

type rawLabel struct {
	ID           string   `json:"id"`
	Options      []string `json:"options"`
	CorrectLabel *string  `json:"correct_label"`
}

type rawQuestion struct {
	ID       string              `json:"id"`
	Question *string             `json:"question"`
	Type     string              `json:"type"`
	Options  []string            `json:"options"`
	Answer   json.RawMessage     `json:"answer"`
	Image    string              `json:"image"`
	Labels   []rawLabel          `json:"labels"`
	Matches  []map[string]string `json:"matches"`
}

// LoadFile reads and parses an exam document from disk.
func LoadFile(path string) (*Exam, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// Load parses an exam document from r.
func Load(r io.Reader) (*Exam, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse turns an exam document into an Exam. The document is a JSON array
// whose first object maps "Part N" keys to parts; optional "title" and
// "audio" keys on the same object describe the whole exam.
//
// Every question is validated and its kind resolved here, so a document
// that parses can be scored without further field probing.
func Parse(data []byte) (*Exam, error) {
	var doc []map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	if len(doc) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrMalformedDocument)
	}
	top := doc[0]

	ex := &Exam{}
	if raw, ok := top["title"]; ok {
		if err := json.Unmarshal(raw, &ex.Title); err != nil {
			return nil, fmt.Errorf("%w: title: %v", ErrMalformedDocument, err)
		}
	}
	if raw, ok := top["audio"]; ok {
		if err := json.Unmarshal(raw, &ex.Audio); err != nil {
			return nil, fmt.Errorf("%w: audio: %v", ErrMalformedDocument, err)
		}
	}

	names := make([]string, 0, len(top))
	for k := range top {
		if strings.HasPrefix(k, "Part") {
			names = append(names, k)
		}
	}
	sort.SliceStable(names, func(i, j int) bool {
		ni, nj := partNumber(names[i]), partNumber(names[j])
		if ni != nj {
			return ni < nj
		}
		return names[i] < names[j]
	})

	seen := make(map[string]bool)
	for pos, name := range names {
		var rp rawPart
		if err := json.Unmarshal(top[name], &rp); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformedDocument, name, err)
		}

		num := partNumber(name)
		if num == 0 {
			num = pos + 1
		}
		part := Part{
			Name:         name,
			Audio:        rp.Audio,
			Instructions: rp.Instructions,
			Questions:    make([]Question, 0, len(rp.Questions)),
		}
		if part.Instructions == "" {
			part.Instructions = DefaultInstructions[name]
		}

		for i, rawQ := range rp.Questions {
			q, err := parseQuestion(name, i+1, rawQ)
			if err != nil {
				return nil, err
			}
			if q.ID == "" {
				q.ID = fmt.Sprintf("part%d-q%d", num, i+1)
			}
			if seen[q.ID] {
				return nil, malformed(name, i+1, fmt.Sprintf("duplicate id %q", q.ID))
			}
			seen[q.ID] = true
			part.Questions = append(part.Questions, q)
		}
		ex.Parts = append(ex.Parts, part)
	}

	return ex, nil
}

func partNumber(name string) int {
	n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(name, "Part")))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func parseQuestion(part string, index int, data json.RawMessage) (Question, error) {
	var rq rawQuestion
	if err := json.Unmarshal(data, &rq); err != nil {
		return Question{}, &LoadError{Part: part, Index: index, Reason: "invalid json", Wrapped: fmt.Errorf("%w: %v", ErrMalformedQuestion, err)}
	}
	if rq.Question == nil {
		return Question{}, malformed(part, index, `missing "question"`)
	}

	q := Question{
		ID:      strings.TrimSpace(rq.ID),
		Prompt:  *rq.Question,
		Options: rq.Options,
		Image:   rq.Image,
	}

	kind, err := resolveKind(rq)
	if err != nil {
		return Question{}, &LoadError{Part: part, Index: index, Reason: fmt.Sprintf("type %q", rq.Type), Wrapped: err}
	}
	q.Kind = kind

	switch kind {
	case KindSingleChoice, KindFillBlank:
		single, list, ok := decodeAnswer(rq.Answer)
		if !ok {
			return Question{}, malformed(part, index, `missing "answer"`)
		}
		if list != nil {
			return Question{}, malformed(part, index, `"answer" must be a single value`)
		}
		if strings.TrimSpace(single) == "" {
			return Question{}, malformed(part, index, `empty "answer"`)
		}
		q.Answer = single

	case KindMultiChoice:
		single, list, ok := decodeAnswer(rq.Answer)
		if !ok {
			return Question{}, malformed(part, index, `missing "answer"`)
		}
		if list == nil {
			list = []string{single}
		}
		for _, a := range list {
			if strings.TrimSpace(a) != "" {
				q.Answers = append(q.Answers, a)
			}
		}
		if len(q.Answers) == 0 {
			return Question{}, malformed(part, index, `empty "answer" set`)
		}

	case KindDiagram:
		if len(rq.Labels) == 0 {
			return Question{}, malformed(part, index, `missing "labels"`)
		}
		ids := make(map[string]bool, len(rq.Labels))
		for _, rl := range rq.Labels {
			id := strings.TrimSpace(rl.ID)
			if id == "" {
				return Question{}, malformed(part, index, "label without id")
			}
			if ids[id] {
				return Question{}, malformed(part, index, fmt.Sprintf("duplicate label %q", id))
			}
			ids[id] = true
			if rl.CorrectLabel == nil || strings.TrimSpace(*rl.CorrectLabel) == "" {
				return Question{}, malformed(part, index, fmt.Sprintf(`label %q missing "correct_label"`, id))
			}
			opts := rl.Options
			if len(opts) == 0 {
				opts = rq.Options
			}
			q.Labels = append(q.Labels, Label{ID: id, Options: opts, Correct: *rl.CorrectLabel})
		}

	case KindMatching:
		mk, pairs, err := resolvePairs(rq.Matches)
		if err != nil {
			return Question{}, &LoadError{Part: part, Index: index, Reason: "matches", Wrapped: err}
		}
		q.Match = &mk
		q.Pairs = pairs
		if len(q.Options) == 0 {
			q.Options = rightPool(pairs)
		}
	}

	return q, nil
}

// resolveKind maps the document's type hints onto a Kind. An explicit
// "type" wins; otherwise the shape of the entry decides.
func resolveKind(rq rawQuestion) (Kind, error) {
	if rq.Type != "" {
		t := Kind(strings.ToLower(strings.TrimSpace(rq.Type)))
		for _, k := range Kinds {
			if t == k {
				return k, nil
			}
		}
		return "", ErrUnsupportedQuestionType
	}
	switch {
	case rq.Matches != nil:
		return KindMatching, nil
	case rq.Options != nil:
		if _, list, _ := decodeAnswer(rq.Answer); list != nil {
			return KindMultiChoice, nil
		}
		return KindSingleChoice, nil
	default:
		return KindFillBlank, nil
	}
}

// decodeAnswer accepts a string, a list of strings, or a bare number.
// ok is false when the answer is absent or null.
func decodeAnswer(raw json.RawMessage) (single string, list []string, ok bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil, false
	}
	switch raw[0] {
	case '"':
		if err := json.Unmarshal(raw, &single); err != nil {
			return "", nil, false
		}
		return single, nil, true
	case '[':
		if err := json.Unmarshal(raw, &list); err != nil {
			return "", nil, false
		}
		if list == nil {
			list = []string{}
		}
		return "", list, true
	default:
		if _, err := strconv.ParseFloat(string(raw), 64); err != nil {
			return "", nil, false
		}
		return string(raw), nil, true
	}
}

func resolvePairs(matches []map[string]string) (MatchKind, []MatchPair, error) {
	if len(matches) == 0 {
		return MatchKind{}, nil, fmt.Errorf("%w: no pairs", ErrMalformedQuestion)
	}

	var mk MatchKind
	found := false
	for _, k := range matchKinds {
		if _, ok := matches[0][k.LeftField]; ok {
			mk, found = k, true
			break
		}
	}
	if !found {
		return MatchKind{}, nil, fmt.Errorf("%w: unknown field pair", ErrMalformedQuestion)
	}

	pairs := make([]MatchPair, 0, len(matches))
	lefts := make(map[string]bool, len(matches))
	for i, m := range matches {
		left, ok := m[mk.LeftField]
		if !ok || strings.TrimSpace(left) == "" {
			return MatchKind{}, nil, fmt.Errorf("%w: pair %d missing %q", ErrMalformedQuestion, i+1, mk.LeftField)
		}
		right, ok := m[mk.RightField]
		if !ok || strings.TrimSpace(right) == "" {
			return MatchKind{}, nil, fmt.Errorf("%w: pair %d missing %q", ErrMalformedQuestion, i+1, mk.RightField)
		}
		if lefts[left] {
			return MatchKind{}, nil, fmt.Errorf("%w: duplicate %s %q", ErrMalformedQuestion, mk.LeftField, left)
		}
		lefts[left] = true
		pairs = append(pairs, MatchPair{Left: left, Right: right})
	}
	return mk, pairs, nil
}

func rightPool(pairs []MatchPair) []string {
	seen := make(map[string]bool, len(pairs))
	pool := make([]string, 0, len(pairs))
	for _, p := range pairs {
		if !seen[p.Right] {
			seen[p.Right] = true
			pool = append(pool, p.Right)
		}
	}
	return pool
}
