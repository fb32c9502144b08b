package answersheet

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrResponseShape is returned when a response's shape cannot apply to the
// question it was given for, e.g. a label mapping for a fill-in question.
var ErrResponseShape = errors.New("response shape does not match question")

// Shape tells which of the three response forms a Response carries.
type Shape string

const (
	ShapeNone    Shape = ""
	ShapeText    Shape = "text"    // fill_blank, single_choice
	ShapeChoices Shape = "choices" // multi_choice
	ShapeFields  Shape = "fields"  // diagram (label id → value), matching (left → right)
)

// Response is the raw input captured for one question.
type Response struct {
	Shape   Shape
	Text    string
	Choices []string
	Fields  map[string]string
}

func Text(s string) Response {
	return Response{Shape: ShapeText, Text: s}
}

func Choices(c ...string) Response {
	return Response{Shape: ShapeChoices, Choices: c}
}

func Fields(m map[string]string) Response {
	return Response{Shape: ShapeFields, Fields: m}
}

// IsEmpty reports whether the response carries no input. Whitespace-only
// strings count as no input.
func (r Response) IsEmpty() bool {
	switch r.Shape {
	case ShapeText:
		return strings.TrimSpace(r.Text) == ""
	case ShapeChoices:
		for _, c := range r.Choices {
			if strings.TrimSpace(c) != "" {
				return false
			}
		}
		return true
	case ShapeFields:
		for _, v := range r.Fields {
			if strings.TrimSpace(v) != "" {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// UnmarshalJSON accepts a string, a number, an array of strings, an object
// of strings, or null.
func (r *Response) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = Response{}
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = Text(s)
	case '[':
		var c []string
		if err := json.Unmarshal(data, &c); err != nil {
			return fmt.Errorf("%w: choices must be strings", ErrResponseShape)
		}
		*r = Choices(c...)
	case '{':
		var m map[string]string
		if err := json.Unmarshal(data, &m); err != nil {
			return fmt.Errorf("%w: fields must map to strings", ErrResponseShape)
		}
		*r = Fields(m)
	default:
		if _, err := strconv.ParseFloat(string(data), 64); err != nil {
			return fmt.Errorf("%w: unexpected %s", ErrResponseShape, string(data))
		}
		*r = Text(string(data))
	}
	return nil
}

func (r Response) MarshalJSON() ([]byte, error) {
	switch r.Shape {
	case ShapeText:
		return json.Marshal(r.Text)
	case ShapeChoices:
		if r.Choices == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(r.Choices)
	case ShapeFields:
		if r.Fields == nil {
			return []byte("{}"), nil
		}
		return json.Marshal(r.Fields)
	default:
		return []byte("null"), nil
	}
}

// Answers maps a question id to the response captured for it.
type Answers map[string]Response

// Lookup satisfies the collector signature used by the scoring engine.
func (a Answers) Lookup(questionID string) (Response, bool) {
	r, ok := a[questionID]
	return r, ok
}

// Clone returns an independent copy of the answers.
func (a Answers) Clone() Answers {
	out := make(Answers, len(a))
	for k, v := range a {
		c := Response{Shape: v.Shape, Text: v.Text}
		if v.Choices != nil {
			c.Choices = append([]string(nil), v.Choices...)
		}
		if v.Fields != nil {
			c.Fields = make(map[string]string, len(v.Fields))
			for fk, fv := range v.Fields {
				c.Fields[fk] = fv
			}
		}
		out[k] = c
	}
	return out
}
