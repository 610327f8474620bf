// Package answer renders one question and applies user input to its
// buffered answer. It knows nothing about the wizard around it.
package answer

import (
	"errors"
	"fmt"
	"slices"

	"github.com/storefront/quizwidget/internal/quiz"
)

var ErrInvalidInput = errors.New("invalid input")

type InputKind string

const (
	Toggle InputKind = "toggle"
	Region InputKind = "region"
	Field  InputKind = "field"
)

// Input is one user interaction with the active question.
type Input struct {
	Kind   InputKind `json:"kind"`
	Option string    `json:"option,omitempty"`
	Field  int       `json:"field,omitempty"`
	Text   string    `json:"text,omitempty"`
}

// Apply returns the answer that results from in. The current answer is
// never modified; on error it should be kept as is.
func Apply(q quiz.Question, current quiz.Answer, in Input) (quiz.Answer, error) {
	if q.ConfigErr != nil {
		return current, q.ConfigErr
	}
	switch q.Type {
	case quiz.MultiChoice:
		if in.Kind != Toggle {
			return current, fmt.Errorf("%w: %s on choice question", ErrInvalidInput, in.Kind)
		}
		return toggle(q, current, in.Option)
	case quiz.RegionSelect:
		if in.Kind != Region {
			return current, fmt.Errorf("%w: %s on region question", ErrInvalidInput, in.Kind)
		}
		if !quiz.IsRegion(in.Option) {
			return current, fmt.Errorf("%w: unknown region %q", ErrInvalidInput, in.Option)
		}
		return quiz.Single(in.Option), nil
	case quiz.TextFields:
		if in.Kind != Field {
			return current, fmt.Errorf("%w: %s on text question", ErrInvalidInput, in.Kind)
		}
		return setField(q, current, in.Field, in.Text)
	}
	return current, quiz.ErrInvalidType
}

func toggle(q quiz.Question, current quiz.Answer, option string) (quiz.Answer, error) {
	if !slices.Contains(q.Options, option) {
		return current, fmt.Errorf("%w: unknown option %q", ErrInvalidInput, option)
	}
	if !q.Multiselect {
		return quiz.List(option), nil
	}
	var selected []string
	if current.IsList() {
		selected = current.Strings()
	}
	if i := slices.Index(selected, option); i >= 0 {
		return quiz.List(slices.Delete(selected, i, i+1)...), nil
	}
	return quiz.List(append(selected, option)...), nil
}

func setField(q quiz.Question, current quiz.Answer, index int, text string) (quiz.Answer, error) {
	if index < 0 || index >= len(q.Inputs) {
		return current, fmt.Errorf("%w: field %d out of range", ErrInvalidInput, index)
	}
	var values []string
	if current.IsList() {
		values = current.Strings()
	}
	for len(values) <= index {
		values = append(values, "")
	}
	values[index] = text
	return quiz.List(values...), nil
}
