// Package quiz defines the core domain types of the questionnaire.
// Questions, answers and payloads are plain values shared by every other package.
package quiz

import (
	"errors"
	"fmt"
)

type QuestionType string

const (
	MultiChoice  QuestionType = "pill"
	RegionSelect QuestionType = "dropdown-state"
	TextFields   QuestionType = "input"
)

// Valid reports whether t is one of the known question types.
func (t QuestionType) Valid() bool {
	switch t {
	case MultiChoice, RegionSelect, TextFields:
		return true
	}
	return false
}

// FieldType values with special handling.
const (
	FieldText  = "text"
	FieldEmail = "email"
)

type FieldSpec struct {
	Type        string
	Placeholder string
	Pattern     string
	Required    bool
}

// Question is one immutable screen of the quiz. ConfigErr is set when the
// schema entry was malformed; the question still loads and renders an
// inline error instead of its controls.
type Question struct {
	Title       string
	Info        string
	Type        QuestionType
	Required    bool
	Options     []string
	Multiselect bool
	Inputs      []FieldSpec
	ConfigErr   error
}

var (
	ErrOptionsNotList = errors.New("options must be an array")
	ErrInputsNotList  = errors.New("inputs must be an array")
	ErrInvalidType    = errors.New("invalid type")
)

// ConfigError ties a configuration problem to the question index it was
// found at.
type ConfigError struct {
	Index int
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("question %d: %v", e.Index, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

type PayloadItem struct {
	Label  string `json:"label"`
	Answer string `json:"answer"`
}

// Payload is the ordered submission body, one item per question.
type Payload []PayloadItem

// Delimiter joins list answers when a payload is built.
const Delimiter = ", "
