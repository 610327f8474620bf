// Package schema loads quiz definitions from JSON or YAML.
//
// Structural problems in a single question (options or inputs that are not
// lists, unknown types) do not fail the load: they are recorded on the
// question as ConfigErr so the wizard can render an inline error for that
// step and keep the rest of the quiz usable.
package schema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/storefront/quizwidget/internal/quiz"
)

//go:embed default_quiz.json
var defaultQuiz []byte

var ErrEmpty = errors.New("quiz has no questions")

// rawQuestion mirrors one schema entry. Options and Inputs stay untyped so
// a malformed value becomes a per-question error instead of a decode error.
type rawQuestion struct {
	Title       string `json:"title" yaml:"title"`
	Info        string `json:"info" yaml:"info"`
	Type        string `json:"type" yaml:"type"`
	Required    bool   `json:"required" yaml:"required"`
	Multiselect *bool  `json:"multiselect" yaml:"multiselect"`
	Options     any    `json:"options" yaml:"options"`
	Inputs      any    `json:"inputs" yaml:"inputs"`
}

// Default returns the quiz embedded in the binary.
func Default() []quiz.Question {
	qs, err := Parse(defaultQuiz, ".json")
	if err != nil {
		panic(fmt.Sprintf("embedded quiz: %v", err))
	}
	return qs
}

// Load reads a quiz file. The format is picked from the extension:
// .json is JSON, anything else is YAML.
func Load(path string) ([]quiz.Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read quiz: %w", err)
	}
	return Parse(data, filepath.Ext(path))
}

// Parse decodes a quiz document; ext selects the decoder.
func Parse(data []byte, ext string) ([]quiz.Question, error) {
	var (
		raw []rawQuestion
		err error
	)
	if strings.EqualFold(ext, ".json") {
		raw, err = parseJSON(data)
	} else {
		raw, err = parseYAML(data)
	}
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, ErrEmpty
	}
	out := make([]quiz.Question, len(raw))
	for i, rq := range raw {
		out[i] = normalize(i, rq)
	}
	return out, nil
}

func parseJSON(data []byte) ([]rawQuestion, error) {
	var raw []rawQuestion
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return nil, fmt.Errorf("parse json: multiple documents are not supported")
		}
		return nil, fmt.Errorf("parse json: %w", err)
	}
	return raw, nil
}

func parseYAML(data []byte) ([]rawQuestion, error) {
	var raw []rawQuestion
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&raw); err != nil {
		if err == io.EOF {
			return nil, ErrEmpty
		}
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return nil, fmt.Errorf("parse yaml: multiple documents are not supported")
		}
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return raw, nil
}

func normalize(index int, rq rawQuestion) quiz.Question {
	q := quiz.Question{
		Title:       strings.TrimSpace(rq.Title),
		Info:        strings.TrimSpace(rq.Info),
		Type:        quiz.QuestionType(strings.TrimSpace(rq.Type)),
		Required:    rq.Required,
		Multiselect: rq.Multiselect == nil || *rq.Multiselect,
	}
	var err error
	switch q.Type {
	case quiz.MultiChoice:
		q.Options, err = stringList(rq.Options)
	case quiz.TextFields:
		q.Inputs, err = fieldList(rq.Inputs)
	case quiz.RegionSelect:
	default:
		err = quiz.ErrInvalidType
	}
	if err != nil {
		q.ConfigErr = &quiz.ConfigError{Index: index, Err: err}
	}
	return q
}

func stringList(v any) ([]string, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, quiz.ErrOptionsNotList
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, quiz.ErrOptionsNotList
		}
		out = append(out, s)
	}
	return out, nil
}

func fieldList(v any) ([]quiz.FieldSpec, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, quiz.ErrInputsNotList
	}
	out := make([]quiz.FieldSpec, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, quiz.ErrInputsNotList
		}
		f := quiz.FieldSpec{Type: quiz.FieldText}
		if s, ok := m["type"].(string); ok && s != "" {
			f.Type = s
		}
		f.Placeholder, _ = m["placeholder"].(string)
		f.Pattern, _ = m["pattern"].(string)
		f.Required, _ = m["required"].(bool)
		out = append(out, f)
	}
	return out, nil
}
