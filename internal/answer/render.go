package answer

import (
	"errors"

	"github.com/storefront/quizwidget/internal/quiz"
)

// Control is one selectable chip, list entry or text field. Index is the
// control's position and doubles as its identity.
type Control struct {
	Index       int    `json:"index"`
	Label       string `json:"label"`
	Value       string `json:"value"`
	Selected    bool   `json:"selected,omitempty"`
	Required    bool   `json:"required,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
	InputType   string `json:"inputType,omitempty"`
	Pattern     string `json:"pattern,omitempty"`
}

// View is everything a front-end needs to draw the active question.
// When Error is set the controls are omitted.
type View struct {
	Title       string            `json:"title,omitempty"`
	Info        string            `json:"info,omitempty"`
	Type        quiz.QuestionType `json:"type"`
	Multiselect bool              `json:"multiselect,omitempty"`
	Value       string            `json:"value,omitempty"`
	Controls    []Control         `json:"controls"`
	Error       string            `json:"error,omitempty"`
}

const requiredHint = "Required."

// Render builds the view of q with current as its answer.
func Render(q quiz.Question, current quiz.Answer) View {
	v := View{
		Title:    q.Title,
		Info:     q.Info,
		Type:     q.Type,
		Controls: []Control{},
	}
	if q.ConfigErr != nil {
		v.Error = configMessage(q.ConfigErr)
		return v
	}
	switch q.Type {
	case quiz.MultiChoice:
		v.Multiselect = q.Multiselect
		for i, opt := range q.Options {
			v.Controls = append(v.Controls, Control{
				Index:    i,
				Label:    opt,
				Value:    opt,
				Selected: current.IsList() && current.Contains(opt),
			})
		}
	case quiz.RegionSelect:
		v.Value = quiz.RegionUnset
		if !current.IsAbsent() && quiz.IsRegion(current.Flatten("")) {
			v.Value = current.Flatten("")
		}
		for i, r := range quiz.Regions {
			v.Controls = append(v.Controls, Control{
				Index:    i,
				Label:    r,
				Value:    r,
				Selected: r == v.Value,
				Required: q.Required,
			})
		}
	case quiz.TextFields:
		for i, f := range q.Inputs {
			c := Control{
				Index:       i,
				Value:       current.At(i),
				Required:    f.Required,
				Placeholder: f.Placeholder,
				InputType:   f.Type,
				Pattern:     f.Pattern,
			}
			if f.Required {
				c.Label = requiredHint
			}
			v.Controls = append(v.Controls, c)
		}
	default:
		v.Error = configMessage(quiz.ErrInvalidType)
	}
	return v
}

func configMessage(err error) string {
	switch {
	case errors.Is(err, quiz.ErrOptionsNotList):
		return "Invalid configuration. Options must be an array."
	case errors.Is(err, quiz.ErrInputsNotList):
		return "Invalid configuration. Inputs must be an array."
	}
	return "Invalid configuration. Invalid type."
}
