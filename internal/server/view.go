package server

import (
	"github.com/storefront/quizwidget/internal/answer"
	"github.com/storefront/quizwidget/internal/quiz"
	"github.com/storefront/quizwidget/internal/wizard"
)

// SessionView is what session endpoints and the event stream return.
type SessionView struct {
	ID           string       `json:"id"`
	Open         bool         `json:"open"`
	Phase        string       `json:"phase"`
	Step         int          `json:"step"`
	Total        int          `json:"total"`
	Progress     float64      `json:"progress"`
	CanContinue  bool         `json:"canContinue"`
	PrimaryLabel string       `json:"primaryLabel"`
	BackLabel    string       `json:"backLabel"`
	Notice       string       `json:"notice,omitempty"`
	HeaderOffset int          `json:"headerOffset"`
	ScrollLocked bool         `json:"scrollLocked"`
	Question     *answer.View `json:"question,omitempty"`
}

func newSessionView(id string, questions []quiz.Question, s wizard.State, layout *sessionLayout) SessionView {
	v := SessionView{
		ID:           id,
		Open:         s.IsOpen(),
		Phase:        s.Phase.String(),
		Step:         s.Step,
		Total:        len(questions),
		Progress:     wizard.Progress(questions, s),
		CanContinue:  wizard.CanContinue(questions, s),
		PrimaryLabel: wizard.PrimaryLabel(questions, s),
		BackLabel:    wizard.BackLabel(s),
		Notice:       s.Notice,
	}
	v.HeaderOffset, v.ScrollLocked = layout.snapshot()
	if s.IsOpen() && s.Step < len(questions) {
		q := answer.Render(questions[s.Step], s.Active)
		v.Question = &q
	}
	return v
}
