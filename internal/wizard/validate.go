package wizard

import (
	"regexp"

	"github.com/storefront/quizwidget/internal/quiz"
)

var emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

// CanContinue reports whether the continue action is enabled. It is false
// while a submission is in flight, when a required answer is empty, and,
// for text steps, when a required field is empty or a required email
// field does not look like an address.
func CanContinue(questions []quiz.Question, s State) bool {
	if s.Phase == Submitting {
		return false
	}
	if s.Step < 0 || s.Step >= len(questions) {
		return false
	}
	q := questions[s.Step]
	if q.Type == quiz.TextFields && q.ConfigErr == nil {
		return fieldsValid(q.Inputs, s.Active)
	}
	return !q.Required || s.Active.Len() > 0
}

func fieldsValid(fields []quiz.FieldSpec, a quiz.Answer) bool {
	for i, f := range fields {
		if !f.Required {
			continue
		}
		v := a.At(i)
		if v == "" {
			return false
		}
		if f.Type == quiz.FieldEmail && !emailPattern.MatchString(v) {
			return false
		}
	}
	return true
}
