package wizard

import (
	"github.com/storefront/quizwidget/internal/answer"
	"github.com/storefront/quizwidget/internal/quiz"
)

// Reduce applies e to s and reports the effect the caller must run.
// Events that are not valid in the current phase return s unchanged with
// NoEffect.
func Reduce(questions []quiz.Question, s State, e Event) (State, Effect) {
	last := len(questions) - 1
	switch e.Kind {
	case EventOpen:
		if s.Phase != Closed {
			return s, NoEffect
		}
		return State{Phase: Idle}, SessionOpened

	case EventClose:
		if s.Phase != Idle {
			return s, NoEffect
		}
		s.Phase = Closed
		return s, SessionClosed

	case EventContinue:
		if s.Phase != Idle || !CanContinue(questions, s) {
			return s, NoEffect
		}
		s.Notice = ""
		if s.Step >= last {
			s.Phase = Submitting
			return s, StartSubmission
		}
		return beginTransition(s, Forward), ScheduleSettle

	case EventBack:
		if s.Phase != Idle {
			return s, NoEffect
		}
		s.Notice = ""
		if s.Step == 0 {
			s.Phase = Closed
			return s, SessionClosed
		}
		return beginTransition(s, Backward), ScheduleSettle

	case EventSettle:
		if s.Phase != Transitioning {
			return s, NoEffect
		}
		s.Step += int(s.Direction)
		s.Active = s.Answers.Get(s.Step)
		s.Phase = Idle
		return s, NoEffect

	case EventInput:
		if s.Phase != Idle || s.Step > last {
			return s, NoEffect
		}
		next, err := answer.Apply(questions[s.Step], s.Active, e.Input)
		if err != nil {
			return s, NoEffect
		}
		s.Active = next
		s.Notice = ""
		return s, NoEffect

	case EventSubmitSucceeded:
		if s.Phase != Submitting {
			return s, NoEffect
		}
		return State{Phase: Closed}, SessionClosed

	case EventSubmitFailed:
		if s.Phase != Submitting {
			return s, NoEffect
		}
		s.Phase = Idle
		s.Notice = FailureNotice
		return s, SubmissionFailed
	}
	return s, NoEffect
}

// beginTransition commits the buffered answer before leaving the step.
func beginTransition(s State, dir Direction) State {
	s.Answers = s.Answers.Set(s.Step, s.Active)
	s.Phase = Transitioning
	s.Direction = dir
	return s
}

// Progress is the completion fraction shown by the progress bar.
func Progress(questions []quiz.Question, s State) float64 {
	if len(questions) == 0 {
		return 0
	}
	return float64(s.Step) / float64(len(questions))
}

// PrimaryLabel is the caption of the forward button.
func PrimaryLabel(questions []quiz.Question, s State) string {
	if s.Step == len(questions)-1 {
		return "Complete"
	}
	return "Continue"
}

// BackLabel is the caption of the backward button.
func BackLabel(s State) string {
	if s.Step == 0 {
		return "Close"
	}
	return "Back"
}

// BuildPayload flattens every answer into the submission body, using the
// uncommitted active answer for the last question.
func BuildPayload(questions []quiz.Question, answers quiz.Collection, active quiz.Answer) quiz.Payload {
	payload := make(quiz.Payload, len(questions))
	for i, q := range questions {
		a := answers.Get(i)
		if i == len(questions)-1 {
			a = active
		}
		payload[i] = quiz.PayloadItem{Label: q.Title, Answer: a.Flatten(quiz.Delimiter)}
	}
	return payload
}
