// Package wizard owns step progression for a quiz session.
//
// Reduce is the whole state machine as a pure function. Controller runs
// it inside a single goroutine and performs the effects it asks for:
// arming the transition timer, running the token and submission round
// trip, and driving the page layout.
package wizard

import (
	"fmt"

	"github.com/storefront/quizwidget/internal/answer"
	"github.com/storefront/quizwidget/internal/quiz"
)

type Phase int

const (
	Closed Phase = iota
	Idle
	Transitioning
	Submitting
)

func (p Phase) String() string {
	switch p {
	case Closed:
		return "closed"
	case Idle:
		return "idle"
	case Transitioning:
		return "transitioning"
	case Submitting:
		return "submitting"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

type Direction int

const (
	Forward  Direction = 1
	Backward Direction = -1
)

// State is one snapshot of a session. Answers holds committed answers;
// Active is the buffered answer of the current step.
type State struct {
	Phase     Phase
	Step      int
	Direction Direction
	Answers   quiz.Collection
	Active    quiz.Answer
	Notice    string
}

func (s State) IsOpen() bool        { return s.Phase != Closed }
func (s State) Transitioning() bool { return s.Phase == Transitioning }
func (s State) Submitting() bool    { return s.Phase == Submitting }

// FailureNotice is shown after any failed submission.
const FailureNotice = "Submission failed."

type EventKind int

const (
	EventOpen EventKind = iota
	EventClose
	EventContinue
	EventBack
	EventSettle
	EventInput
	EventSubmitSucceeded
	EventSubmitFailed
)

type Event struct {
	Kind   EventKind
	Input answer.Input
	Err   error
}

func Open() Event                  { return Event{Kind: EventOpen} }
func Close() Event                 { return Event{Kind: EventClose} }
func Continue() Event              { return Event{Kind: EventContinue} }
func Back() Event                  { return Event{Kind: EventBack} }
func Settle() Event                { return Event{Kind: EventSettle} }
func Edit(in answer.Input) Event   { return Event{Kind: EventInput, Input: in} }
func SubmitSucceeded() Event       { return Event{Kind: EventSubmitSucceeded} }
func SubmitFailed(err error) Event { return Event{Kind: EventSubmitFailed, Err: err} }

// Effect is the side effect a transition asks the controller to run.
type Effect int

const (
	NoEffect Effect = iota
	ScheduleSettle
	StartSubmission
	SessionOpened
	SessionClosed
	SubmissionFailed
)
