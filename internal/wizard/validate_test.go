package wizard

import (
	"testing"

	"github.com/storefront/quizwidget/internal/quiz"
)

func TestCanContinue(t *testing.T) {
	contact := quiz.Question{Type: quiz.TextFields, Inputs: []quiz.FieldSpec{
		{Type: quiz.FieldText},
		{Type: quiz.FieldEmail, Required: true},
	}}
	choice := quiz.Question{Type: quiz.MultiChoice, Required: true, Multiselect: true, Options: []string{"A"}}
	optional := quiz.Question{Type: quiz.MultiChoice, Options: []string{"A"}}
	state := quiz.Question{Type: quiz.RegionSelect, Required: true}
	broken := quiz.Question{Type: quiz.MultiChoice, Required: true, ConfigErr: &quiz.ConfigError{Err: quiz.ErrOptionsNotList}}
	brokenText := quiz.Question{Type: quiz.TextFields, ConfigErr: &quiz.ConfigError{Err: quiz.ErrInputsNotList}}
	optionalEmail := quiz.Question{Type: quiz.TextFields, Inputs: []quiz.FieldSpec{
		{Type: quiz.FieldEmail},
	}}

	tests := []struct {
		name  string
		q     quiz.Question
		phase Phase
		a     quiz.Answer
		want  bool
	}{
		{"email absent", contact, Idle, quiz.None(), false},
		{"email empty", contact, Idle, quiz.List("Ann", ""), false},
		{"email malformed", contact, Idle, quiz.List("Ann", "not-an-address"), false},
		{"email missing tld", contact, Idle, quiz.List("", "ann@example"), false},
		{"email valid", contact, Idle, quiz.List("", "ann@example.com"), true},
		{"email valid with name", contact, Idle, quiz.List("Ann", "ann.lee+quiz@mail.example.org"), true},
		{"email valid but submitting", contact, Submitting, quiz.List("Ann", "ann@example.com"), false},
		{"choice empty", choice, Idle, quiz.None(), false},
		{"choice emptied list", choice, Idle, quiz.List(), false},
		{"choice selected", choice, Idle, quiz.List("A"), true},
		{"optional empty", optional, Idle, quiz.None(), true},
		{"region unset", state, Idle, quiz.None(), false},
		{"region set", state, Idle, quiz.Single("Ohio"), true},
		{"broken required", broken, Idle, quiz.None(), false},
		{"broken text optional", brokenText, Idle, quiz.None(), true},
		{"optional email garbage", optionalEmail, Idle, quiz.List("garbage"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qs := []quiz.Question{tt.q}
			s := State{Phase: tt.phase, Active: tt.a}
			if got := CanContinue(qs, s); got != tt.want {
				t.Errorf("CanContinue = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanContinueOutOfRange(t *testing.T) {
	if CanContinue(nil, State{Phase: Idle}) {
		t.Fatal("empty quiz should never continue")
	}
}
