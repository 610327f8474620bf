package tui

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/storefront/quizwidget/internal/quiz"
	"github.com/storefront/quizwidget/internal/schema"
	"github.com/storefront/quizwidget/internal/wizard"
)

type fakeChallenge struct{}

func (fakeChallenge) RequestToken(context.Context) (string, error) { return "tok", nil }
func (fakeChallenge) ResetChallenge()                              {}

type fakeSubmitter struct {
	mu       sync.Mutex
	payloads []quiz.Payload
}

func (f *fakeSubmitter) Submit(_ context.Context, _ string, p quiz.Payload) error {
	f.mu.Lock()
	f.payloads = append(f.payloads, p)
	f.mu.Unlock()
	return nil
}

func (f *fakeSubmitter) submitted() []quiz.Payload {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]quiz.Payload(nil), f.payloads...)
}

func newTestModel(t *testing.T, questions []quiz.Question) (Model, *fakeSubmitter) {
	t.Helper()
	sub := &fakeSubmitter{}
	bridge := NewBridge()
	ctrl := wizard.New(questions, fakeChallenge{}, sub,
		wizard.WithTransitionDelay(5*time.Millisecond),
		wizard.WithObserver(bridge.Observe),
		wizard.WithLayout(bridge),
	)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		ctrl.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return New(ctx, ctrl, bridge, Options{NoColor: true}), sub
}

func pressKey(m Model, key string) Model {
	msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "space":
		msg = tea.KeyMsg{Type: tea.KeySpace}
	}
	updated, _ := m.Update(msg)
	return updated.(Model)
}

func typeText(m Model, input string) Model {
	for _, r := range input {
		updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = updated.(Model)
	}
	return m
}

// settle waits for the controller to leave any busy phase and hands the
// model the resulting state, the way the Bridge would.
func settle(t *testing.T, m Model) Model {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		p := m.ctrl.State().Phase
		if p == wizard.Idle || p == wizard.Closed {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("controller stuck in %v", p)
		}
		time.Sleep(2 * time.Millisecond)
	}
	updated, _ := m.Update(stateMsg{})
	return updated.(Model)
}

func assertView(t *testing.T, m Model, want ...string) {
	t.Helper()
	out := m.View()
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Fatalf("expected %q in view:\n%s", w, out)
		}
	}
}

func TestOpenShowsFirstStep(t *testing.T) {
	m, _ := newTestModel(t, schema.Default())
	assertView(t, m, "enter: start")

	m = pressKey(m, "enter")
	assertView(t, m,
		"Step 1 of 5",
		"What are your main health goals?",
		"Select all that apply.",
		"[ ] More energy",
		"Close",
		"Continue",
	)
}

func TestContinueBlockedUntilAnswered(t *testing.T) {
	m, _ := newTestModel(t, schema.Default())
	m = pressKey(m, "enter")

	m = pressKey(m, "enter")
	if s := m.ctrl.State(); s.Phase != wizard.Idle || s.Step != 0 {
		t.Fatalf("empty required step advanced: %+v", s)
	}

	m = pressKey(m, "space")
	assertView(t, m, "[x] More energy")
	m = pressKey(m, "enter")
	m = settle(t, m)
	assertView(t, m, "Step 2 of 5", "( ) Sedentary", "Back")
}

func TestCursorMovesAndSingleSelectReplaces(t *testing.T) {
	m, _ := newTestModel(t, schema.Default())
	m = pressKey(m, "enter")
	m = pressKey(m, "space")
	m = pressKey(m, "enter")
	m = settle(t, m)

	m = pressKey(m, "down")
	m = pressKey(m, "space")
	m = pressKey(m, "down")
	m = pressKey(m, "space")
	if got := m.ctrl.State().Active.Flatten(quiz.Delimiter); got != "Active" {
		t.Fatalf("answer = %q, want Active", got)
	}
	assertView(t, m, "(*) Active", "( ) Lightly active")
}

func TestEscOnFirstStepCloses(t *testing.T) {
	m, _ := newTestModel(t, schema.Default())
	m = pressKey(m, "enter")
	m = pressKey(m, "esc")
	if m.ctrl.IsOpen() {
		t.Fatalf("session still open")
	}
	assertView(t, m, "enter: start")
}

func TestBackRestoresStepAnswer(t *testing.T) {
	m, _ := newTestModel(t, schema.Default())
	m = pressKey(m, "enter")
	m = pressKey(m, "down")
	m = pressKey(m, "space")
	m = pressKey(m, "enter")
	m = settle(t, m)

	m = pressKey(m, "esc")
	m = settle(t, m)
	assertView(t, m, "Step 1 of 5", "[x] Better sleep")
	if m.cursor != 1 {
		t.Fatalf("cursor = %d, want it on the selected option", m.cursor)
	}
}

func TestFullRunSubmits(t *testing.T) {
	m, sub := newTestModel(t, schema.Default())
	m = pressKey(m, "enter")

	m = pressKey(m, "space")
	m = settle(t, pressKey(m, "enter"))

	m = pressKey(m, "down")
	m = pressKey(m, "down")
	m = pressKey(m, "space")
	m = settle(t, pressKey(m, "enter"))

	// Optional step.
	m = settle(t, pressKey(m, "enter"))

	assertView(t, m, "Which state do you live in?", "Selected: none")
	m = pressKey(m, "space")
	assertView(t, m, "Selected: Alabama")
	m = settle(t, pressKey(m, "enter"))

	assertView(t, m, "Complete", "Required.")
	m = typeText(m, "Ann")
	m = pressKey(m, "tab")
	m = pressKey(m, "tab")
	m = typeText(m, "ann@example.com")

	m = pressKey(m, "enter")
	if !m.state.Submitting() {
		t.Fatalf("phase = %v, want submitting", m.state.Phase)
	}
	assertView(t, m, "Submitting...")

	m = settle(t, m)
	assertView(t, m, sentMessage)

	payloads := sub.submitted()
	if len(payloads) != 1 {
		t.Fatalf("submitted %d payloads", len(payloads))
	}
	p := payloads[0]
	if len(p) != 5 {
		t.Fatalf("payload has %d items", len(p))
	}
	want := []string{"More energy", "Active", "", "Alabama", "Ann, , ann@example.com"}
	for i, item := range p {
		if item.Answer != want[i] {
			t.Errorf("item %d (%s) = %q, want %q", i, item.Label, item.Answer, want[i])
		}
	}
}

func TestKeysIgnoredWhileTransitioning(t *testing.T) {
	m, _ := newTestModel(t, schema.Default())
	m = pressKey(m, "enter")
	m = pressKey(m, "space")
	m = pressKey(m, "enter")
	if !m.state.Transitioning() {
		t.Fatalf("phase = %v, want transitioning", m.state.Phase)
	}
	m = pressKey(m, "down")
	m = pressKey(m, "space")
	if m.cursor != 0 {
		t.Fatalf("cursor moved during transition")
	}
	m = settle(t, m)
	if got := m.ctrl.State().Answers.Get(0).Flatten(quiz.Delimiter); got != "More energy" {
		t.Fatalf("committed answer = %q", got)
	}
}

func TestRegionListFitsWindow(t *testing.T) {
	questions := []quiz.Question{{Title: "State", Type: quiz.RegionSelect, Required: true}}
	m, _ := newTestModel(t, questions)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	m = updated.(Model)
	m = pressKey(m, "enter")

	out := m.View()
	if strings.Contains(out, "Wyoming") {
		t.Fatalf("whole region list rendered in a short window:\n%s", out)
	}
	for range 40 {
		m = pressKey(m, "down")
	}
	assertView(t, m, "> ( ) "+quiz.Regions[40])
	if strings.Contains(m.View(), "Alabama") {
		t.Fatalf("window did not scroll")
	}
}

func TestConfigErrorShown(t *testing.T) {
	questions := []quiz.Question{{
		Title:     "Broken",
		Type:      quiz.MultiChoice,
		ConfigErr: &quiz.ConfigError{Err: quiz.ErrOptionsNotList},
	}}
	m, _ := newTestModel(t, questions)
	m = pressKey(m, "enter")
	assertView(t, m, "Invalid configuration. Options must be an array.")
}

func TestScrollLockTogglesAltScreen(t *testing.T) {
	m, _ := newTestModel(t, schema.Default())
	if _, cmd := m.Update(scrollLockMsg{locked: true}); cmd == nil {
		t.Fatalf("expected a command for scroll lock")
	}
	updated, _ := m.Update(headerMsg{px: 3})
	if got := updated.(Model).header; got != 3 {
		t.Fatalf("header = %d", got)
	}
}

func TestBridgeNeverBlocks(t *testing.T) {
	b := NewBridge()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for range 200 {
			b.Observe(wizard.State{})
		}
		b.SetScrollLocked(true)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("bridge blocked on a full queue")
	}
	if _, ok := b.wait()().(stateMsg); !ok {
		t.Fatal("expected the first queued message to be a state")
	}
}

func TestQuitKeys(t *testing.T) {
	m, _ := newTestModel(t, schema.Default())
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}); cmd == nil {
		t.Fatal("q should quit while closed")
	}
	m = pressKey(m, "enter")
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC}); cmd == nil {
		t.Fatal("ctrl+c should quit while open")
	}
}
