package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/storefront/quizwidget/internal/wizard"
)

// stateMsg tells the model the controller applied an event.
type stateMsg struct{ state wizard.State }

// scrollLockMsg asks the model to enter or leave the alternate screen.
type scrollLockMsg struct{ locked bool }

// headerMsg carries the header height the controller reported back.
type headerMsg struct{ px int }

// Bridge carries controller callbacks into the Bubble Tea loop. It is both
// the controller's observer and its layout; neither ever blocks.
type Bridge struct {
	msgs chan tea.Msg
}

func NewBridge() *Bridge {
	return &Bridge{msgs: make(chan tea.Msg, 64)}
}

func (b *Bridge) send(msg tea.Msg) {
	select {
	case b.msgs <- msg:
	default:
		// The model re-reads the controller snapshot on every message,
		// so a dropped state is caught up by the next one.
	}
}

// Observe is registered with wizard.WithObserver.
func (b *Bridge) Observe(s wizard.State) { b.send(stateMsg{state: s}) }

func (b *Bridge) ReportHeaderHeight(px int) { b.send(headerMsg{px: px}) }

func (b *Bridge) SetScrollLocked(locked bool) { b.send(scrollLockMsg{locked: locked}) }

// wait blocks until the controller sends something.
func (b *Bridge) wait() tea.Cmd {
	return func() tea.Msg {
		return <-b.msgs
	}
}
