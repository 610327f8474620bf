// Package tui is the terminal front-end of a quiz session.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/storefront/quizwidget/internal/answer"
	"github.com/storefront/quizwidget/internal/quiz"
	"github.com/storefront/quizwidget/internal/wizard"
)

const (
	sentMessage = "Thanks! Your answers were sent."
	minListRows = 5
	// Rows taken by everything around a region list: question, buttons, help.
	chromeRows = 10
)

type Options struct {
	NoColor bool
}

// Model renders the controller's state and turns key presses into wizard
// events. Dispatches are synchronous; asynchronous changes such as a
// settled transition arrive through the Bridge.
type Model struct {
	ctx    context.Context
	ctrl   *wizard.Controller
	bridge *Bridge
	styles styles

	state  wizard.State
	view   answer.View
	cursor int

	fields     []textinput.Model
	fieldsStep int
	focus      int

	bar  progress.Model
	spin spinner.Model

	width  int
	height int
	header int
	sent   bool
	err    error
}

func New(ctx context.Context, ctrl *wizard.Controller, bridge *Bridge, opts Options) Model {
	bar := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	if opts.NoColor {
		bar = progress.New(progress.WithSolidFill("7"), progress.WithoutPercentage())
	}
	bar.Width = 40
	return Model{
		ctx:        ctx,
		ctrl:       ctrl,
		bridge:     bridge,
		styles:     newStyles(opts.NoColor),
		state:      ctrl.State(),
		fieldsStep: -1,
		bar:        bar,
		spin:       spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

// Err reports the error that stopped the model, if any.
func (m Model) Err() error { return m.err }

func (m Model) Init() tea.Cmd {
	return m.bridge.wait()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = max(10, min(msg.Width-4, 60))
		if _, err := m.ctrl.Resize(m.ctx, lipgloss.Height(m.headerView())); err != nil {
			m.err = err
			return m, tea.Quit
		}
		return m, nil
	case stateMsg:
		next, cmd := m.sync(m.ctrl.State())
		return next, tea.Batch(cmd, next.bridge.wait())
	case headerMsg:
		m.header = msg.px
		return m, m.bridge.wait()
	case scrollLockMsg:
		screen := tea.ExitAltScreen
		if msg.locked {
			screen = tea.EnterAltScreen
		}
		return m, tea.Batch(screen, m.bridge.wait())
	case spinner.TickMsg:
		if !m.state.Submitting() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}
	if !m.state.IsOpen() {
		switch key {
		case "q":
			return m, tea.Quit
		case "enter", "o":
			return m.dispatch(wizard.Open())
		}
		return m, nil
	}
	// Anything typed while busy would be dropped by the reducer anyway.
	if m.state.Phase != wizard.Idle {
		return m, nil
	}

	switch key {
	case "esc":
		return m.dispatch(wizard.Back())
	case "enter":
		return m.dispatch(wizard.Continue())
	}
	if m.view.Error != "" {
		return m, nil
	}

	switch m.view.Type {
	case quiz.TextFields:
		return m.handleFieldKey(msg)
	case quiz.MultiChoice, quiz.RegionSelect:
		return m.handleListKey(key)
	}
	return m, nil
}

func (m Model) handleListKey(key string) (tea.Model, tea.Cmd) {
	last := len(m.view.Controls) - 1
	switch key {
	case "up", "k":
		m.cursor = max(0, m.cursor-1)
	case "down", "j":
		m.cursor = min(last, m.cursor+1)
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		m.cursor = last
	case " ", "space", "x":
		if m.cursor < 0 || m.cursor > last {
			return m, nil
		}
		kind := answer.Toggle
		if m.view.Type == quiz.RegionSelect {
			kind = answer.Region
		}
		return m.dispatch(wizard.Edit(answer.Input{Kind: kind, Option: m.view.Controls[m.cursor].Value}))
	}
	return m, nil
}

func (m Model) handleFieldKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if len(m.fields) == 0 {
		return m, nil
	}
	switch msg.String() {
	case "tab", "down":
		return m.focusField((m.focus + 1) % len(m.fields))
	case "shift+tab", "up":
		return m.focusField((m.focus + len(m.fields) - 1) % len(m.fields))
	}

	before := m.fields[m.focus].Value()
	var cmd tea.Cmd
	m.fields[m.focus], cmd = m.fields[m.focus].Update(msg)
	after := m.fields[m.focus].Value()
	if after == before {
		return m, cmd
	}
	next, dcmd := m.dispatch(wizard.Edit(answer.Input{Kind: answer.Field, Field: m.focus, Text: after}))
	return next, tea.Batch(cmd, dcmd)
}

func (m Model) focusField(i int) (tea.Model, tea.Cmd) {
	m.fields[m.focus].Blur()
	m.focus = i
	return m, m.fields[m.focus].Focus()
}

func (m Model) dispatch(e wizard.Event) (tea.Model, tea.Cmd) {
	s, err := m.ctrl.Dispatch(m.ctx, e)
	if err != nil {
		m.err = err
		return m, tea.Quit
	}
	return m.sync(s)
}

// sync adopts s and rebuilds whatever depends on the step.
func (m Model) sync(s wizard.State) (Model, tea.Cmd) {
	prev := m.state
	m.state = s

	var cmd tea.Cmd
	if prev.Submitting() && s.Phase == wizard.Closed {
		m.sent = true
	}
	if !prev.IsOpen() && s.IsOpen() {
		m.sent = false
	}
	if !prev.Submitting() && s.Submitting() {
		cmd = m.spin.Tick
	}

	if !s.IsOpen() {
		m.fields = nil
		m.fieldsStep = -1
		return m, cmd
	}
	questions := m.ctrl.Questions()
	if s.Step < 0 || s.Step >= len(questions) {
		return m, cmd
	}
	m.view = answer.Render(questions[s.Step], s.Active)
	if m.fieldsStep != s.Step {
		m.fieldsStep = s.Step
		m.cursor = 0
		for _, c := range m.view.Controls {
			if c.Selected {
				m.cursor = c.Index
				break
			}
		}
		m.fields = nil
		m.focus = 0
		if m.view.Type == quiz.TextFields {
			cmd = tea.Batch(cmd, m.buildFields())
		}
	}
	return m, cmd
}

func (m *Model) buildFields() tea.Cmd {
	for _, c := range m.view.Controls {
		ti := textinput.New()
		ti.Placeholder = c.Placeholder
		ti.Prompt = "> "
		ti.CharLimit = 120
		ti.SetValue(c.Value)
		m.fields = append(m.fields, ti)
	}
	if len(m.fields) == 0 {
		return nil
	}
	return m.fields[0].Focus()
}

func (m Model) View() string {
	if !m.state.IsOpen() {
		return m.closedView()
	}
	var sections []string
	sections = append(sections, m.headerView(), "")

	sections = append(sections, m.styles.title.Render(m.view.Title))
	if m.view.Info != "" {
		sections = append(sections, m.styles.info.Render(m.view.Info))
	}
	sections = append(sections, "")
	if m.view.Error != "" {
		sections = append(sections, m.styles.notice.Render(m.view.Error))
	} else {
		sections = append(sections, m.controlsView())
	}

	if m.state.Notice != "" {
		sections = append(sections, "", m.styles.notice.Render(m.state.Notice))
	}
	sections = append(sections, "", m.actionsView(), m.helpView())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) closedView() string {
	lines := []string{m.styles.title.Render("Quiz")}
	if m.sent {
		lines = append(lines, m.styles.selected.Render(sentMessage))
	}
	lines = append(lines, "", m.styles.help.Render("enter: start  q: quit"))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) headerView() string {
	total := len(m.ctrl.Questions())
	step := fmt.Sprintf("Step %d of %d", m.state.Step+1, total)
	return lipgloss.JoinVertical(lipgloss.Left,
		m.styles.title.Render("Quiz")+"  "+m.styles.header.Render(step),
		m.bar.ViewAs(wizard.Progress(m.ctrl.Questions(), m.state)),
	)
}

func (m Model) controlsView() string {
	switch m.view.Type {
	case quiz.TextFields:
		return m.fieldsView()
	case quiz.RegionSelect:
		return m.listView(m.regionWindow())
	}
	return m.listView(0, len(m.view.Controls))
}

// regionWindow picks the slice of the region list that fits on screen.
func (m Model) regionWindow() (int, int) {
	n := len(m.view.Controls)
	rows := n
	if m.height > 0 {
		rows = max(minListRows, m.height-m.header-chromeRows)
	}
	if rows >= n {
		return 0, n
	}
	start := max(0, min(m.cursor-rows/2, n-rows))
	return start, start + rows
}

func (m Model) listView(from, to int) string {
	var b strings.Builder
	if m.view.Type == quiz.RegionSelect {
		value := m.view.Value
		if value == quiz.RegionUnset {
			value = "none"
		}
		b.WriteString(m.styles.muted.Render("Selected: "+value) + "\n")
	}
	for _, c := range m.view.Controls[from:to] {
		pointer := "  "
		if c.Index == m.cursor {
			pointer = m.styles.cursor.Render("> ")
		}
		label := mark(m.view, c.Selected) + " " + c.Label
		if c.Selected {
			label = m.styles.selected.Render(label)
		}
		b.WriteString(pointer + label + "\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func mark(v answer.View, selected bool) string {
	switch {
	case v.Type == quiz.MultiChoice && v.Multiselect && selected:
		return "[x]"
	case v.Type == quiz.MultiChoice && v.Multiselect:
		return "[ ]"
	case selected:
		return "(*)"
	}
	return "( )"
}

func (m Model) fieldsView() string {
	lines := make([]string, 0, len(m.fields))
	for i, ti := range m.fields {
		line := ti.View()
		if c := m.view.Controls[i]; c.Label != "" {
			line += "  " + m.styles.muted.Render(c.Label)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m Model) actionsView() string {
	if m.state.Submitting() {
		return m.spin.View() + " Submitting..."
	}
	questions := m.ctrl.Questions()
	back := m.styles.button.Render(wizard.BackLabel(m.state))
	primary := m.styles.primary
	if !wizard.CanContinue(questions, m.state) {
		primary = m.styles.disabled
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, back, " ", primary.Render(wizard.PrimaryLabel(questions, m.state)))
}

func (m Model) helpView() string {
	help := "esc: back  enter: continue  ctrl+c: quit"
	switch m.view.Type {
	case quiz.TextFields:
		help = "tab: next field  " + help
	case quiz.MultiChoice, quiz.RegionSelect:
		help = "up/down: move  space: select  " + help
	}
	return m.styles.help.Render(help)
}
