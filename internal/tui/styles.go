package tui

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title    lipgloss.Style
	header   lipgloss.Style
	info     lipgloss.Style
	cursor   lipgloss.Style
	selected lipgloss.Style
	muted    lipgloss.Style
	notice   lipgloss.Style
	button   lipgloss.Style
	primary  lipgloss.Style
	disabled lipgloss.Style
	help     lipgloss.Style
}

func newStyles(noColor bool) styles {
	if noColor {
		plain := lipgloss.NewStyle()
		return styles{
			title:    plain.Bold(true),
			header:   plain,
			info:     plain,
			cursor:   plain.Bold(true),
			selected: plain.Bold(true),
			muted:    plain,
			notice:   plain.Bold(true),
			button:   plain.Padding(0, 1),
			primary:  plain.Padding(0, 1).Bold(true),
			disabled: plain.Padding(0, 1),
			help:     plain,
		}
	}
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")),
		header:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		info:     lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("245")),
		cursor:   lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true),
		selected: lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
		muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		notice:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		button:   lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder()),
		primary:  lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("63")).Bold(true),
		disabled: lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder()).Foreground(lipgloss.Color("240")),
		help:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}
