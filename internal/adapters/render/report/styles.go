package report

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title    lipgloss.Style
	header   lipgloss.Style
	section  lipgloss.Style
	empty    lipgloss.Style
	ready    lipgloss.Style
	replace  lipgloss.Style
	skip     lipgloss.Style
	failed   lipgloss.Style
	detail   lipgloss.Style
	summary  lipgloss.Style
	emphasis lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true),
		header:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		section:  lipgloss.NewStyle().MarginTop(1),
		empty:    lipgloss.NewStyle().Faint(true),
		ready:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		replace:  lipgloss.NewStyle().Foreground(lipgloss.Color("45")),
		skip:     lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		failed:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		detail:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		summary:  lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		emphasis: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255")),
	}
}
