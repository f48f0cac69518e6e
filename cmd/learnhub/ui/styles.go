package ui

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles for the viewer.
type Styles struct {
	Title     lipgloss.Style
	StatusBar lipgloss.Style
	Help      lipgloss.Style
	Completed lipgloss.Style
	Bookmark  lipgloss.Style
	Error     lipgloss.Style
}

// DefaultStyles returns the standard viewer styles.
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			Padding(0, 1),
		StatusBar: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),
		Completed: lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")),
		Bookmark: lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")),
	}
}
