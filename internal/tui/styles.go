package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
const (
	colorPrimary   = "#7D56F4"
	colorSuccess   = "#04B575"
	colorError     = "#FF5F5F"
	colorWarn      = "#FFB454"
	colorInfo      = "#626262"
	colorHighlight = "#FAFAFA"
	colorBorder    = "#874BFD"
)

// Styles for the progress view
var (
	TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colorPrimary)).
		MarginBottom(1)

	StatusStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(colorSuccess))

	ErrorStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(colorError))

	WarnStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(colorWarn))

	InfoStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(colorInfo))

	BarFilledStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(colorPrimary))

	BarEmptyStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(colorInfo))

	BoxStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(colorBorder)).
		Padding(0, 1)

	HighlightStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colorHighlight)).
		Background(lipgloss.Color(colorPrimary)).
		Padding(0, 1)
)
