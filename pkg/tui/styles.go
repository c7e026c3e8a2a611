package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Color constants
const (
	ColorActive   = "170" // active tab and focused field
	ColorInactive = "240"
	ColorNormal   = "245"
	ColorDim      = "241"
	ColorWarning  = "214"
	ColorError    = "196"
	ColorSuccess  = "28"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(ColorWarning))

	LabelStyle = lipgloss.NewStyle().
			Width(16).
			Foreground(lipgloss.Color(ColorNormal))

	FocusedLabelStyle = LabelStyle.
				Foreground(lipgloss.Color(ColorActive)).
				Bold(true)

	ActiveTabStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(ColorActive)).
			Foreground(lipgloss.Color(ColorActive)).
			Bold(true).
			Padding(0, 1)

	InactiveTabStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color(ColorInactive)).
				Foreground(lipgloss.Color(ColorDim)).
				Padding(0, 1)

	TabContentStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(ColorInactive)).
			Padding(0, 1)

	StatusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorSuccess))

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorError))

	HelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorDim))
)
