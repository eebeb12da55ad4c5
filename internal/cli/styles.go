package cli

import "github.com/charmbracelet/lipgloss"

var (
	accentColor = lipgloss.Color("#2DA44E")
	errorColor  = lipgloss.Color("#CF222E")
	dimColor    = lipgloss.Color("#6E7681")
	scoreColor  = lipgloss.Color("#F778BA")
	titleColor  = lipgloss.Color("#39D353")
	authorColor = lipgloss.Color("#58A6FF")

	HeaderStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	TitleStyle = lipgloss.NewStyle().
			Foreground(titleColor).
			Bold(true)

	AuthorStyle = lipgloss.NewStyle().
			Foreground(authorColor)

	ScoreStyle = lipgloss.NewStyle().
			Foreground(scoreColor).
			Bold(true)

	DimStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)
)
