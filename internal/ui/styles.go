package ui

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	ColorPrimary   = lipgloss.Color("45")  // Cyan, the Orbis accent
	ColorSecondary = lipgloss.Color("241") // Gray
	ColorSuccess   = lipgloss.Color("42")  // Green
	ColorError     = lipgloss.Color("160") // Red
	ColorWarning   = lipgloss.Color("214") // Orange/Yellow
	ColorText      = lipgloss.Color("252") // White/Gray

	// Base Styles
	StyleTitle   = lipgloss.NewStyle().Foreground(ColorText).Bold(true)
	StyleSubtle  = lipgloss.NewStyle().Foreground(ColorSecondary)
	StylePrimary = lipgloss.NewStyle().Foreground(ColorPrimary)
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning)

	// Chat prefixes
	StylePrefixLyra = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	StylePrefixUser = lipgloss.NewStyle().Foreground(ColorSuccess)

	// Priority accents used in task listings
	StyleAlta  = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	StyleMedia = lipgloss.NewStyle().Foreground(ColorWarning)
	StyleBaixa = lipgloss.NewStyle().Foreground(ColorSuccess)

	StyleHeader = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true).
			Padding(0, 1)
)

// PriorityStyle returns the style for a priority string.
func PriorityStyle(prioridade string) lipgloss.Style {
	switch prioridade {
	case "alta":
		return StyleAlta
	case "baixa":
		return StyleBaixa
	default:
		return StyleMedia
	}
}
