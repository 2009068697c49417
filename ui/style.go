package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	accentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
)

// Success renders text in the success color.
func Success(text string) string { return successStyle.Render(text) }

// Warn renders text in the warning color.
func Warn(text string) string { return warnStyle.Render(text) }

// Error renders text in the error color.
func Error(text string) string { return errorStyle.Render(text) }

// Accent renders text in the accent color.
func Accent(text string) string { return accentStyle.Render(text) }

// Dim renders text in a muted color.
func Dim(text string) string { return dimStyle.Render(text) }

// Title renders a bold heading.
func Title(text string) string { return titleStyle.Render(text) }
