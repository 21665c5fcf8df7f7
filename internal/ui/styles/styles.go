// Package styles provides shared lipgloss styles for terminal output.
package styles

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Palette used throughout the UI (256-colour codes).
var (
	Success color.Color = lipgloss.Color("82")
	Warning color.Color = lipgloss.Color("214")
	Error   color.Color = lipgloss.Color("196")
	Muted   color.Color = lipgloss.Color("240")
)

// Common styles
var (
	SuccessStyle = lipgloss.NewStyle().Foreground(Success).Bold(true)
	WarningStyle = lipgloss.NewStyle().Foreground(Warning).Bold(true)
	ErrorStyle   = lipgloss.NewStyle().Foreground(Error).Bold(true)
	MutedStyle   = lipgloss.NewStyle().Foreground(Muted)
)

// Level is the severity a style is chosen for.
type Level int

const (
	LevelNone Level = iota
	LevelOK
	LevelWarn
	LevelError
)

// ForLevel returns the style for a severity.
func ForLevel(l Level) lipgloss.Style {
	switch l {
	case LevelOK:
		return SuccessStyle
	case LevelWarn:
		return WarningStyle
	case LevelError:
		return ErrorStyle
	default:
		return lipgloss.NewStyle()
	}
}
