package app

import "github.com/charmbracelet/lipgloss"

// Output colors (Catppuccin Mocha inspired).
var (
	colorSuccess = lipgloss.AdaptiveColor{Light: "#40a02b", Dark: "#a6e3a1"} // Green
	colorWarning = lipgloss.AdaptiveColor{Light: "#df8e1d", Dark: "#f9e2af"} // Yellow
	colorError   = lipgloss.AdaptiveColor{Light: "#d20f39", Dark: "#f38ba8"} // Red
	colorMuted   = lipgloss.AdaptiveColor{Light: "#6c6f85", Dark: "#6c7086"} // Overlay0
	colorPrimary = lipgloss.AdaptiveColor{Light: "#1e66f5", Dark: "#89b4fa"} // Blue
)

// styles holds the lipgloss styles for plan and result output.
type styles struct {
	Heading   lipgloss.Style
	Provider  lipgloss.Style
	Satisfied lipgloss.Style
	Change    lipgloss.Style
	Warn      lipgloss.Style
	Fail      lipgloss.Style
	Muted     lipgloss.Style
}

func newStyles() styles {
	return styles{
		Heading:   lipgloss.NewStyle().Bold(true),
		Provider:  lipgloss.NewStyle().Bold(true).Foreground(colorPrimary),
		Satisfied: lipgloss.NewStyle().Foreground(colorSuccess),
		Change:    lipgloss.NewStyle().Foreground(colorPrimary),
		Warn:      lipgloss.NewStyle().Foreground(colorWarning),
		Fail:      lipgloss.NewStyle().Foreground(colorError),
		Muted:     lipgloss.NewStyle().Foreground(colorMuted),
	}
}
