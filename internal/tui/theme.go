package tui

import "charm.land/lipgloss/v2"

// Palette
var (
	colorPrimary = lipgloss.Color("#2563EB") // blue
	colorAccent  = lipgloss.Color("#F59E0B") // amber
	colorSuccess = lipgloss.Color("#16A34A")
	colorError   = lipgloss.Color("#DC2626")
	colorText    = lipgloss.Color("#F1F5F9")
	colorDim     = lipgloss.Color("#94A3B8")
	colorPanel   = lipgloss.Color("#1E293B")
	colorBorder  = lipgloss.Color("#334155")
)

var (
	titleStyle   = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	skillStyle   = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	promptStyle  = lipgloss.NewStyle().Foreground(colorText).Bold(true)
	bodyStyle    = lipgloss.NewStyle().Foreground(colorText)
	dimStyle     = lipgloss.NewStyle().Foreground(colorDim)
	hintStyle    = lipgloss.NewStyle().Foreground(colorDim).Italic(true)
	correctStyle = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	wrongStyle   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	cursorStyle  = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	keyStyle     = lipgloss.NewStyle().Foreground(colorText).Bold(true)

	barStyle = lipgloss.NewStyle().
			Background(colorPanel).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder)
)
