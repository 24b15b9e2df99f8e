package tui

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
)

// Minimum terminal size for the framed layout.
const (
	minWidth  = 60
	minHeight = 16
)

type keyHint struct {
	key  string
	desc string
}

func renderHeader(skill string, correct, answered, width int) string {
	left := titleStyle.Render(" SAT Math")
	center := skillStyle.Render(skill)
	right := dimStyle.Render(fmt.Sprintf("score %d/%d ", correct, answered))

	inner := max(width-4, 0)
	leftGap := max((inner-lipgloss.Width(center))/2-lipgloss.Width(left), 1)
	rightGap := max(inner-lipgloss.Width(left)-leftGap-lipgloss.Width(center)-lipgloss.Width(right), 1)

	line := left + strings.Repeat(" ", leftGap) + center + strings.Repeat(" ", rightGap) + right
	return barStyle.Width(width).Render(line)
}

func renderFooter(hints []keyHint, status string, width int) string {
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts, keyStyle.Render(h.key)+" "+dimStyle.Render(h.desc))
	}
	line := " " + strings.Join(parts, "   ")
	if status != "" {
		line += "   " + wrongStyle.Render(status)
	}
	return barStyle.Width(width).Render(line)
}

func renderFrame(header, content, footer string, width, height int) string {
	h := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	body := lipgloss.NewStyle().Width(width).Height(h).Padding(1, 2).Render(content)
	return header + "\n" + body + "\n" + footer
}

func renderTooSmall(width, height int) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center).
		Foreground(colorText).
		Render(fmt.Sprintf("Terminal too small.\n\nResize to at least %d x %d\n(now %d x %d)",
			minWidth, minHeight, width, height))
}
