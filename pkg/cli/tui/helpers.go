package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// wrapText wraps rendered text to width; a non-positive width leaves it as is
func wrapText(text string, width int) string {
	if width <= 0 {
		return text
	}
	return lipgloss.NewStyle().Width(width).Render(text)
}
