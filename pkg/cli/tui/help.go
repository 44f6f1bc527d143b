package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// HelpItem represents a single keyboard shortcut and its description
type HelpItem struct {
	Key         string
	Description string
}

// DashboardHelpContent returns help for the dashboard
func DashboardHelpContent() string {
	keys := defaultKeyMap()
	var items []HelpItem
	for _, group := range keys.FullHelp() {
		items = append(items, bindingItems(group)...)
	}
	return renderHelpItems(items)
}

func bindingItems(bindings []key.Binding) []HelpItem {
	items := make([]HelpItem, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		items = append(items, HelpItem{Key: h.Key, Description: h.Desc})
	}
	return items
}

// renderHelpItems formats help items into a readable string
func renderHelpItems(items []HelpItem) string {
	var b strings.Builder
	for _, item := range items {
		keyStyle := boldStyle.Foreground(colorPrimary)
		b.WriteString(fmt.Sprintf("  %s  %s\n",
			keyStyle.Render(item.Key),
			item.Description))
	}
	return b.String()
}
