package components

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor).
			Padding(1, 2).
			Width(44)
	dialogFieldStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#a9c4ff"))
)

// ConfirmDialog renders a yes/no confirmation.
func ConfirmDialog(title, message string) string {
	return dialog(title, boxMutedStyle.Render(message), "y: confirm | n: cancel")
}

// InputDialog renders a single-line text prompt with a block cursor.
func InputDialog(title, input string) string {
	field := dialogFieldStyle.Render("> " + SanitizeOneLine(input) + "█")
	return dialog(title, field, "enter: submit | esc: cancel")
}

func dialog(title, body, hint string) string {
	header := boxHeaderStyle.Render(title)
	return dialogStyle.Render(header + "\n\n" + body + "\n" + boxMutedStyle.Render(hint))
}
