package components

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

var (
	hintDescStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9ba0bf"))
	keyCapStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#16161d")).
			Background(lipgloss.Color("#888ba4")).
			Bold(true).
			Padding(0, 1)
	keyCapActiveStyle = keyCapStyle.
				Background(accentColor).
				Foreground(lipgloss.Color("#f4f1fa"))
	segmentStyle = lipgloss.NewStyle().
			MarginRight(2)
	statusBarStyle = lipgloss.NewStyle().
			PaddingLeft(1)
)

// StatusBar lays the hints out left to right, wrapping onto more rows
// when they do not fit in width.
func StatusBar(hints []string, width int) string {
	segments := make([]string, 0, len(hints))
	for _, h := range hints {
		segments = append(segments, segmentStyle.Render(h))
	}
	rows := wrapSegments(segments, width-1)
	if len(rows) == 0 {
		return ""
	}
	return statusBarStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// Hint formats a single keybind hint like "Bold alt+b".
func Hint(key, desc string) string {
	return hintDescStyle.Render(desc+" ") + keyCapStyle.Render(key)
}

// ActiveHint is Hint with the key cap lit, for toggles that are on.
func ActiveHint(key, desc string) string {
	return hintDescStyle.Render(desc+" ") + keyCapActiveStyle.Render(key)
}

// KeyHints renders the help text of every enabled binding.
func KeyHints(bindings ...key.Binding) []string {
	out := make([]string, 0, len(bindings))
	for _, b := range bindings {
		if !b.Enabled() {
			continue
		}
		h := b.Help()
		if h.Key == "" {
			continue
		}
		out = append(out, Hint(h.Key, h.Desc))
	}
	return out
}

func wrapSegments(segments []string, width int) []string {
	if len(segments) == 0 {
		return nil
	}
	if width <= 0 {
		return []string{lipgloss.JoinHorizontal(lipgloss.Top, segments...)}
	}
	rows := make([]string, 0, 2)
	var current []string
	currentWidth := 0
	for _, seg := range segments {
		segWidth := lipgloss.Width(seg)
		if currentWidth > 0 && currentWidth+segWidth > width {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, current...))
			current, currentWidth = nil, 0
		}
		current = append(current, seg)
		currentWidth += segWidth
	}
	return append(rows, lipgloss.JoinHorizontal(lipgloss.Top, current...))
}
