package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// toolButton is one toolbar toggle. active reports whether the format is
// in effect at the cursor.
type toolButton struct {
	label  string
	active func(e *Editor) bool
}

func markActive(name string) func(e *Editor) bool {
	return func(e *Editor) bool { return e.IsActive(name) }
}

func headingActive(level int) func(e *Editor) bool {
	return func(e *Editor) bool { return e.ActiveHeading() == level }
}

func toolButtons() []toolButton {
	return []toolButton{
		{label: "B", active: markActive("bold")},
		{label: "I", active: markActive("italic")},
		{label: "U", active: markActive("underline")},
		{label: "S", active: markActive("strike")},
		{label: "Link", active: markActive("link")},
		{label: "¶", active: headingActive(0)},
		{label: "H2", active: headingActive(2)},
		{label: "H3", active: headingActive(3)},
		{label: "H4", active: headingActive(4)},
		{label: "Quote", active: markActive("blockquote")},
		{label: "Callout", active: func(e *Editor) bool {
			_, _, ok := e.CalloutAtCursor()
			return ok
		}},
	}
}

// renderToolbar draws the format toggles, highlighting the ones active at
// the cursor. Buttons wrap onto more rows when width runs out.
func renderToolbar(e *Editor, width int) string {
	var rows []string
	var line strings.Builder
	lineWidth := 0
	for _, b := range toolButtons() {
		style := ToolInactiveStyle
		if b.active(e) {
			style = ToolActiveStyle
		}
		seg := style.Render(b.label)
		w := lipgloss.Width(seg)
		if width > 0 && lineWidth > 0 && lineWidth+w > width {
			rows = append(rows, line.String())
			line.Reset()
			lineWidth = 0
		}
		line.WriteString(seg)
		lineWidth += w
	}
	if lineWidth > 0 {
		rows = append(rows, line.String())
	}
	return strings.Join(rows, "\n")
}
