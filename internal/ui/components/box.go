package components

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
)

var (
	borderColor = lipgloss.Color("#273540")
	accentColor = lipgloss.Color("#7f57b4")

	boxBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor).
			Padding(0, 1)

	boxBorderActive = boxBorder.
			BorderForeground(accentColor)

	boxHeaderStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	boxMutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9ba0bf"))

	boxValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d7d9da"))

	boxLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#436b77")).
			Bold(true)

	errorBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7a2f3a")).
			Padding(0, 1)

	errorHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#e06c75")).
				Bold(true)

	errorBodyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d6b5b5"))
)

// boxWidth picks ~60% of the terminal, between 32 and 72 columns, and
// never wider than the terminal once the border is added.
func boxWidth(width int) int {
	if width <= 0 {
		return 0
	}
	w := width * 60 / 100
	if w < 32 {
		w = 32
	}
	if w > 72 {
		w = 72
	}
	if w > width-2 {
		w = width - 2
	}
	if w < 0 {
		return 0
	}
	return w
}

// BoxContentWidth returns the inner content width excluding border and padding.
func BoxContentWidth(width int) int {
	inner := boxWidth(width) - 2
	if inner < 0 {
		return 0
	}
	return inner
}

// ClampTextWidth flattens text to one line and cuts it to width runes.
func ClampTextWidth(text string, width int) string {
	cleaned := SanitizeOneLine(text)
	if width <= 0 || lipgloss.Width(cleaned) <= width {
		return cleaned
	}
	if width == 1 {
		return "…"
	}
	return truncateRunes(cleaned, width-1) + "…"
}

// ErrorBox renders a red bordered box for errors.
func ErrorBox(title, message string, width int) string {
	header := ""
	if title != "" {
		header = errorHeaderStyle.Render(title) + "\n"
	}
	return errorBorder.Width(boxWidth(width)).Render(header + errorBodyStyle.Render(message))
}

// TitledBox renders a box with its title set into the top border.
func TitledBox(title, content string, width int) string {
	return titledBox(title, content, width, boxBorder, borderColor)
}

// ActiveTitledBox is TitledBox with the highlighted border.
func ActiveTitledBox(title, content string, width int) string {
	return titledBox(title, content, width, boxBorderActive, accentColor)
}

func titledBox(title, content string, width int, style lipgloss.Style, color lipgloss.Color) string {
	boxed := style.Width(boxWidth(width)).Render(content)
	if title == "" {
		return boxed
	}
	lines := strings.Split(boxed, "\n")
	lineWidth := lipgloss.Width(lines[0])
	if lineWidth < 4 {
		return boxed
	}

	border := lipgloss.RoundedBorder()
	middle := lineWidth - 2
	label := " " + SanitizeOneLine(title) + " "
	if utf8.RuneCountInString(label) > middle {
		label = truncateRunes(label, middle)
	}
	left := 1
	right := middle - lipgloss.Width(label) - left
	if right < 0 {
		left, right = 0, 0
	}

	borderStyle := lipgloss.NewStyle().Foreground(color)
	lines[0] = borderStyle.Render(border.TopLeft+strings.Repeat(border.Top, left)) +
		boxHeaderStyle.Render(label) +
		borderStyle.Render(strings.Repeat(border.Top, right)+border.TopRight)
	return strings.Join(lines, "\n")
}

func truncateRunes(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	var b strings.Builder
	n := 0
	for _, r := range s {
		if n >= max {
			break
		}
		b.WriteRune(r)
		n++
	}
	return b.String()
}

func padRight(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// InfoRow renders a "label: value" row.
func InfoRow(label, value string) string {
	return boxMutedStyle.Render(SanitizeOneLine(label)+": ") + boxValueStyle.Render(SanitizeOneLine(value))
}

// TableRow is a single row in a key-value table.
type TableRow struct {
	Label string
	Value string
}

// Table renders aligned label/value rows inside a titled box.
func Table(title string, rows []TableRow, width int) string {
	if len(rows) == 0 {
		return ""
	}
	labelWidth := 0
	for _, r := range rows {
		if w := lipgloss.Width(SanitizeOneLine(r.Label)); w > labelWidth {
			labelWidth = w
		}
	}
	if labelWidth > 16 {
		labelWidth = 16
	}
	valueWidth := BoxContentWidth(width) - labelWidth - 2
	if valueWidth < 4 {
		valueWidth = 0
	}

	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		label := boxLabelStyle.Render(padRight(ClampTextWidth(r.Label, labelWidth), labelWidth))
		lines = append(lines, label+"  "+boxValueStyle.Render(ClampTextWidth(r.Value, valueWidth)))
	}
	return TitledBox(title, strings.Join(lines, "\n"), width)
}

// AttrsRows lists a node's attributes as table rows, keys sorted. Nested
// values are shown as compact JSON.
func AttrsRows(attrs map[string]any) []TableRow {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([]TableRow, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, TableRow{Label: k, Value: formatAttr(attrs[k])})
	}
	return rows
}

func formatAttr(v any) string {
	switch typed := v.(type) {
	case nil:
		return "-"
	case string:
		if typed == "" {
			return "-"
		}
		return typed
	case map[string]any, []any:
		encoded, err := json.Marshal(typed)
		if err != nil {
			return fmt.Sprintf("%v", typed)
		}
		return string(encoded)
	default:
		return fmt.Sprintf("%v", typed)
	}
}
