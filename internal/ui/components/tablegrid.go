package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TableColumn defines a single column for TableGrid.
//
// Width is the visual width of the cell text. One column may leave it at
// zero to take whatever the table width leaves over.
type TableColumn struct {
	Header string
	Width  int
	Align  lipgloss.Position
}

var (
	gridLineStyle = lipgloss.NewStyle().
			Foreground(borderColor)

	gridHeaderStyle = boxLabelStyle

	gridActiveRowStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#d7d9da")).
				Background(lipgloss.Color("#1f2530")).
				Bold(true)

	gridActiveSepStyle = gridLineStyle.
				Background(lipgloss.Color("#1f2530"))
)

// TableGrid renders a header, a rule and the rows, each line exactly
// tableWidth wide.
func TableGrid(columns []TableColumn, rows [][]string, tableWidth int) string {
	return TableGridWithActiveRow(columns, rows, tableWidth, -1)
}

// TableGridWithActiveRow is like TableGrid but highlights rows[activeRow].
// Pass -1 to disable highlighting.
func TableGridWithActiveRow(columns []TableColumn, rows [][]string, tableWidth int, activeRow int) string {
	if tableWidth <= 0 || len(columns) == 0 {
		return ""
	}
	border := lipgloss.RoundedBorder()
	cols := fitColumns(columns, tableWidth)

	headers := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = c.Header
	}
	out := make([]string, 0, len(rows)+2)
	out = append(out, gridRow(cols, headers, border.Left, tableWidth, gridHeaderStyle, gridLineStyle))

	rule := make([]string, len(cols))
	for i, c := range cols {
		rule[i] = strings.Repeat(border.Top, c.Width)
	}
	out = append(out, gridLineStyle.Render(padRight(strings.Join(rule, border.Middle), tableWidth)))

	for i, row := range rows {
		style, sep := lipgloss.NewStyle(), gridLineStyle
		if i == activeRow {
			style, sep = gridActiveRowStyle, gridActiveSepStyle
		}
		out = append(out, gridRow(cols, row, border.Left, tableWidth, style, sep))
	}
	return strings.Join(out, "\n")
}

func fitColumns(columns []TableColumn, tableWidth int) []TableColumn {
	cols := make([]TableColumn, len(columns))
	copy(cols, columns)

	flex := -1
	used := len(cols) - 1
	for i := range cols {
		if cols[i].Width <= 0 && flex < 0 {
			flex = i
			continue
		}
		if cols[i].Width <= 0 {
			cols[i].Width = 1
		}
		used += cols[i].Width
	}
	if flex < 0 {
		flex = len(cols) - 1
		used -= cols[flex].Width
	}
	cols[flex].Width = tableWidth - used
	if cols[flex].Width < 1 {
		cols[flex].Width = 1
	}
	return cols
}

func gridRow(cols []TableColumn, cells []string, sep string, tableWidth int, style, sepStyle lipgloss.Style) string {
	var b strings.Builder
	for i, col := range cols {
		if i > 0 {
			b.WriteString(sepStyle.Inline(true).Render(sep))
		}
		text := ""
		if i < len(cells) {
			text = cells[i]
		}
		b.WriteString(style.Inline(true).Render(gridCell(text, col.Width, col.Align)))
	}
	return padRight(b.String(), tableWidth)
}

func gridCell(text string, width int, align lipgloss.Position) string {
	clamped := ClampTextWidth(text, width)
	pad := width - lipgloss.Width(clamped)
	if pad <= 0 {
		return clamped
	}
	switch align {
	case lipgloss.Right:
		return strings.Repeat(" ", pad) + clamped
	case lipgloss.Center:
		left := pad / 2
		return strings.Repeat(" ", left) + clamped + strings.Repeat(" ", pad-left)
	default:
		return clamped + strings.Repeat(" ", pad)
	}
}
