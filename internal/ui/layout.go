package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gravitrone/richtext/internal/doc"
	"github.com/gravitrone/richtext/internal/nodes"
	"github.com/gravitrone/richtext/internal/ui/components"
)

// cell is a screen location inside the document view.
type cell struct {
	row, col int
}

type hitKind int

const (
	hitText hitKind = iota
	hitMention
	hitCallout
)

// hit maps the columns [from, to) of a row back to the document.
type hit struct {
	row, from, to int
	pos           int
	kind          hitKind
}

// layout is one rendering of a document: the styled rows plus the maps
// from positions to cells and from cells back to positions.
type layout struct {
	lines []string
	cells map[int]cell
	rows  [][]int
	hits  []hit
}

// cellOf reports where pos is drawn. Only textblock positions have cells.
func (l layout) cellOf(pos int) (cell, bool) {
	c, ok := l.cells[pos]
	return c, ok
}

// hitAt returns what is drawn at a cell.
func (l layout) hitAt(row, col int) (hit, bool) {
	for _, h := range l.hits {
		if h.row == row && col >= h.from && col < h.to {
			return h, true
		}
	}
	return hit{}, false
}

// nearest picks the cursor position on row closest to col.
func (l layout) nearest(row, col int) (int, bool) {
	if row < 0 || row >= len(l.rows) || len(l.rows[row]) == 0 {
		return 0, false
	}
	best, bestDist := 0, -1
	for _, pos := range l.rows[row] {
		d := l.cells[pos].col - col
		if d < 0 {
			d = -d
		}
		if bestDist < 0 || d < bestDist {
			best, bestDist = pos, d
		}
	}
	return best, true
}

// gutter is the styled prefix every row of a nested block starts with.
type gutter struct {
	text  string
	width int
}

func (g gutter) add(text string, width int) gutter {
	return gutter{text: g.text + text, width: g.width + width}
}

func (g gutter) pad(width int) gutter {
	return g.add(strings.Repeat(" ", width), width)
}

type renderer struct {
	schema *doc.Schema
	width  int
	cursor int
	sel    doc.Range
	out    layout

	line strings.Builder
	open bool
	col  int
	cont gutter
}

func renderLayout(schema *doc.Schema, root *doc.Node, width, cursor int, sel doc.Range) layout {
	if width <= 0 {
		width = 80
	}
	r := &renderer{
		schema: schema,
		width:  width,
		cursor: cursor,
		sel:    sel,
		out:    layout{cells: map[int]cell{}},
	}
	r.blocks(root, 0, gutter{})
	r.flush()
	return r.out
}

func (r *renderer) row() int {
	return len(r.out.lines)
}

func (r *renderer) flush() {
	if !r.open {
		return
	}
	r.out.lines = append(r.out.lines, r.line.String())
	r.line.Reset()
	r.open = false
	r.col = 0
}

// newRow starts a row with g drawn in front; wrapped rows of the same
// block repeat cont.
func (r *renderer) newRow(g, cont gutter) {
	r.flush()
	r.open = true
	r.out.rows = append(r.out.rows, nil)
	r.line.WriteString(g.text)
	r.col = g.width
	r.cont = cont
}

func (r *renderer) write(s string, width int) {
	if r.col+width > r.width && r.col > r.cont.width {
		r.newRow(r.cont, r.cont)
	}
	r.line.WriteString(s)
	r.col += width
}

// place records pos as a cursor position at the current cell.
func (r *renderer) place(pos int) {
	row := r.row()
	r.out.cells[pos] = cell{row: row, col: r.col}
	r.out.rows[row] = append(r.out.rows[row], pos)
}

func (r *renderer) blocks(parent *doc.Node, start int, g gutter) {
	pos := start
	for _, child := range parent.Content {
		r.block(child, pos, g)
		pos += r.schema.NodeSize(child)
	}
}

func (r *renderer) block(n *doc.Node, pos int, g gutter) {
	switch {
	case n.Type == "paragraph":
		r.textblock(n, pos, g, paragraphStyle, "")
	case n.Type == "heading":
		level := n.Attrs.Int("level")
		r.textblock(n, pos, g, headingStyle(level), strings.Repeat("#", level)+" ")
	case n.Type == "blockquote":
		r.blocks(n, pos+1, g.add(quoteBarStyle.Render("│ "), 2))
	case n.Type == nodes.CalloutName:
		r.callout(n, pos, g)
	case nodes.IsMention(n):
		r.pill(n, pos, g)
	default:
		r.newRow(g, g)
		text := components.SanitizeOneLine(n.TextContent())
		r.write(MutedStyle.Render(text), lipgloss.Width(text))
	}
}

func (r *renderer) textblock(n *doc.Node, pos int, g gutter, base lipgloss.Style, marker string) {
	markerWidth := lipgloss.Width(marker)
	cont := g.pad(markerWidth)
	r.newRow(g, cont)
	if marker != "" {
		r.write(headingMarkerStyle.Render(marker), markerWidth)
	}

	p := pos + 1
	for _, child := range n.Content {
		switch {
		case child.IsText():
			for _, ch := range child.Text {
				glyph := components.SanitizeOneLine(string(ch))
				r.glyph(p, glyph, markStyle(base, child.Marks), hitText)
				p++
			}
		case child.Type == "hard_break":
			r.placeVisible(p)
			r.newRow(cont, cont)
			p++
		case nodes.IsMention(child):
			label := "@" + components.SanitizeOneLine(nodes.AttrsOf(child).Text())
			r.glyph(p, label, markStyle(inlineMentionStyle, child.Marks), hitMention)
			p++
		default:
			p += r.schema.NodeSize(child)
		}
	}
	r.placeVisible(p)
}

// glyph draws one position's worth of content.
func (r *renderer) glyph(pos int, text string, style lipgloss.Style, kind hitKind) {
	width := lipgloss.Width(text)
	if width == 0 {
		text, width = " ", 1
	}
	if r.col+width > r.width && r.col > r.cont.width {
		r.newRow(r.cont, r.cont)
	}
	r.place(pos)
	switch {
	case r.sel.Empty() && pos == r.cursor:
		style = style.Reverse(true)
	case !r.sel.Empty() && pos >= r.sel.From && pos < r.sel.To:
		style = style.Background(ColorSelection)
	}
	r.out.hits = append(r.out.hits, hit{row: r.row(), from: r.col, to: r.col + width, pos: pos, kind: kind})
	r.line.WriteString(style.Render(text))
	r.col += width
}

// placeVisible records a position with nothing drawn at it (block end,
// before a break) and shows the cursor there as a blank cell.
func (r *renderer) placeVisible(pos int) {
	r.place(pos)
	r.out.hits = append(r.out.hits, hit{row: r.row(), from: r.col, to: r.width + 1, pos: pos, kind: hitText})
	if r.sel.Empty() && pos == r.cursor {
		r.line.WriteString(cursorStyle.Render(" "))
		r.col++
	}
}

func (r *renderer) callout(n *doc.Node, pos int, g gutter) {
	attrs := nodes.CalloutAttrsOf(n)
	tone := lipgloss.NewStyle().
		Foreground(lipgloss.Color(attrs.TextColor)).
		Background(lipgloss.Color(attrs.BackgroundColor))
	bar := lipgloss.NewStyle().Foreground(lipgloss.Color(attrs.BackgroundColor))

	r.newRow(g, g)
	header := " " + components.SanitizeOneLine(attrs.Emoji) + " "
	width := lipgloss.Width(header)
	r.out.hits = append(r.out.hits, hit{row: r.row(), from: r.col, to: r.col + width, pos: pos, kind: hitCallout})
	r.write(tone.Render(header), width)

	r.blocks(n, pos+1, g.add(bar.Render("┃ "), 2))
}

func (r *renderer) pill(n *doc.Node, pos int, g gutter) {
	attrs := nodes.AttrsOf(n)
	style := pillStyle
	label := "@" + components.SanitizeOneLine(attrs.Text())
	if attrs.Variant == nodes.VariantMegaPill {
		style = megaPillStyle
		label = "★ " + label
	}
	if attrs.Type != "" {
		label += " · " + attrs.Type
	}
	rendered := style.Render(label)
	width := lipgloss.Width(rendered)

	r.newRow(g, g)
	r.out.hits = append(r.out.hits, hit{row: r.row(), from: r.col, to: r.col + width, pos: pos, kind: hitMention})
	r.write(rendered, width)
}
