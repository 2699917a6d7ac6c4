package ui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/gravitrone/richtext/internal/mention"
	"github.com/gravitrone/richtext/internal/suggest"
	"github.com/gravitrone/richtext/internal/ui/components"
)

const (
	popupPageSize = 6
	popupWidth    = 52
	// rows above the first item: top border, grid header and rule
	popupItemTop = 3
)

// popupView is the suggestion popup. It is both the session's Popup and
// its ListView.
type popupView struct {
	visible   bool
	anchor    suggest.Rect
	state     suggest.State
	list      *components.List
	destroyed int
}

func newPopupView() *popupView {
	list := components.NewList(popupPageSize)
	list.Wrap = true
	return &popupView{list: list}
}

func (p *popupView) Show(anchor suggest.Rect) {
	p.visible = true
	p.anchor = anchor
}

func (p *popupView) Move(anchor suggest.Rect) {
	p.anchor = anchor
}

// Destroy hides the popup. The controller destroys list and popup in
// turn; both land here.
func (p *popupView) Destroy() {
	p.visible = false
	p.state = suggest.State{}
	p.list.SetItems(nil)
	p.destroyed++
}

func (p *popupView) Render(s suggest.State) {
	p.state = s
	rows := make([]string, len(s.Items))
	for i, item := range s.Items {
		rows[i] = item.DisplayLabel()
	}
	p.list.SetItems(rows)
	p.list.SetCursor(s.Selected)
}

// popupSlot hands every session a fresh popup and remembers the live one.
type popupSlot struct {
	current *popupView
}

func (s *popupSlot) factory() (suggest.Popup, suggest.ListView) {
	s.current = newPopupView()
	return s.current, s.current
}

func (s *popupSlot) view() *popupView {
	if s == nil || s.current == nil || !s.current.visible {
		return nil
	}
	return s.current
}

func typeLabel(t mention.Type) string {
	if t == "" {
		return "-"
	}
	return strings.ToUpper(string(t[:1])) + string(t[1:])
}

func (p *popupView) width(screen int) int {
	w := popupWidth
	if screen > 0 && w > screen {
		w = screen
	}
	return w
}

// View renders the popup box, empty when hidden.
func (p *popupView) View(screen int) string {
	if !p.visible {
		return ""
	}
	width := p.width(screen)
	inner := width - 4
	title := "@" + p.state.Query

	if len(p.state.Items) == 0 {
		msg := fmt.Sprintf("No matches for %q", components.SanitizeOneLine(p.state.Query))
		if utf8.RuneCountInString(p.state.Query) < mention.MinQueryLength {
			msg = fmt.Sprintf("Type %d+ characters to search", mention.MinQueryLength)
		}
		return popupBox(title, MutedStyle.Render(msg), width)
	}

	columns := []components.TableColumn{
		{Header: "Type", Width: 8},
		{Header: "Mention"},
	}
	visible := p.list.Visible()
	rows := make([][]string, 0, len(visible))
	for i := range visible {
		item := p.state.Items[p.list.RelToAbs(i)]
		rows = append(rows, []string{typeLabel(item.Type), item.DisplayLabel()})
	}
	grid := components.TableGridWithActiveRow(columns, rows, inner, p.list.Selected()-p.list.Offset)

	footer := MutedStyle.Render(fmt.Sprintf("%d/%d", p.list.Selected()+1, len(p.state.Items)))
	return popupBox(title, grid+"\n"+footer, width)
}

func popupBox(title, content string, width int) string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(0, 1).
		Width(width - 2)
	box := style.Render(content)
	lines := strings.Split(box, "\n")
	label := " " + components.ClampTextWidth(title, width-6) + " "
	border := lipgloss.RoundedBorder()
	rest := width - 3 - lipgloss.Width(label)
	if rest < 0 {
		return box
	}
	edge := lipgloss.NewStyle().Foreground(ColorPrimary)
	lines[0] = edge.Render(border.TopLeft+border.Top) + SelectedStyle.Render(label) +
		edge.Render(strings.Repeat(border.Top, rest)+border.TopRight)
	return strings.Join(lines, "\n")
}

// itemAt maps a row inside the rendered popup to an item index.
func (p *popupView) itemAt(row int) (int, bool) {
	rel := row - popupItemTop
	if rel < 0 || rel >= len(p.list.Visible()) {
		return 0, false
	}
	return p.list.RelToAbs(rel), true
}

// placement puts the popup under the anchor, or above it when there is
// no room below, keeping it inside the screen.
func placement(anchor suggest.Rect, popupW, popupH, screenW, screenH int) (int, int) {
	x := anchor.X
	if x+popupW > screenW {
		x = screenW - popupW
	}
	if x < 0 {
		x = 0
	}
	y := anchor.Y + anchor.Height
	if anchor.Height == 0 {
		y = anchor.Y + 1
	}
	if y+popupH > screenH && anchor.Y-popupH >= 0 {
		y = anchor.Y - popupH
	}
	return x, y
}

// overlay draws block over base with its top left corner at (x, y).
func overlay(base, block string, x, y int) string {
	lines := strings.Split(base, "\n")
	for i, piece := range strings.Split(block, "\n") {
		row := y + i
		if row < 0 {
			continue
		}
		for len(lines) <= row {
			lines = append(lines, "")
		}
		line := lines[row]
		w := lipgloss.Width(line)
		left := ansi.Truncate(line, x, "")
		if w < x {
			left += strings.Repeat(" ", x-w)
		}
		right := ""
		if end := x + lipgloss.Width(piece); w > end {
			right = ansi.TruncateLeft(line, end, "")
		}
		lines[row] = left + piece + right
	}
	return strings.Join(lines, "\n")
}
