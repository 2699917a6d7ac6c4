package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gravitrone/richtext/internal/nodes"
	"github.com/gravitrone/richtext/internal/ui/components"
)

var variantDescriptions = map[nodes.Variant]string{
	nodes.VariantInline:   "inline with the text",
	nodes.VariantPill:     "block badge",
	nodes.VariantMegaPill: "large block badge",
}

// VariantMenu shows a mention's attributes and switches how it is
// displayed.
type VariantMenu struct {
	Active bool

	found nodes.Found
	list  *components.List
}

func (m *VariantMenu) Open(f nodes.Found) {
	m.Active = true
	m.found = f
	m.list = components.NewList(len(nodes.Variants))
	m.list.Wrap = true
	items := make([]string, len(nodes.Variants))
	for i, v := range nodes.Variants {
		items[i] = string(v)
	}
	m.list.SetItems(items)
	for i, v := range nodes.Variants {
		if v == f.Attrs.Variant {
			m.list.SetCursor(i)
		}
	}
}

func (m *VariantMenu) Reset() {
	*m = VariantMenu{}
}

// Target is the mention the menu was opened on.
func (m VariantMenu) Target() nodes.Found {
	return m.found
}

// HandleKey moves through the variants and returns the one picked with
// enter. Digits pick directly.
func (m *VariantMenu) HandleKey(msg tea.KeyMsg) (nodes.Variant, bool) {
	switch {
	case isBack(msg):
		m.Reset()
	case isUp(msg), isKey(msg, "k"):
		m.list.Up()
	case isDown(msg), isKey(msg, "j"), isTabKey(msg):
		m.list.Down()
	case isKey(msg, "1", "2", "3"):
		m.list.SetCursor(int(msg.Runes[0] - '1'))
		return m.pick()
	case isEnter(msg):
		return m.pick()
	}
	return "", false
}

func (m *VariantMenu) pick() (nodes.Variant, bool) {
	v := nodes.Variants[m.list.Selected()]
	m.Reset()
	return v, true
}

func (m VariantMenu) Render(width int) string {
	if m.list == nil {
		return ""
	}
	details := components.Table("Mention", components.AttrsRows(m.found.Node.Attrs), width)

	lines := make([]string, 0, len(nodes.Variants)+2)
	for i, v := range nodes.Variants {
		line := string(v) + "  " + MutedStyle.Render(variantDescriptions[v])
		if v == m.found.Attrs.Variant {
			line += MutedStyle.Render(" (current)")
		}
		if m.list.IsSelected(i) {
			line = SelectedStyle.Render("> ") + line
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	lines = append(lines, "", MutedStyle.Render("↑/↓ choose | enter apply | esc cancel"))
	menu := components.ActiveTitledBox("Display as", strings.Join(lines, "\n"), width)
	if details == "" {
		return menu
	}
	return details + "\n" + menu
}
