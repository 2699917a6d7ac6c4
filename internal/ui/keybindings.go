package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// --- Key Constants ---

func isKey(msg tea.KeyMsg, keys ...string) bool {
	for _, k := range keys {
		if msg.String() == k {
			return true
		}
	}
	return false
}

func isQuit(msg tea.KeyMsg) bool {
	return isKey(msg, "ctrl+c", "ctrl+q")
}

func isBack(msg tea.KeyMsg) bool {
	if msg.Type == tea.KeyEsc {
		return true
	}
	return isKey(msg, "esc", "escape", "ctrl+[")
}

func isUp(msg tea.KeyMsg) bool {
	return isKey(msg, "up")
}

func isDown(msg tea.KeyMsg) bool {
	return isKey(msg, "down")
}

func isLeft(msg tea.KeyMsg) bool {
	return isKey(msg, "left")
}

func isRight(msg tea.KeyMsg) bool {
	return isKey(msg, "right")
}

func isEnter(msg tea.KeyMsg) bool {
	return isKey(msg, "enter", "return")
}

func isTabKey(msg tea.KeyMsg) bool {
	return isKey(msg, "tab")
}

// EditorKeyMap binds the formatting toolbar and document commands.
type EditorKeyMap struct {
	Bold          key.Binding
	Italic        key.Binding
	Underline     key.Binding
	Strike        key.Binding
	Link          key.Binding
	Paragraph     key.Binding
	Heading2      key.Binding
	Heading3      key.Binding
	Heading4      key.Binding
	Blockquote    key.Binding
	Callout       key.Binding
	EditCallout   key.Binding
	Variant       key.Binding
	ClearFormat   key.Binding
	Undo          key.Binding
	Redo          key.Binding
	Save          key.Binding
	Quit          key.Binding
	SelectLeft    key.Binding
	SelectRight   key.Binding
	LineStart     key.Binding
	LineEnd       key.Binding
	HardBreak     key.Binding
	ToggleToolbar key.Binding
}

// DefaultEditorKeyMap returns the standard bindings.
func DefaultEditorKeyMap() EditorKeyMap {
	return EditorKeyMap{
		Bold:          key.NewBinding(key.WithKeys("alt+b"), key.WithHelp("alt+b", "Bold")),
		Italic:        key.NewBinding(key.WithKeys("alt+i"), key.WithHelp("alt+i", "Italic")),
		Underline:     key.NewBinding(key.WithKeys("alt+u"), key.WithHelp("alt+u", "Underline")),
		Strike:        key.NewBinding(key.WithKeys("alt+x"), key.WithHelp("alt+x", "Strike")),
		Link:          key.NewBinding(key.WithKeys("alt+k"), key.WithHelp("alt+k", "Link")),
		Paragraph:     key.NewBinding(key.WithKeys("alt+0"), key.WithHelp("alt+0", "Paragraph")),
		Heading2:      key.NewBinding(key.WithKeys("alt+2"), key.WithHelp("alt+2", "H2")),
		Heading3:      key.NewBinding(key.WithKeys("alt+3"), key.WithHelp("alt+3", "H3")),
		Heading4:      key.NewBinding(key.WithKeys("alt+4"), key.WithHelp("alt+4", "H4")),
		Blockquote:    key.NewBinding(key.WithKeys("alt+q"), key.WithHelp("alt+q", "Quote")),
		Callout:       key.NewBinding(key.WithKeys("alt+c"), key.WithHelp("alt+c", "Callout")),
		EditCallout:   key.NewBinding(key.WithKeys("alt+e"), key.WithHelp("alt+e", "Edit callout")),
		Variant:       key.NewBinding(key.WithKeys("alt+v"), key.WithHelp("alt+v", "Mention style")),
		ClearFormat:   key.NewBinding(key.WithKeys(`alt+\`), key.WithHelp(`alt+\`, "Clear")),
		Undo:          key.NewBinding(key.WithKeys("ctrl+z"), key.WithHelp("ctrl+z", "Undo")),
		Redo:          key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "Redo")),
		Save:          key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "Save")),
		Quit:          key.NewBinding(key.WithKeys("ctrl+c", "ctrl+q"), key.WithHelp("ctrl+q", "Quit")),
		SelectLeft:    key.NewBinding(key.WithKeys("shift+left")),
		SelectRight:   key.NewBinding(key.WithKeys("shift+right")),
		LineStart:     key.NewBinding(key.WithKeys("home", "ctrl+a")),
		LineEnd:       key.NewBinding(key.WithKeys("end", "ctrl+e")),
		HardBreak:     key.NewBinding(key.WithKeys("alt+enter")),
		ToggleToolbar: key.NewBinding(key.WithKeys("f1"), key.WithHelp("f1", "Keys")),
	}
}

// ShortHelp implements help.KeyMap.
func (k EditorKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Save, k.Undo, k.Redo, k.ToggleToolbar, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k EditorKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Bold, k.Italic, k.Underline, k.Strike, k.Link, k.ClearFormat},
		{k.Paragraph, k.Heading2, k.Heading3, k.Heading4, k.Blockquote},
		{k.Callout, k.EditCallout, k.Variant},
		k.ShortHelp(),
	}
}
