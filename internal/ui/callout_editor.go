package ui

import (
	"fmt"
	"regexp"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gravitrone/richtext/internal/nodes"
	"github.com/gravitrone/richtext/internal/ui/components"
)

type calloutField int

const (
	calloutFieldEmoji calloutField = iota
	calloutFieldPreset
	calloutFieldBackground
	calloutFieldText
	calloutFieldCount
)

var hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// CalloutEditor picks the emoji and colours of a callout: one of the
// common emojis, a colour preset, or custom hex colours.
type CalloutEditor struct {
	Active bool

	field      calloutField
	emoji      string
	emojiIdx   int
	presetIdx  int
	background string
	text       string
	err        string
}

func (c *CalloutEditor) Open(attrs nodes.CalloutAttrs) {
	c.Reset()
	c.Active = true
	c.emoji = attrs.Emoji
	c.emojiIdx = indexOf(nodes.CommonEmojis, attrs.Emoji)
	c.background = attrs.BackgroundColor
	c.text = attrs.TextColor
	c.presetIdx = matchPreset(c.background, c.text)
}

func (c *CalloutEditor) Reset() {
	*c = CalloutEditor{emojiIdx: -1, presetIdx: -1}
}

func indexOf(items []string, v string) int {
	for i, item := range items {
		if item == v {
			return i
		}
	}
	return -1
}

func matchPreset(background, text string) int {
	for i, p := range nodes.ColorPresets {
		if strings.EqualFold(p.Background, background) && strings.EqualFold(p.Text, text) {
			return i
		}
	}
	return -1
}

// cycle steps i through n slots, entering from either end when i is -1.
func cycle(i, delta, n int) int {
	if n == 0 {
		return -1
	}
	if i < 0 {
		if delta > 0 {
			return 0
		}
		return n - 1
	}
	return ((i+delta)%n + n) % n
}

// HandleKey edits the form. It returns the options to apply once the
// user confirms with enter.
func (c *CalloutEditor) HandleKey(msg tea.KeyMsg) (nodes.CalloutOptions, bool) {
	switch {
	case isBack(msg):
		c.Reset()
		return nodes.CalloutOptions{}, false
	case isTabKey(msg), isDown(msg):
		c.field = (c.field + 1) % calloutFieldCount
	case isKey(msg, "shift+tab"), isUp(msg):
		c.field = (c.field + calloutFieldCount - 1) % calloutFieldCount
	case isLeft(msg), isRight(msg):
		delta := 1
		if isLeft(msg) {
			delta = -1
		}
		c.step(delta)
	case isEnter(msg):
		return c.submit()
	case isKey(msg, "backspace"):
		c.edit(dropLastRune)
	case msg.Type == tea.KeyRunes && !msg.Alt:
		typed := string(msg.Runes)
		c.edit(func(s string) string {
			if len(s)+len(typed) > 7 {
				return s
			}
			return s + typed
		})
	}
	return nodes.CalloutOptions{}, false
}

func (c *CalloutEditor) step(delta int) {
	switch c.field {
	case calloutFieldEmoji:
		c.emojiIdx = cycle(c.emojiIdx, delta, len(nodes.CommonEmojis))
		if c.emojiIdx >= 0 {
			c.emoji = nodes.CommonEmojis[c.emojiIdx]
		}
	case calloutFieldPreset:
		c.presetIdx = cycle(c.presetIdx, delta, len(nodes.ColorPresets))
		if c.presetIdx >= 0 {
			p := nodes.ColorPresets[c.presetIdx]
			c.background, c.text = p.Background, p.Text
		}
	}
}

func (c *CalloutEditor) edit(fn func(string) string) {
	switch c.field {
	case calloutFieldBackground:
		c.background = fn(c.background)
	case calloutFieldText:
		c.text = fn(c.text)
	default:
		return
	}
	c.err = ""
	c.presetIdx = matchPreset(c.background, c.text)
}

func (c *CalloutEditor) submit() (nodes.CalloutOptions, bool) {
	for _, v := range []struct{ name, value string }{
		{"background", c.background},
		{"text", c.text},
	} {
		if !hexColorPattern.MatchString(v.value) {
			c.err = fmt.Sprintf("%s colour must be #rgb or #rrggbb", v.name)
			return nodes.CalloutOptions{}, false
		}
	}
	emoji, background, text := c.emoji, c.background, c.text
	c.Reset()
	return nodes.CalloutOptions{BackgroundColor: &background, TextColor: &text, Emoji: &emoji}, true
}

func dropLastRune(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	return string(runes[:len(runes)-1])
}

func (c CalloutEditor) Render(width int) string {
	label := func(f calloutField, text string) string {
		if c.field == f {
			return SelectedStyle.Render("> " + text)
		}
		return MutedStyle.Render("  " + text)
	}
	choice := func(focused, selected bool, text string) string {
		switch {
		case selected && focused:
			return ToolActiveStyle.Render(text)
		case selected:
			return SelectedStyle.Render("[" + text + "]")
		}
		return " " + text + " "
	}

	var b strings.Builder
	b.WriteString(label(calloutFieldEmoji, "Emoji"))
	b.WriteString("\n  ")
	for i, e := range nodes.CommonEmojis {
		b.WriteString(choice(c.field == calloutFieldEmoji, i == c.emojiIdx, e))
	}
	b.WriteString("\n\n")

	b.WriteString(label(calloutFieldPreset, "Colour"))
	b.WriteString("\n  ")
	for i, p := range nodes.ColorPresets {
		b.WriteString(choice(c.field == calloutFieldPreset, i == c.presetIdx, p.Name))
	}
	if c.presetIdx < 0 {
		b.WriteString(MutedStyle.Render(" (custom)"))
	}
	b.WriteString("\n\n")

	input := func(f calloutField, name, value string) string {
		cursor := ""
		if c.field == f {
			cursor = "█"
		}
		return label(f, fmt.Sprintf("%-10s %s%s", name, components.SanitizeOneLine(value), cursor))
	}
	b.WriteString(input(calloutFieldBackground, "Background", c.background))
	b.WriteString("\n")
	b.WriteString(input(calloutFieldText, "Text", c.text))
	b.WriteString("\n\n")

	preview := " " + components.SanitizeOneLine(c.emoji) + " Callout preview "
	if hexColorPattern.MatchString(c.background) && hexColorPattern.MatchString(c.text) {
		preview = lipgloss.NewStyle().
			Background(lipgloss.Color(c.background)).
			Foreground(lipgloss.Color(c.text)).
			Render(preview)
	}
	b.WriteString("  " + preview)

	hint := MutedStyle.Render("tab field | ←/→ choose | enter apply | esc cancel")
	if c.err != "" {
		hint += "\n" + lipgloss.NewStyle().Foreground(ColorError).Render(c.err)
	}
	return components.ActiveTitledBox("Callout", b.String()+"\n\n"+hint, width)
}
