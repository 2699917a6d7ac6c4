package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravitrone/richtext/internal/nodes"
	"github.com/gravitrone/richtext/internal/ui/components"
)

func defaultCallout() nodes.CalloutAttrs {
	return nodes.CalloutAttrs{
		BackgroundColor: nodes.DefaultCalloutBackground,
		TextColor:       nodes.DefaultCalloutText,
		Emoji:           nodes.DefaultCalloutEmoji,
	}
}

func TestCalloutEditorOpenMatchesPreset(t *testing.T) {
	var c CalloutEditor
	c.Open(defaultCallout())
	assert.True(t, c.Active)
	assert.Equal(t, 0, c.emojiIdx)
	assert.Equal(t, 0, c.presetIdx)

	c.Open(nodes.CalloutAttrs{BackgroundColor: "#000", TextColor: "#fff", Emoji: "🦀"})
	assert.Equal(t, -1, c.emojiIdx)
	assert.Equal(t, -1, c.presetIdx)
	assert.Contains(t, components.SanitizeText(c.Render(80)), "(custom)")
}

func TestCalloutEditorPicksEmojiAndPreset(t *testing.T) {
	var c CalloutEditor
	c.Open(defaultCallout())

	c.HandleKey(tea.KeyMsg{Type: tea.KeyRight})
	c.HandleKey(tea.KeyMsg{Type: tea.KeyTab})
	c.HandleKey(tea.KeyMsg{Type: tea.KeyLeft})

	opts, ok := c.HandleKey(tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, ok)
	last := nodes.ColorPresets[len(nodes.ColorPresets)-1]
	assert.Equal(t, nodes.CommonEmojis[1], *opts.Emoji)
	assert.Equal(t, last.Background, *opts.BackgroundColor)
	assert.Equal(t, last.Text, *opts.TextColor)
	assert.False(t, c.Active)
}

func TestCalloutEditorCustomHexValidation(t *testing.T) {
	var c CalloutEditor
	c.Open(defaultCallout())

	c.HandleKey(tea.KeyMsg{Type: tea.KeyShiftTab})
	c.HandleKey(tea.KeyMsg{Type: tea.KeyShiftTab})
	require.Equal(t, calloutFieldBackground, c.field)
	for range 7 {
		c.HandleKey(tea.KeyMsg{Type: tea.KeyBackspace})
	}
	c.HandleKey(runes("#12"))

	_, ok := c.HandleKey(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, ok)
	assert.True(t, c.Active)
	assert.Equal(t, "background colour must be #rgb or #rrggbb", c.err)
	assert.Contains(t, components.SanitizeText(c.Render(80)), "background colour must be")

	c.HandleKey(runes("3"))
	assert.Empty(t, c.err)
	assert.Equal(t, -1, c.presetIdx)

	// input stops at seven characters
	c.HandleKey(runes("4567"))
	assert.Equal(t, "#123", c.background)

	opts, ok := c.HandleKey(tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, ok)
	assert.Equal(t, "#123", *opts.BackgroundColor)
	assert.Equal(t, nodes.DefaultCalloutText, *opts.TextColor)
}

func TestCalloutEditorEscCancels(t *testing.T) {
	var c CalloutEditor
	c.Open(defaultCallout())
	_, ok := c.HandleKey(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, ok)
	assert.False(t, c.Active)
}

func TestCycle(t *testing.T) {
	assert.Equal(t, 0, cycle(-1, 1, 3))
	assert.Equal(t, 2, cycle(-1, -1, 3))
	assert.Equal(t, 0, cycle(2, 1, 3))
	assert.Equal(t, 2, cycle(0, -1, 3))
	assert.Equal(t, -1, cycle(0, 1, 0))
}

func TestDropLastRune(t *testing.T) {
	assert.Equal(t, "ab", dropLastRune("abc"))
	assert.Equal(t, "#", dropLastRune("#é"))
	assert.Equal(t, "", dropLastRune(""))
}
