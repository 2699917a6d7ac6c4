package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func assertFits(t *testing.T, out string, width int) {
	t.Helper()
	for _, line := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, lipgloss.Width(line), width, "line %q", line)
	}
}

func TestBoxWidthBounds(t *testing.T) {
	assert.Equal(t, 0, boxWidth(0))
	assert.Equal(t, 18, boxWidth(20))
	assert.Equal(t, 32, boxWidth(40))
	assert.Equal(t, 60, boxWidth(100))
	assert.Equal(t, 72, boxWidth(200))
}

func TestTitledBoxIncludesTitle(t *testing.T) {
	out := TitledBox("Callout", "Content", 80)
	assert.Contains(t, out, "Callout")
	assert.Contains(t, out, "Content")
	assertFits(t, out, 80)
}

func TestTitledBoxNarrowTerminal(t *testing.T) {
	assertFits(t, TitledBox("A very long title for a narrow box", "line", 20), 20)
	assertFits(t, ActiveTitledBox("Link", "line", 20), 20)
}

func TestErrorBoxIncludesMessage(t *testing.T) {
	out := ErrorBox("Save failed", "disk full", 80)
	assert.Contains(t, out, "Save failed")
	assert.Contains(t, out, "disk full")
}

func TestClampTextWidth(t *testing.T) {
	assert.Equal(t, "hello", ClampTextWidth("hello", 10))
	assert.Equal(t, "hel…", ClampTextWidth("hello", 4))
	assert.Equal(t, "a b", ClampTextWidth("a\nb", 0))
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "", truncateRunes("hello", 0))
	assert.Equal(t, "he", truncateRunes("hello", 2))
	assert.Equal(t, "你", truncateRunes("你好", 1))
}

func TestTableClampsLongValues(t *testing.T) {
	rows := []TableRow{{Label: strings.Repeat("Label", 8), Value: strings.Repeat("value", 40)}}
	assertFits(t, Table("Mention", rows, 60), boxWidth(60)+2)
}

func TestInfoRowSanitizesLabelAndValue(t *testing.T) {
	out := InfoRow("na\u202eme\x1b]0;evil\x07", "va\x1b[2Jlu\u202ee")
	assert.NotContains(t, out, "\u202e")
	assert.NotContains(t, out, "\x1b]")
	assert.NotContains(t, out, "\x1b[2J")
	assert.Contains(t, SanitizeText(out), "name: value")
}

func TestAttrsRowsSortedAndFormatted(t *testing.T) {
	rows := AttrsRows(map[string]any{
		"url":   "",
		"id":    "m-1",
		"level": 2,
		"extra": map[string]any{"a": 1},
	})
	assert.Equal(t, []TableRow{
		{Label: "extra", Value: `{"a":1}`},
		{Label: "id", Value: "m-1"},
		{Label: "level", Value: "2"},
		{Label: "url", Value: "-"},
	}, rows)
}
