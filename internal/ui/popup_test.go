package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravitrone/richtext/internal/mention"
	"github.com/gravitrone/richtext/internal/suggest"
	"github.com/gravitrone/richtext/internal/ui/components"
)

func TestPlacementBelowAnchor(t *testing.T) {
	x, y := placement(suggest.Rect{X: 4, Y: 2, Width: 3, Height: 1}, 20, 5, 80, 24)
	assert.Equal(t, 4, x)
	assert.Equal(t, 3, y)
}

func TestPlacementFlipsAboveNearBottom(t *testing.T) {
	x, y := placement(suggest.Rect{X: 70, Y: 20, Height: 1}, 20, 5, 80, 24)
	assert.Equal(t, 60, x)
	assert.Equal(t, 15, y)
}

func TestPlacementStaysBelowWhenNoRoomAbove(t *testing.T) {
	_, y := placement(suggest.Rect{X: 0, Y: 1}, 10, 8, 40, 6)
	assert.Equal(t, 2, y)
}

func TestOverlayPadsAndKeepsRight(t *testing.T) {
	base := "abcdefgh\nxy"
	out := overlay(base, "12\n34", 2, 0)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "ab12efgh", lines[0])
	assert.Equal(t, "xy34", lines[1])

	out = overlay("a", "zz", 3, 2)
	assert.Equal(t, "a\n\n   zz", out)
}

func TestTypeLabel(t *testing.T) {
	assert.Equal(t, "Member", typeLabel(mention.TypeMember))
	assert.Equal(t, "-", typeLabel(""))
}

func TestPopupViewMessages(t *testing.T) {
	p := newPopupView()
	assert.Empty(t, p.View(80))

	p.Show(suggest.Rect{})
	p.Render(suggest.State{Query: "ja"})
	assert.Contains(t, components.SanitizeText(p.View(80)), "Type 3+ characters to search")

	p.Render(suggest.State{Query: "nobody"})
	view := components.SanitizeText(p.View(80))
	assert.Contains(t, view, `No matches for "nobody"`)
	assert.Contains(t, view, "@nobody")
}

func TestPopupViewListsItems(t *testing.T) {
	p := newPopupView()
	p.Show(suggest.Rect{})
	p.Render(suggest.State{
		Query: "jan",
		Items: []mention.Entity{
			{ID: "m-1", Label: "Jane", Type: mention.TypeMember},
			{ID: "t-1", Label: "janitors", Type: mention.TypeTag},
		},
		Selected: 1,
	})

	view := p.View(80)
	plain := components.SanitizeText(view)
	assert.Contains(t, plain, "Jane")
	assert.Contains(t, plain, "Tag")
	assert.Contains(t, plain, "2/2")
	assert.Equal(t, popupWidth, lipgloss.Width(view))

	assert.Equal(t, 30, lipgloss.Width(p.View(30)))
}

func TestPopupItemAt(t *testing.T) {
	p := newPopupView()
	p.Show(suggest.Rect{})
	p.Render(suggest.State{Items: []mention.Entity{{ID: "1"}, {ID: "2"}}})

	_, ok := p.itemAt(0)
	assert.False(t, ok)
	i, ok := p.itemAt(popupItemTop + 1)
	require.True(t, ok)
	assert.Equal(t, 1, i)
	_, ok = p.itemAt(popupItemTop + 2)
	assert.False(t, ok)
}

func TestPopupSlotTracksLiveSession(t *testing.T) {
	var slot popupSlot
	assert.Nil(t, slot.view())

	popup, list := slot.factory()
	assert.Nil(t, slot.view())

	popup.Show(suggest.Rect{})
	require.NotNil(t, slot.view())

	list.Destroy()
	popup.Destroy()
	assert.Nil(t, slot.view())
	assert.Equal(t, 2, slot.current.destroyed)
}
