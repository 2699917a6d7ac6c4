package nodes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestInsertCalloutDefaults(t *testing.T) {
	d := newDoc(t, para())
	require.NoError(t, InsertCallout(d, 1, CalloutOptions{}))

	require.Len(t, d.Root().Content, 1)
	callout := d.Root().Content[0]
	assert.Equal(t, CalloutName, callout.Type)
	assert.Equal(t, CalloutAttrs{
		BackgroundColor: DefaultCalloutBackground,
		TextColor:       DefaultCalloutText,
		Emoji:           DefaultCalloutEmoji,
	}, CalloutAttrsOf(callout))
	require.Len(t, callout.Content, 1)
	assert.Equal(t, "paragraph", callout.Content[0].Type)
	assert.Empty(t, callout.Content[0].Content)

	out := d.HTML()
	assert.Contains(t, out, `data-callout=""`)
	assert.Contains(t, out, `data-emoji="💡"`)
	assert.Contains(t, out, `style="background-color: #f3f4f6; color: #1f2937;`)
	assert.Contains(t, out, `<div data-callout-content="" style="flex: 1;"><p></p></div>`)
}

func TestInsertCalloutEmptyOptionsFallBack(t *testing.T) {
	n := NewCallout(CalloutOptions{BackgroundColor: strPtr(""), Emoji: strPtr("🎯")})
	attrs := CalloutAttrsOf(n)
	assert.Equal(t, DefaultCalloutBackground, attrs.BackgroundColor)
	assert.Equal(t, "🎯", attrs.Emoji)
}

func TestUpdateCalloutMergesSuppliedFields(t *testing.T) {
	d := newDoc(t, NewCallout(CalloutOptions{BackgroundColor: strPtr("#dbeafe"), TextColor: strPtr("#1e40af")}))

	require.NoError(t, UpdateCallout(d, 2, CalloutOptions{Emoji: strPtr("⚠️")}))
	assert.Equal(t, CalloutAttrs{BackgroundColor: "#dbeafe", TextColor: "#1e40af", Emoji: "⚠️"}, CalloutAttrsOf(d.Root().Content[0]))

	require.NoError(t, UpdateCallout(d, 0, CalloutOptions{TextColor: strPtr("#000000")}))
	assert.Equal(t, "#000000", CalloutAttrsOf(d.Root().Content[0]).TextColor)
	assert.Equal(t, "#dbeafe", CalloutAttrsOf(d.Root().Content[0]).BackgroundColor)

	require.True(t, d.Undo())
	assert.Equal(t, "#1e40af", CalloutAttrsOf(d.Root().Content[0]).TextColor)
}

func TestUpdateCalloutOutsideCallout(t *testing.T) {
	d := newDoc(t, para(text("x")))
	assert.Error(t, UpdateCallout(d, 1, CalloutOptions{Emoji: strPtr("✅")}))
}

func TestCalloutRoundTrip(t *testing.T) {
	d := newDoc(t, NewCallout(CalloutOptions{Emoji: strPtr("📌")}))
	first := d.HTML()

	again := fromHTML(t, first)
	assert.Equal(t, first, again.HTML())
	assert.Equal(t, "📌", CalloutAttrsOf(again.Root().Content[0]).Emoji)
}

func TestNestedCalloutRoundTrip(t *testing.T) {
	inner := NewCallout(CalloutOptions{Emoji: strPtr("🔔")})
	inner.Content[0].Content = append(inner.Content[0].Content, text("inner"))
	outer := NewCallout(CalloutOptions{})
	outer.Content = append(outer.Content, inner)
	d := newDoc(t, outer)

	again := fromHTML(t, d.HTML())
	assert.Equal(t, d.HTML(), again.HTML())
	require.Len(t, again.Root().Content[0].Content, 2)
	assert.Equal(t, CalloutName, again.Root().Content[0].Content[1].Type)
}

func TestCalloutParseContentElement(t *testing.T) {
	cases := []struct {
		name   string
		markup string
		body   string
		attrs  CalloutAttrs
	}{
		{
			name:   "legacy flex style",
			markup: `<div data-callout data-background-color="#dbeafe"><div style="font-size: 1.5rem;">📝</div><div style="flex: 1;"><p>Body</p></div></div>`,
			body:   "Body",
			attrs:  CalloutAttrs{BackgroundColor: "#dbeafe", TextColor: DefaultCalloutText, Emoji: DefaultCalloutEmoji},
		},
		{
			name:   "flex shorthand is not the legacy marker",
			markup: `<div data-callout><div style="flex: 10;"><p>Body</p></div><div style="flex: 1 1 auto;"></div><div><p>last</p></div></div>`,
			body:   "last",
			attrs:  CalloutAttrs{BackgroundColor: DefaultCalloutBackground, TextColor: DefaultCalloutText, Emoji: DefaultCalloutEmoji},
		},
		{
			name:   "last div",
			markup: `<div data-callout data-emoji="🔔"><div>🔔</div><div><p>x</p></div></div>`,
			body:   "x",
			attrs:  CalloutAttrs{BackgroundColor: DefaultCalloutBackground, TextColor: DefaultCalloutText, Emoji: "🔔"},
		},
		{
			name:   "container itself",
			markup: `<div data-callout>plain</div>`,
			body:   "plain",
			attrs:  CalloutAttrs{BackgroundColor: DefaultCalloutBackground, TextColor: DefaultCalloutText, Emoji: DefaultCalloutEmoji},
		},
		{
			name:   "empty",
			markup: `<div data-callout></div>`,
			body:   "",
			attrs:  CalloutAttrs{BackgroundColor: DefaultCalloutBackground, TextColor: DefaultCalloutText, Emoji: DefaultCalloutEmoji},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := fromHTML(t, tc.markup)
			require.Len(t, d.Root().Content, 1)
			callout := d.Root().Content[0]
			require.Equal(t, CalloutName, callout.Type)
			assert.Equal(t, tc.attrs, CalloutAttrsOf(callout))
			require.Len(t, callout.Content, 1)
			assert.Equal(t, "paragraph", callout.Content[0].Type)
			assert.Equal(t, tc.body, callout.Content[0].TextContent())
		})
	}
}

func TestHasFlexOne(t *testing.T) {
	assert.True(t, hasFlexOne("flex: 1;"))
	assert.True(t, hasFlexOne("color: red;flex:1"))
	assert.False(t, hasFlexOne("flex: 10;"))
	assert.False(t, hasFlexOne("flex: 1 1 auto;"))
	assert.False(t, hasFlexOne("flex-shrink: 1;"))
	assert.False(t, hasFlexOne(""))
}

func TestCalloutAt(t *testing.T) {
	d := newDoc(t, para(text("a")), NewCallout(CalloutOptions{}))
	n, pos, ok := CalloutAt(d, 3)
	require.True(t, ok)
	assert.Equal(t, CalloutName, n.Type)
	assert.Equal(t, 3, pos)

	_, pos, ok = CalloutAt(d, 4)
	require.True(t, ok)
	assert.Equal(t, 3, pos)

	_, _, ok = CalloutAt(d, 1)
	assert.False(t, ok)
}
