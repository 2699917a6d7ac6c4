package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravitrone/richtext/internal/doc"
	"github.com/gravitrone/richtext/internal/mention"
	"github.com/gravitrone/richtext/internal/nodes"
)

const janeMention = `<a href="https://m.test/profil/jane" class="mention mention-member" data-mention-type="member" data-mention-id="m-1" data-mention-label="Jane" data-mention-url="https://m.test/profil/jane" data-mention-variant="inline">Jane</a>`

var jane = mention.Entity{ID: "m-1", Label: "Jane", Type: mention.TypeMember, URL: "https://m.test/profil/jane"}

func testDocument(t *testing.T, markup string) *doc.Document {
	t.Helper()
	schema, err := nodes.Schema()
	require.NoError(t, err)
	d, err := doc.FromHTML(schema, markup)
	require.NoError(t, err)
	return d
}

func testEditor(t *testing.T, markup string) *Editor {
	t.Helper()
	return NewEditor(testDocument(t, markup), DefaultEditorKeyMap())
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, e *Editor, msgs ...tea.KeyMsg) {
	t.Helper()
	for _, msg := range msgs {
		handled, err := e.HandleKey(msg)
		require.True(t, handled, "key %q not handled", msg.String())
		require.NoError(t, err)
	}
}

func docHTML(e *Editor) string {
	return e.Document().HTML()
}

func TestEditorStartsInFirstTextblock(t *testing.T) {
	e := testEditor(t, "<blockquote><p>quoted</p></blockquote>")
	assert.Equal(t, 2, e.Cursor())
	assert.True(t, e.Selection().Empty())
}

func TestEditorTypingAndBackspace(t *testing.T) {
	e := testEditor(t, "<p>x</p>")

	press(t, e, runes("hi"))
	assert.Equal(t, "<p>hix</p>", docHTML(e))
	assert.Equal(t, 3, e.Cursor())

	press(t, e, tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, "<p>hx</p>", docHTML(e))
	assert.Equal(t, 2, e.Cursor())

	press(t, e, tea.KeyMsg{Type: tea.KeySpace}, tea.KeyMsg{Type: tea.KeyDelete})
	assert.Equal(t, "<p>h </p>", docHTML(e))
}

func TestEditorIgnoresUnboundKeys(t *testing.T) {
	e := testEditor(t, "<p>x</p>")
	handled, err := e.HandleKey(tea.KeyMsg{Type: tea.KeyF5})
	assert.False(t, handled)
	assert.NoError(t, err)

	handled, _ = e.HandleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("b"), Alt: true})
	assert.False(t, handled)
	assert.Equal(t, "<p>x</p>", docHTML(e))
}

func TestEditorEnterSplitsAndBackspaceJoins(t *testing.T) {
	e := testEditor(t, "<p>abcd</p>")
	press(t, e, tea.KeyMsg{Type: tea.KeyRight}, tea.KeyMsg{Type: tea.KeyRight})
	require.Equal(t, 3, e.Cursor())

	press(t, e, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "<p>ab</p><p>cd</p>", docHTML(e))
	assert.Equal(t, 5, e.Cursor())

	press(t, e, tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, "<p>abcd</p>", docHTML(e))
	assert.Equal(t, 3, e.Cursor())
}

func TestEditorArrowsSkipBlockBoundaries(t *testing.T) {
	e := testEditor(t, "<p>ab</p><p>cd</p>")
	press(t, e, tea.KeyMsg{Type: tea.KeyRight}, tea.KeyMsg{Type: tea.KeyRight}, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 5, e.Cursor())

	press(t, e, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 1, e.Cursor())
	press(t, e, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 5, e.Cursor())

	press(t, e, tea.KeyMsg{Type: tea.KeyEnd})
	assert.Equal(t, 7, e.Cursor())
	press(t, e, tea.KeyMsg{Type: tea.KeyHome})
	assert.Equal(t, 5, e.Cursor())
}

func TestEditorSelectionBold(t *testing.T) {
	e := testEditor(t, "<p>abc</p>")
	press(t, e, tea.KeyMsg{Type: tea.KeyShiftRight}, tea.KeyMsg{Type: tea.KeyShiftRight})
	assert.Equal(t, doc.Range{From: 1, To: 3}, e.Selection())

	require.NoError(t, e.ToggleMark("bold"))
	assert.Equal(t, "<p><strong>ab</strong>c</p>", docHTML(e))
	assert.True(t, e.IsActive("bold"))

	require.NoError(t, e.ToggleMark("bold"))
	assert.Equal(t, "<p>abc</p>", docHTML(e))
}

func TestEditorStoredMarkAppliesToTypedText(t *testing.T) {
	e := testEditor(t, "<p>a</p>")
	press(t, e, tea.KeyMsg{Type: tea.KeyEnd})

	require.NoError(t, e.ToggleMark("italic"))
	assert.True(t, e.IsActive("italic"))
	press(t, e, runes("b"))
	assert.Equal(t, "<p>a<em>b</em></p>", docHTML(e))
}

func TestEditorHeadingAndBlockquote(t *testing.T) {
	e := testEditor(t, "<p>title</p>")

	require.NoError(t, e.SetHeading(2))
	assert.Equal(t, "<h2>title</h2>", docHTML(e))
	assert.Equal(t, 2, e.ActiveHeading())

	require.NoError(t, e.ToggleBlockquote())
	assert.Equal(t, "<blockquote><h2>title</h2></blockquote>", docHTML(e))
	assert.True(t, e.IsActive("blockquote"))

	require.NoError(t, e.ToggleBlockquote())
	assert.Equal(t, "<h2>title</h2>", docHTML(e))

	require.NoError(t, e.SetHeading(0))
	assert.Equal(t, "<p>title</p>", docHTML(e))
}

func TestEditorBackspaceAtQuoteStartLifts(t *testing.T) {
	e := testEditor(t, "<blockquote><p>q</p></blockquote>")
	press(t, e, tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, "<p>q</p>", docHTML(e))
	assert.Equal(t, 1, e.Cursor())
}

func TestEditorUndoRedo(t *testing.T) {
	e := testEditor(t, "<p>a</p>")
	press(t, e, tea.KeyMsg{Type: tea.KeyEnd}, runes("b"))

	assert.True(t, e.Undo())
	assert.Equal(t, "<p>a</p>", docHTML(e))
	assert.True(t, e.Redo())
	assert.Equal(t, "<p>ab</p>", docHTML(e))
	assert.False(t, e.Redo())
}

func TestEditorSetLinkWithoutSelectionTypesHref(t *testing.T) {
	e := testEditor(t, "<p></p>")
	require.NoError(t, e.SetLink("https://x.test"))

	assert.Contains(t, docHTML(e), `href="https://x.test"`)
	assert.Contains(t, docHTML(e), ">https://x.test</a>")
	assert.Equal(t, "https://x.test", e.LinkAt())

	// typing after the link does not extend it
	press(t, e, runes("!"))
	assert.Contains(t, docHTML(e), "</a>!")
}

func TestEditorSetLinkOnSelectionAndRemove(t *testing.T) {
	e := testEditor(t, "<p>go here</p>")
	press(t, e, tea.KeyMsg{Type: tea.KeyShiftRight}, tea.KeyMsg{Type: tea.KeyShiftRight})
	require.NoError(t, e.SetLink("https://x.test"))
	assert.Contains(t, docHTML(e), ">go</a> here")

	require.NoError(t, e.SetLink(""))
	assert.Equal(t, "<p>go here</p>", docHTML(e))
}

func TestEditorTriggerAndInsertMention(t *testing.T) {
	e := testEditor(t, "<p></p>")
	press(t, e, runes("hi"), tea.KeyMsg{Type: tea.KeySpace}, runes("@jan"))

	trig, ok := e.Trigger()
	require.True(t, ok)
	assert.Equal(t, "jan", trig.Query)
	assert.Equal(t, doc.Range{From: 4, To: 8}, trig.Range)

	rect, ok := e.ScreenRect(trig.Range)
	require.True(t, ok)
	assert.Equal(t, 3, rect.X)
	assert.Equal(t, 0, rect.Y)
	assert.Equal(t, 4, rect.Width)

	require.NoError(t, e.InsertMention(trig.Range, jane))
	assert.Contains(t, docHTML(e), `data-mention-id="m-1"`)
	assert.Equal(t, 6, e.Cursor())
	_, ok = e.Trigger()
	assert.False(t, ok)
}

func TestEditorChangeVariantNearCursor(t *testing.T) {
	e := testEditor(t, "<p>Hi "+janeMention+"</p>")
	press(t, e, tea.KeyMsg{Type: tea.KeyEnd})

	f, ok := e.MentionNearCursor()
	require.True(t, ok)
	assert.Equal(t, "m-1", f.Attrs.ID)

	require.NoError(t, e.ChangeVariant(f, nodes.VariantPill))
	got := nodes.Mentions(e.Document().Root())
	require.Len(t, got, 1)
	assert.Equal(t, nodes.VariantPill, got[0].Variant)
	assert.Contains(t, e.View(), "@Jane · member")
	assert.True(t, strings.HasPrefix(docHTML(e), "<p>Hi </p><div data-mention-pill"))
}

func TestEditorHitTest(t *testing.T) {
	e := testEditor(t, "<p>Hi "+janeMention+"</p>")

	h, ok := e.hitTest(0, 1)
	require.True(t, ok)
	assert.Equal(t, hitText, h.kind)
	assert.Equal(t, 2, e.Cursor())

	h, ok = e.hitTest(0, 4)
	require.True(t, ok)
	require.Equal(t, hitMention, h.kind)
	f, ok := e.mentionAt(h)
	require.True(t, ok)
	assert.Equal(t, "Jane", f.Attrs.Label)

	// past the end of the line lands on the block end
	h, ok = e.hitTest(0, 60)
	require.True(t, ok)
	assert.Equal(t, hitText, h.kind)
	assert.Equal(t, 5, e.Cursor())

	_, ok = e.hitTest(9, 0)
	assert.False(t, ok)
}

func TestEditorInsertAndUpdateCallout(t *testing.T) {
	e := testEditor(t, "<p>x</p>")
	require.NoError(t, e.InsertCallout())

	n, _, ok := e.CalloutAtCursor()
	require.True(t, ok)
	assert.Equal(t, nodes.DefaultCalloutEmoji, nodes.CalloutAttrsOf(n).Emoji)

	emoji := "📝"
	require.NoError(t, e.UpdateCallout(nodes.CalloutOptions{Emoji: &emoji}))
	assert.Contains(t, docHTML(e), `data-emoji="📝"`)

	press(t, e, runes("inside"))
	n, _, ok = e.CalloutAtCursor()
	require.True(t, ok)
	assert.Equal(t, "inside", n.TextContent())
}

func TestEditorPasteSplitsLines(t *testing.T) {
	e := testEditor(t, "<p></p>")
	press(t, e, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("one\r\ntwo"), Paste: true})
	assert.Equal(t, "<p>one</p><p>two</p>", docHTML(e))
}

func TestEditorHardBreak(t *testing.T) {
	e := testEditor(t, "<p>ab</p>")
	press(t, e, tea.KeyMsg{Type: tea.KeyRight}, tea.KeyMsg{Type: tea.KeyEnter, Alt: true})
	assert.Equal(t, "<p>a<br/>b</p>", docHTML(e))
	assert.Equal(t, 3, e.Cursor())
}

func TestEditorSelectionAcrossBlocksIsRejected(t *testing.T) {
	e := testEditor(t, "<p>ab</p><p>cd</p>")
	press(t, e,
		tea.KeyMsg{Type: tea.KeyRight},
		tea.KeyMsg{Type: tea.KeyShiftRight},
		tea.KeyMsg{Type: tea.KeyShiftRight},
		tea.KeyMsg{Type: tea.KeyShiftRight},
	)
	require.Equal(t, doc.Range{From: 2, To: 6}, e.Selection())

	err := e.InsertText("x")
	assert.ErrorIs(t, err, errSpansBlocks)
	assert.Equal(t, "<p>ab</p><p>cd</p>", docHTML(e))
}

func TestEditorViewScrollsToCursor(t *testing.T) {
	e := testEditor(t, "<p>aa</p><p>bb</p><p>cc</p><p>dd</p>")
	e.SetSize(20, 2)
	assert.Equal(t, 2, len(splitLines(e.View())))

	press(t, e, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown})
	view := e.View()
	assert.Contains(t, view, "dd")
	assert.NotContains(t, view, "aa")
}
