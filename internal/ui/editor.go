package ui

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/net/html"

	"github.com/gravitrone/richtext/internal/doc"
	"github.com/gravitrone/richtext/internal/mention"
	"github.com/gravitrone/richtext/internal/nodes"
	"github.com/gravitrone/richtext/internal/suggest"
)

// errSpansBlocks is reported when a selection edit would cross blocks.
var errSpansBlocks = errors.New("selection spans several blocks")

// Editor is the document view: cursor, selection, stored marks and the
// last layout. It is shared by pointer because the document under it is
// mutable.
type Editor struct {
	doc    *doc.Document
	keys   EditorKeyMap
	cursor int
	anchor int
	// stored marks apply to the next typed text when storedSet.
	stored    []doc.Mark
	storedSet bool
	goalCol   int

	width  int
	height int
	scroll int
	layout layout
}

// NewEditor opens d with the cursor at the start of its first textblock.
func NewEditor(d *doc.Document, keys EditorKeyMap) *Editor {
	e := &Editor{doc: d, keys: keys, goalCol: -1, width: 80, height: 20}
	e.relayout()
	e.cursor = e.snap(0)
	e.anchor = e.cursor
	e.relayout()
	return e
}

// Document returns the edited document.
func (e *Editor) Document() *doc.Document { return e.doc }

// Cursor returns the cursor position.
func (e *Editor) Cursor() int { return e.cursor }

// Selection returns the selected range, empty when nothing is selected.
func (e *Editor) Selection() doc.Range {
	if e.anchor < e.cursor {
		return doc.Range{From: e.anchor, To: e.cursor}
	}
	return doc.Range{From: e.cursor, To: e.anchor}
}

// SetSize sets the viewport in cells.
func (e *Editor) SetSize(width, height int) {
	if width > 0 {
		e.width = width
	}
	if height > 0 {
		e.height = height
	}
	e.relayout()
}

func (e *Editor) relayout() {
	e.layout = renderLayout(e.doc.Schema(), e.doc.Root(), e.width, e.cursor, e.Selection())
	c, ok := e.layout.cellOf(e.cursor)
	if !ok {
		return
	}
	if c.row < e.scroll {
		e.scroll = c.row
	}
	if c.row >= e.scroll+e.height {
		e.scroll = c.row - e.height + 1
	}
}

func (e *Editor) valid(pos int) bool {
	_, ok := e.layout.cells[pos]
	return ok
}

// snap returns the textblock position nearest pos, preferring later ones.
func (e *Editor) snap(pos int) int {
	if e.valid(pos) {
		return pos
	}
	size := e.doc.ContentSize()
	for d := 1; d <= size+1; d++ {
		if e.valid(pos + d) {
			return pos + d
		}
		if e.valid(pos - d) {
			return pos - d
		}
	}
	return pos
}

// SetCursor moves the cursor to the textblock position nearest pos and
// drops the selection.
func (e *Editor) SetCursor(pos int) {
	e.cursor = e.snap(pos)
	e.collapse()
	e.relayout()
}

func (e *Editor) collapse() {
	e.anchor = e.cursor
	e.storedSet = false
	e.stored = nil
	e.goalCol = -1
}

func (e *Editor) moveH(delta int, extend bool) {
	size := e.doc.ContentSize()
	p := e.cursor + delta
	for p >= 0 && p <= size && !e.valid(p) {
		p += delta
	}
	if p >= 0 && p <= size {
		e.cursor = p
	}
	if !extend {
		e.collapse()
	}
	e.goalCol = -1
	e.relayout()
}

func (e *Editor) moveV(delta int) {
	c, ok := e.layout.cellOf(e.cursor)
	if !ok {
		return
	}
	goal := e.goalCol
	if goal < 0 {
		goal = c.col
	}
	for row := c.row + delta; row >= 0 && row < len(e.layout.rows); row += delta {
		if pos, ok := e.layout.nearest(row, goal); ok {
			e.cursor = pos
			break
		}
	}
	e.collapse()
	e.goalCol = goal
	e.relayout()
}

func (e *Editor) lineEdge(end bool) {
	tb, before, err := e.doc.TextblockAt(e.cursor)
	if err != nil {
		return
	}
	e.cursor = before + 1
	if end {
		e.cursor = before + e.doc.NodeSize(tb) - 1
	}
	e.collapse()
	e.relayout()
}

// HandleKey runs navigation and text entry keys. It reports whether the
// key was one of them.
func (e *Editor) HandleKey(msg tea.KeyMsg) (bool, error) {
	switch {
	case isLeft(msg):
		e.moveH(-1, false)
	case isRight(msg):
		e.moveH(1, false)
	case key.Matches(msg, e.keys.SelectLeft):
		e.moveH(-1, true)
	case key.Matches(msg, e.keys.SelectRight):
		e.moveH(1, true)
	case isUp(msg):
		e.moveV(-1)
	case isDown(msg):
		e.moveV(1)
	case key.Matches(msg, e.keys.LineStart):
		e.lineEdge(false)
	case key.Matches(msg, e.keys.LineEnd):
		e.lineEdge(true)
	case key.Matches(msg, e.keys.HardBreak):
		return true, e.HardBreak()
	case isEnter(msg):
		return true, e.Split()
	case msg.Type == tea.KeyBackspace:
		return true, e.Backspace()
	case msg.Type == tea.KeyDelete:
		return true, e.DeleteForward()
	case msg.Type == tea.KeySpace:
		return true, e.InsertText(" ")
	case msg.Type == tea.KeyRunes && !msg.Alt:
		if msg.Paste {
			return true, e.Paste(string(msg.Runes))
		}
		return true, e.InsertText(string(msg.Runes))
	default:
		return false, nil
	}
	return true, nil
}

func (e *Editor) deleteSelection() error {
	sel := e.Selection()
	if sel.Empty() {
		return nil
	}
	if err := e.doc.Apply(doc.Delete{From: sel.From, To: sel.To}); err != nil {
		if errors.Is(err, doc.ErrCrossesNodes) {
			return errSpansBlocks
		}
		return err
	}
	e.cursor = sel.From
	e.collapse()
	return nil
}

// typingMarks are the marks new text gets: the stored ones, or those of
// the text before the cursor. A link only carries on inside its text.
func (e *Editor) typingMarks() []doc.Mark {
	if e.storedSet {
		return e.stored
	}
	marks := e.doc.MarksAt(e.cursor)
	r, err := e.doc.Resolve(e.cursor)
	if err != nil || r.TextOffset > 0 {
		return marks
	}
	out := make([]doc.Mark, 0, len(marks))
	for _, m := range marks {
		if m.Type != "link" {
			out = append(out, m)
		}
	}
	return out
}

// InsertText types text at the cursor, replacing the selection.
func (e *Editor) InsertText(text string) error {
	if err := e.deleteSelection(); err != nil {
		return err
	}
	err := e.doc.Apply(doc.InsertText{Pos: e.cursor, Text: text, Marks: e.typingMarks()})
	if err != nil {
		return err
	}
	e.cursor += utf8.RuneCountInString(text)
	e.collapse()
	e.relayout()
	return nil
}

// Paste types text line by line, splitting blocks at newlines.
func (e *Editor) Paste(text string) error {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			if err := e.Split(); err != nil {
				return err
			}
		}
		if line == "" {
			continue
		}
		if err := e.InsertText(line); err != nil {
			return err
		}
	}
	return nil
}

// Backspace deletes the selection or the position before the cursor. At
// the start of a block it joins with the block before, or lifts the
// block out of a blockquote it opens.
func (e *Editor) Backspace() error {
	if !e.Selection().Empty() {
		err := e.deleteSelection()
		e.relayout()
		return err
	}
	_, before, err := e.doc.TextblockAt(e.cursor)
	if err != nil {
		return nil
	}
	if e.cursor > before+1 {
		if err := e.doc.Apply(doc.Delete{From: e.cursor - 1, To: e.cursor}); err != nil {
			return err
		}
		e.cursor--
		e.collapse()
		e.relayout()
		return nil
	}

	r, err := e.doc.Resolve(before)
	if err == nil && r.NodeBefore == nil && r.Parent.Type == "blockquote" {
		if err := e.doc.ToggleBlockquote(e.cursor); err != nil {
			return err
		}
		e.cursor--
		e.collapse()
		e.relayout()
		return nil
	}
	pos, err := e.doc.JoinBackward(e.cursor)
	if err != nil {
		return err
	}
	e.cursor = pos
	e.collapse()
	e.relayout()
	return nil
}

// DeleteForward deletes the selection or the position after the cursor,
// joining with the next block at a block end.
func (e *Editor) DeleteForward() error {
	if !e.Selection().Empty() {
		err := e.deleteSelection()
		e.relayout()
		return err
	}
	tb, before, err := e.doc.TextblockAt(e.cursor)
	if err != nil {
		return nil
	}
	if e.cursor < before+e.doc.NodeSize(tb)-1 {
		err = e.doc.Apply(doc.Delete{From: e.cursor, To: e.cursor + 1})
	} else {
		err = e.doc.JoinForward(e.cursor)
	}
	e.collapse()
	e.relayout()
	return err
}

// Split breaks the textblock at the cursor.
func (e *Editor) Split() error {
	if err := e.deleteSelection(); err != nil {
		return err
	}
	if err := e.doc.SplitBlock(e.cursor); err != nil {
		return err
	}
	e.cursor += 2
	e.collapse()
	e.relayout()
	return nil
}

// HardBreak inserts a line break inside the textblock.
func (e *Editor) HardBreak() error {
	if err := e.deleteSelection(); err != nil {
		return err
	}
	if err := e.doc.Apply(doc.Insert{Pos: e.cursor, Node: &doc.Node{Type: "hard_break"}}); err != nil {
		return err
	}
	e.cursor++
	e.collapse()
	e.relayout()
	return nil
}

// ToggleMark toggles markType over the selection. With no selection the
// mark is stored for the next typed text.
func (e *Editor) ToggleMark(markType string) error {
	sel := e.Selection()
	if !sel.Empty() {
		err := e.doc.ToggleMark(sel.From, sel.To, markType, nil)
		e.relayout()
		return err
	}
	current := e.typingMarks()
	next := make([]doc.Mark, 0, len(current)+1)
	found := false
	for _, m := range current {
		if m.Type == markType {
			found = true
			continue
		}
		next = append(next, m)
	}
	if !found {
		next = append(next, doc.Mark{Type: markType})
	}
	e.stored, e.storedSet = next, true
	return nil
}

// IsActive reports whether a mark or node type applies at the cursor or
// over the whole selection. Stored marks count.
func (e *Editor) IsActive(name string) bool {
	sel := e.Selection()
	if sel.Empty() {
		if _, isMark := e.doc.Schema().MarkType(name); isMark {
			for _, m := range e.typingMarks() {
				if m.Type == name {
					return true
				}
			}
			return false
		}
	}
	return e.doc.IsActive(name, sel.From, sel.To)
}

// ActiveHeading is the heading level of the block at the cursor, or 0.
func (e *Editor) ActiveHeading() int {
	return e.doc.ActiveHeading(e.cursor)
}

// SetHeading toggles the block at the cursor between a heading of level
// and a paragraph.
func (e *Editor) SetHeading(level int) error {
	err := e.doc.SetHeading(e.cursor, level)
	e.relayout()
	return err
}

// ToggleBlockquote wraps or lifts the block at the cursor.
func (e *Editor) ToggleBlockquote() error {
	lift := e.doc.IsActive("blockquote", e.cursor, e.cursor)
	if err := e.doc.ToggleBlockquote(e.cursor); err != nil {
		return err
	}
	if lift {
		e.cursor--
	} else {
		e.cursor++
	}
	e.collapse()
	e.relayout()
	return nil
}

// ClearFormatting strips marks and headings from the selection, or the
// block at the cursor. Text typed next is plain.
func (e *Editor) ClearFormatting() error {
	sel := e.Selection()
	if err := e.doc.ClearFormatting(sel.From, sel.To); err != nil {
		return err
	}
	if sel.Empty() {
		e.stored, e.storedSet = nil, true
	}
	e.relayout()
	return nil
}

// LinkAt returns the href of the link at the cursor or selection start.
func (e *Editor) LinkAt() string {
	sel := e.Selection()
	pos := sel.From
	if !sel.Empty() {
		pos = sel.From + 1
	}
	for _, m := range e.doc.MarksAt(pos) {
		if m.Type == "link" {
			return m.Attrs.String("href")
		}
	}
	return ""
}

// SetLink links the selection, or the link around the cursor, to href.
// An empty href removes the link. With no selection and no link around
// the cursor the href itself is typed as linked text.
func (e *Editor) SetLink(href string) error {
	sel := e.Selection()
	if sel.Empty() && href != "" && !e.doc.IsActive("link", sel.From, sel.To) {
		marks := append(e.typingMarks(), doc.Mark{Type: "link", Attrs: doc.Attrs{"href": href}})
		if err := e.doc.Apply(doc.InsertText{Pos: e.cursor, Text: href, Marks: marks}); err != nil {
			return err
		}
		e.cursor += utf8.RuneCountInString(href)
		e.collapse()
		e.relayout()
		return nil
	}
	err := e.doc.SetLink(sel.From, sel.To, href)
	e.relayout()
	return err
}

// InsertCallout drops a default callout at the cursor and moves into it.
func (e *Editor) InsertCallout() error {
	if err := e.deleteSelection(); err != nil {
		return err
	}
	_, before, err := e.doc.TextblockAt(e.cursor)
	if err != nil {
		return err
	}
	if err := nodes.InsertCallout(e.doc, e.cursor, nodes.CalloutOptions{}); err != nil {
		return err
	}
	at := -1
	e.doc.NodesBetween(before, e.doc.ContentSize(), func(n *doc.Node, pos int) bool {
		if at < 0 && pos >= before && n.Type == nodes.CalloutName {
			at = pos
		}
		return at < 0
	})
	e.relayout()
	e.cursor = e.snap(at + 2)
	e.collapse()
	e.relayout()
	return nil
}

// CalloutAtCursor finds the callout holding the cursor.
func (e *Editor) CalloutAtCursor() (*doc.Node, int, bool) {
	return nodes.CalloutAt(e.doc, e.cursor)
}

// UpdateCallout changes the callout holding the cursor.
func (e *Editor) UpdateCallout(opts nodes.CalloutOptions) error {
	err := nodes.UpdateCallout(e.doc, e.cursor, opts)
	e.relayout()
	return err
}

// InsertMention replaces the trigger range with a mention of ent and puts
// the cursor after the space that follows it.
func (e *Editor) InsertMention(r doc.Range, ent mention.Entity) error {
	if err := nodes.InsertMention(e.doc, r, ent); err != nil {
		return err
	}
	e.cursor = r.From + 2
	e.collapse()
	e.relayout()
	return nil
}

// Trigger reports the live mention trigger before the cursor.
func (e *Editor) Trigger() (suggest.Trigger, bool) {
	if !e.Selection().Empty() {
		return suggest.Trigger{}, false
	}
	return suggest.TriggerAt(e.doc, e.cursor, suggest.DefaultTrigger)
}

// ScreenRect locates r in view cells, relative to the top of the view.
func (e *Editor) ScreenRect(r doc.Range) (suggest.Rect, bool) {
	c, ok := e.layout.cellOf(r.From)
	if !ok {
		return suggest.Rect{}, false
	}
	row := c.row - e.scroll
	if row < 0 || row >= e.height {
		return suggest.Rect{}, false
	}
	width := r.To - r.From
	if width < 1 {
		width = 1
	}
	return suggest.Rect{X: c.col, Y: row, Width: width, Height: 1}, true
}

// MentionNearCursor finds an inline mention touching the cursor, or a
// pill right before or after the block holding it.
func (e *Editor) MentionNearCursor() (nodes.Found, bool) {
	r, err := e.doc.Resolve(e.cursor)
	if err != nil {
		return nodes.Found{}, false
	}
	if nodes.IsMention(r.NodeAfter) {
		return nodes.Found{Node: r.NodeAfter, Pos: e.cursor, Attrs: nodes.AttrsOf(r.NodeAfter)}, true
	}
	if nodes.IsMention(r.NodeBefore) {
		return nodes.Found{Node: r.NodeBefore, Pos: e.cursor - 1, Attrs: nodes.AttrsOf(r.NodeBefore)}, true
	}

	tb, before, err := e.doc.TextblockAt(e.cursor)
	if err != nil {
		return nodes.Found{}, false
	}
	outer, err := e.doc.Resolve(before)
	if err == nil && nodes.IsMention(outer.NodeBefore) {
		pos := before - e.doc.NodeSize(outer.NodeBefore)
		return nodes.Found{Node: outer.NodeBefore, Pos: pos, Attrs: nodes.AttrsOf(outer.NodeBefore)}, true
	}
	after := before + e.doc.NodeSize(tb)
	if n := e.doc.NodeAt(after); nodes.IsMention(n) {
		return nodes.Found{Node: n, Pos: after, Attrs: nodes.AttrsOf(n)}, true
	}
	return nodes.Found{}, false
}

// hitTest resolves a click at a view cell. Text hits move the cursor.
func (e *Editor) hitTest(row, col int) (hit, bool) {
	row += e.scroll
	h, ok := e.layout.hitAt(row, col)
	if !ok {
		pos, ok := e.layout.nearest(row, col)
		if !ok {
			return hit{}, false
		}
		e.SetCursor(pos)
		return hit{row: row, pos: pos, kind: hitText}, true
	}
	if h.kind == hitText {
		e.SetCursor(h.pos)
	}
	return h, true
}

// mentionAt maps a mention hit back to its node through the rendered
// markup, the way a click on the element would.
func (e *Editor) mentionAt(h hit) (nodes.Found, bool) {
	if h.kind != hitMention {
		return nodes.Found{}, false
	}
	_, positions := e.doc.Schema().RenderDOM(e.doc.Root())
	var target *html.Node
	for el, pos := range positions {
		if pos == h.pos && nodes.IsMentionElement(el) {
			target = el
			break
		}
	}
	if target == nil {
		return nodes.Found{}, false
	}
	if target.FirstChild != nil {
		target = target.FirstChild
	}
	return nodes.FindMention(e.doc, positions, target)
}

// ChangeVariant switches the display variant of f.
func (e *Editor) ChangeVariant(f nodes.Found, v nodes.Variant) error {
	if err := nodes.ChangeVariant(e.doc, f, v); err != nil {
		return err
	}
	e.relayout()
	e.cursor = e.snap(e.cursor)
	e.collapse()
	e.relayout()
	return nil
}

// Undo reverts the last transaction.
func (e *Editor) Undo() bool {
	return e.history(e.doc.Undo)
}

// Redo reapplies the last undone transaction.
func (e *Editor) Redo() bool {
	return e.history(e.doc.Redo)
}

func (e *Editor) history(step func() bool) bool {
	if !step() {
		return false
	}
	e.relayout()
	e.cursor = e.snap(e.cursor)
	e.collapse()
	e.relayout()
	return true
}

// View renders the visible rows.
func (e *Editor) View() string {
	lines := e.layout.lines
	end := e.scroll + e.height
	if end > len(lines) {
		end = len(lines)
	}
	start := e.scroll
	if start > end {
		start = end
	}
	return strings.Join(lines[start:end], "\n")
}
