package doc

import (
	"errors"
	"fmt"
)

// ErrNoTextblock is returned when a command needs a textblock at a
// position that has none.
var ErrNoTextblock = errors.New("no textblock at position")

// TextblockAt returns the textblock holding pos and the position right
// before it. A position between blocks picks the block after it.
func (d *Document) TextblockAt(pos int) (*Node, int, error) {
	r, err := d.Resolve(pos)
	if err != nil {
		return nil, 0, err
	}
	if d.schema.spec(r.Parent.Type).IsTextblock() {
		return r.Parent, r.Before(), nil
	}
	if r.NodeAfter != nil && d.schema.spec(r.NodeAfter.Type).IsTextblock() {
		return r.NodeAfter, pos, nil
	}
	return nil, 0, fmt.Errorf("%w %d", ErrNoTextblock, pos)
}

// MarksAt returns the marks typing at pos would inherit.
func (d *Document) MarksAt(pos int) []Mark {
	r, err := d.Resolve(pos)
	if err != nil {
		return nil
	}
	switch {
	case r.NodeBefore != nil && r.NodeBefore.IsText():
		return r.NodeBefore.Marks
	case r.NodeBefore == nil && r.NodeAfter != nil && r.NodeAfter.IsText():
		return r.NodeAfter.Marks
	}
	return nil
}

// IsMarkActive reports whether every text in [from, to) carries the mark.
// An empty range looks at the marks at from.
func (d *Document) IsMarkActive(from, to int, markType string) bool {
	if from == to {
		for _, m := range d.MarksAt(from) {
			if m.Type == markType {
				return true
			}
		}
		return false
	}
	seen, all := false, true
	d.NodesBetween(from, to, func(n *Node, _ int) bool {
		if n.IsText() {
			seen = true
			all = all && n.HasMark(markType)
		}
		return all
	})
	return seen && all
}

// IsActive reports whether name, a mark or node type, is active over
// [from, to). For node types this means an ancestor of from has the type.
func (d *Document) IsActive(name string, from, to int) bool {
	if _, ok := d.schema.marks[name]; ok {
		return d.IsMarkActive(from, to, name)
	}
	r, err := d.Resolve(from)
	if err != nil {
		return false
	}
	for depth := r.Depth(); depth > 0; depth-- {
		if n, _ := r.Ancestor(depth); n.Type == name {
			return true
		}
	}
	if tb, _, err := d.TextblockAt(from); err == nil && tb.Type == name {
		return true
	}
	return false
}

// ToggleMark removes the mark from [from, to) when the whole range has it,
// else adds it. An empty range is a no-op.
func (d *Document) ToggleMark(from, to int, markType string, attrs Attrs) error {
	if from == to {
		return nil
	}
	mark := Mark{Type: markType, Attrs: attrs}
	return d.Apply(SetMarks{From: from, To: to, Mark: mark, Remove: d.IsMarkActive(from, to, markType)})
}

// MarkRange extends pos to the run of text sharing a mark of markType.
func (d *Document) MarkRange(pos int, markType string) (int, int, bool) {
	tb, before, err := d.TextblockAt(pos)
	if err != nil {
		return 0, 0, false
	}
	start := before + 1
	from, to, found := -1, -1, false
	offset := start
	for _, child := range tb.Content {
		size := d.schema.NodeSize(child)
		if child.IsText() && child.HasMark(markType) {
			if from < 0 {
				from = offset
			}
			to = offset + size
			if pos >= from && pos <= to {
				found = true
			}
		} else {
			if found {
				break
			}
			from, to = -1, -1
		}
		offset += size
	}
	if !found {
		return 0, 0, false
	}
	return from, to, true
}

// SetLink puts a link on [from, to). An empty range extends to the link
// around from. An empty href removes the link.
func (d *Document) SetLink(from, to int, href string) error {
	if from == to {
		if f, t, ok := d.MarkRange(from, "link"); ok {
			from, to = f, t
		}
	}
	if from == to {
		return nil
	}
	unset := SetMarks{From: from, To: to, Mark: Mark{Type: "link"}, Remove: true}
	if href == "" {
		return d.Apply(unset)
	}
	return d.Apply(unset, SetMarks{From: from, To: to, Mark: Mark{Type: "link", Attrs: Attrs{"href": href}}})
}

// ActiveHeading returns the heading level at pos, 0 for anything else.
func (d *Document) ActiveHeading(pos int) int {
	tb, _, err := d.TextblockAt(pos)
	if err != nil || tb.Type != "heading" {
		return 0
	}
	return tb.Attrs.Int("level")
}

// SetHeading turns the textblock at pos into a heading of level. Level 0,
// or the level it already has, turns it back into a paragraph.
func (d *Document) SetHeading(pos, level int) error {
	if level < 0 || level > 6 {
		return fmt.Errorf("heading level %d out of range", level)
	}
	tb, before, err := d.TextblockAt(pos)
	if err != nil {
		return err
	}
	next := &Node{Type: "paragraph", Content: tb.Content}
	if level > 0 && d.ActiveHeading(pos) != level {
		next = &Node{Type: "heading", Attrs: Attrs{"level": level}, Content: tb.Content}
	}
	return d.Apply(Replace{Pos: before, Nodes: []*Node{next}})
}

// ToggleBlockquote wraps the textblock at pos in a blockquote, or lifts
// the content of the blockquote it already sits in.
func (d *Document) ToggleBlockquote(pos int) error {
	tb, before, err := d.TextblockAt(pos)
	if err != nil {
		return err
	}
	r, err := d.Resolve(before)
	if err != nil {
		return err
	}
	if r.Parent.Type == "blockquote" {
		return d.Apply(Replace{Pos: r.Before(), Nodes: r.Parent.Content})
	}
	quote := &Node{Type: "blockquote", Content: []*Node{tb}}
	return d.Apply(Replace{Pos: before, Nodes: []*Node{quote}})
}

// ClearFormatting drops every mark in [from, to) and turns headings
// there into paragraphs.
func (d *Document) ClearFormatting(from, to int) error {
	var steps []Step
	visit := func(n *Node, pos int) bool {
		if n.Type == "heading" {
			steps = append(steps, Replace{Pos: pos, Nodes: []*Node{{Type: "paragraph", Content: n.Content}}})
		}
		return !n.IsText()
	}
	if from == to {
		if tb, before, err := d.TextblockAt(from); err == nil {
			visit(tb, before)
		}
	} else {
		d.NodesBetween(from, to, visit)
	}
	steps = append(steps, SetMarks{From: from, To: to, Remove: true})
	return d.Apply(steps...)
}

// SplitBlock cuts the textblock at pos in two. Splitting at the very end
// of a heading starts a paragraph.
func (d *Document) SplitBlock(pos int) error {
	r, err := d.Resolve(pos)
	if err != nil {
		return err
	}
	if !d.schema.spec(r.Parent.Type).IsTextblock() {
		return fmt.Errorf("%w %d", ErrNoTextblock, pos)
	}
	_, after := splitContent(r)
	next := &Node{Type: r.Parent.Type, Attrs: r.Parent.Attrs.Clone()}
	for _, n := range after {
		next.Content = append(next.Content, n.Clone())
	}
	if len(next.Content) == 0 && next.Type == "heading" {
		next = &Node{Type: "paragraph"}
	}

	end := r.Start + d.schema.ContentSize(r.Parent)
	return d.Apply(Delete{From: pos, To: end}, Insert{Pos: pos + 1, Node: next})
}

// JoinBackward handles a backspace at the start of the textblock at pos:
// a textblock before it absorbs its content, a leaf block before it is
// deleted. It returns where the cursor lands.
func (d *Document) JoinBackward(pos int) (int, error) {
	tb, before, err := d.TextblockAt(pos)
	if err != nil {
		return pos, err
	}
	if pos != before+1 {
		return pos, nil
	}
	r, err := d.Resolve(before)
	if err != nil {
		return pos, err
	}
	prev := r.NodeBefore
	if prev == nil {
		return pos, nil
	}
	prevSize := d.schema.NodeSize(prev)
	switch spec := d.schema.spec(prev.Type); {
	case spec.IsTextblock():
		return before - 1, d.join(before-prevSize, prev, tb)
	case spec.IsLeaf():
		return pos - prevSize, d.Apply(Delete{From: before - prevSize, To: before})
	}
	return pos, nil
}

// JoinForward handles a delete at the end of the textblock at pos, the
// mirror of JoinBackward. The cursor stays put.
func (d *Document) JoinForward(pos int) error {
	tb, before, err := d.TextblockAt(pos)
	if err != nil {
		return err
	}
	after := before + d.schema.NodeSize(tb)
	if pos != after-1 {
		return nil
	}
	r, err := d.Resolve(after)
	if err != nil {
		return err
	}
	next := r.NodeAfter
	if next == nil {
		return nil
	}
	switch spec := d.schema.spec(next.Type); {
	case spec.IsTextblock():
		return d.join(before, tb, next)
	case spec.IsLeaf():
		return d.Apply(Delete{From: after, To: after + d.schema.NodeSize(next)})
	}
	return nil
}

// join merges the textblock second, which directly follows first at
// firstPos, into first.
func (d *Document) join(firstPos int, first, second *Node) error {
	merged := first.Clone()
	for _, n := range second.Content {
		merged.Content = append(merged.Content, n.Clone())
	}
	secondPos := firstPos + d.schema.NodeSize(merged)
	return d.Apply(
		Replace{Pos: firstPos, Nodes: []*Node{merged}},
		Delete{From: secondPos, To: secondPos + d.schema.NodeSize(second)},
	)
}
