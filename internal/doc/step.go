package doc

import (
	"errors"
	"fmt"
)

// ErrCrossesNodes is returned when a range does not start and end in the
// same parent node.
var ErrCrossesNodes = errors.New("range crosses node boundaries")

// Step is one change applied inside a transaction. Positions refer to the
// document as left by the previous step.
type Step interface {
	apply(s *Schema, root *Node) error
}

// Delete removes the content between From and To.
type Delete struct {
	From, To int
}

func (d Delete) apply(s *Schema, root *Node) error {
	if d.From > d.To {
		return fmt.Errorf("delete: from %d after to %d", d.From, d.To)
	}
	a, err := resolve(s, root, d.From)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	b, err := resolve(s, root, d.To)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	if d.From == d.To {
		return nil
	}
	if a.Parent != b.Parent {
		return fmt.Errorf("delete %d-%d: %w", d.From, d.To, ErrCrossesNodes)
	}

	before, _ := splitContent(a)
	_, after := splitContent(b)
	a.Parent.Content = append(before, after...)
	return nil
}

// Insert places a node at Pos. Inline nodes dropped between blocks are
// wrapped in a paragraph; a block dropped inside a textblock splits it and
// empty halves are discarded.
type Insert struct {
	Pos  int
	Node *Node
}

func (in Insert) apply(s *Schema, root *Node) error {
	if in.Node == nil {
		return errors.New("insert: nil node")
	}
	r, err := resolve(s, root, in.Pos)
	if err != nil {
		return fmt.Errorf("insert: %w", err)
	}
	node := in.Node.Clone()
	parentSpec := s.spec(r.Parent.Type)
	inline := s.IsInline(node)

	switch {
	case inline && parentSpec.IsTextblock():
		insertChildren(r, node)
	case inline && parentSpec.AcceptsBlocks():
		insertChildren(r, &Node{Type: "paragraph", Content: []*Node{node}})
	case !inline && parentSpec.AcceptsBlocks():
		insertChildren(r, node)
	case !inline && parentSpec.IsTextblock() && r.Depth() > 0:
		return splitAndInsert(s, r, node)
	default:
		return fmt.Errorf("insert: %s cannot hold %s", r.Parent.Type, node.Type)
	}
	return nil
}

// InsertText inserts text with the given marks into a textblock.
type InsertText struct {
	Pos   int
	Text  string
	Marks []Mark
}

func (it InsertText) apply(s *Schema, root *Node) error {
	r, err := resolve(s, root, it.Pos)
	if err != nil {
		return fmt.Errorf("insert text: %w", err)
	}
	if !s.spec(r.Parent.Type).IsTextblock() {
		return fmt.Errorf("insert text: %s is not a textblock", r.Parent.Type)
	}
	if it.Text == "" {
		return nil
	}
	insertChildren(r, s.Text(it.Text, it.Marks...))
	return nil
}

// SetAttrs merges attributes into the node starting at Pos. A nil value
// leaves the attribute untouched.
type SetAttrs struct {
	Pos   int
	Attrs Attrs
}

func (sa SetAttrs) apply(s *Schema, root *Node) error {
	node, err := nodeStartingAt(s, root, sa.Pos)
	if err != nil {
		return fmt.Errorf("set attrs: %w", err)
	}
	if node.Attrs == nil {
		node.Attrs = Attrs{}
	}
	for k, v := range sa.Attrs {
		if v == nil {
			continue
		}
		node.Attrs[k] = v
	}
	return nil
}

// Replace swaps the node starting at Pos for Nodes.
type Replace struct {
	Pos   int
	Nodes []*Node
}

func (rp Replace) apply(s *Schema, root *Node) error {
	r, err := resolve(s, root, rp.Pos)
	if err != nil {
		return fmt.Errorf("replace: %w", err)
	}
	if r.TextOffset > 0 || r.NodeAfter == nil || r.NodeAfter.IsText() {
		return fmt.Errorf("replace: no node at %d", rp.Pos)
	}
	nodes := make([]*Node, len(rp.Nodes))
	for i, n := range rp.Nodes {
		nodes[i] = n.Clone()
	}
	content := make([]*Node, 0, len(r.Parent.Content)-1+len(nodes))
	content = append(content, r.Parent.Content[:r.Index]...)
	content = append(content, nodes...)
	content = append(content, r.Parent.Content[r.Index+1:]...)
	r.Parent.Content = content
	return nil
}

// SetMarks adds Mark to, or removes it from, every text node in
// [From, To). Removing a mark with an empty type clears all marks.
type SetMarks struct {
	From, To int
	Mark     Mark
	Remove   bool
}

func (sm SetMarks) apply(s *Schema, root *Node) error {
	if sm.From > sm.To {
		return fmt.Errorf("set marks: from %d after to %d", sm.From, sm.To)
	}
	if !(sm.Remove && sm.Mark.Type == "") {
		if _, ok := s.marks[sm.Mark.Type]; !ok {
			return fmt.Errorf("set marks: unknown mark %q", sm.Mark.Type)
		}
	}
	if size := s.ContentSize(root); sm.From < 0 || sm.To > size {
		return fmt.Errorf("set marks: range %d-%d out of [0, %d]", sm.From, sm.To, size)
	}
	sm.walk(s, root, 0)
	return nil
}

func (sm SetMarks) walk(s *Schema, parent *Node, start int) {
	pos := start
	out := make([]*Node, 0, len(parent.Content))
	for _, child := range parent.Content {
		size := s.NodeSize(child)
		end := pos + size
		overlaps := end > sm.From && pos < sm.To
		switch {
		case child.IsText() && overlaps:
			from, to := max(sm.From, pos)-pos, min(sm.To, end)-pos
			if from > 0 {
				out = append(out, sliceText(child, 0, from))
			}
			mid := sliceText(child, from, to)
			mid.Marks = sm.update(s, mid.Marks)
			out = append(out, mid)
			if to < size {
				out = append(out, sliceText(child, to, size))
			}
		default:
			if overlaps && len(child.Content) > 0 {
				sm.walk(s, child, pos+1)
			}
			out = append(out, child)
		}
		pos = end
	}
	parent.Content = out
}

func (sm SetMarks) update(s *Schema, marks []Mark) []Mark {
	if sm.Remove {
		if sm.Mark.Type == "" {
			return nil
		}
		var out []Mark
		for _, m := range marks {
			if m.Type != sm.Mark.Type {
				out = append(out, m)
			}
		}
		return out
	}
	return s.sortMarks(append(append([]Mark(nil), marks...), sm.Mark))
}

// splitContent cuts the content of r.Parent at r.
func splitContent(r ResolvedPos) (before, after []*Node) {
	content := r.Parent.Content
	before = append(before, content[:r.Index]...)
	if r.TextOffset > 0 {
		before = append(before, r.NodeBefore)
		after = append(after, r.NodeAfter)
		after = append(after, content[r.Index+1:]...)
		return before, after
	}
	after = append(after, content[r.Index:]...)
	return before, after
}

func insertChildren(r ResolvedPos, nodes ...*Node) {
	before, after := splitContent(r)
	r.Parent.Content = append(append(before, nodes...), after...)
}

func splitAndInsert(s *Schema, r ResolvedPos, node *Node) error {
	f := r.path[len(r.path)-1]
	grand := f.node
	if !s.spec(grand.Type).AcceptsBlocks() {
		return fmt.Errorf("insert: %s cannot hold %s", grand.Type, node.Type)
	}
	before, after := splitContent(r)
	var replacement []*Node
	if len(before) > 0 {
		left := r.Parent.Clone()
		left.Content = before
		replacement = append(replacement, left)
	}
	replacement = append(replacement, node)
	if len(after) > 0 {
		right := r.Parent.Clone()
		right.Content = after
		replacement = append(replacement, right)
	}

	content := make([]*Node, 0, len(grand.Content)+2)
	content = append(content, grand.Content[:f.index]...)
	content = append(content, replacement...)
	content = append(content, grand.Content[f.index+1:]...)
	grand.Content = content
	return nil
}

func nodeStartingAt(s *Schema, root *Node, pos int) (*Node, error) {
	r, err := resolve(s, root, pos)
	if err != nil {
		return nil, err
	}
	if r.TextOffset > 0 || r.NodeAfter == nil || r.NodeAfter.IsText() {
		return nil, fmt.Errorf("no node at %d", pos)
	}
	return r.NodeAfter, nil
}

// normalize merges adjacent text with equal marks, drops empty text and
// fills empty block containers with a paragraph.
func normalize(s *Schema, n *Node) {
	if n.IsText() {
		return
	}
	var out []*Node
	for _, child := range n.Content {
		if child.IsText() {
			if child.Text == "" {
				continue
			}
			if last := len(out) - 1; last >= 0 && out[last].IsText() && sameMarks(out[last].Marks, child.Marks) {
				merged := out[last].Clone()
				merged.Text += child.Text
				out[last] = merged
				continue
			}
		} else {
			normalize(s, child)
		}
		out = append(out, child)
	}
	if len(out) == 0 && s.spec(n.Type).AcceptsBlocks() {
		out = []*Node{{Type: "paragraph"}}
	}
	n.Content = out
}

// check validates n against the schema.
func check(s *Schema, n *Node) error {
	if n.IsText() {
		if len(n.Content) > 0 {
			return errors.New("text node with content")
		}
		for _, m := range n.Marks {
			if _, ok := s.marks[m.Type]; !ok {
				return fmt.Errorf("unknown mark %q", m.Type)
			}
		}
		return nil
	}
	nt, ok := s.nodes[n.Type]
	if !ok {
		return fmt.Errorf("unknown node type %q", n.Type)
	}
	spec := nt.Spec()
	for _, child := range n.Content {
		inline := s.IsInline(child)
		switch {
		case spec.IsLeaf():
			return fmt.Errorf("%s cannot have content", n.Type)
		case spec.IsTextblock() && !inline:
			return fmt.Errorf("%s cannot hold block %s", n.Type, child.Type)
		case spec.AcceptsBlocks() && inline:
			return fmt.Errorf("%s cannot hold inline %s", n.Type, child.Type)
		}
		if err := check(s, child); err != nil {
			return err
		}
	}
	if spec.AcceptsBlocks() && len(n.Content) == 0 {
		return fmt.Errorf("%s needs at least one block", n.Type)
	}
	return nil
}
