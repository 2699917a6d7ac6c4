package doc

import "fmt"

// frame is one ancestor on the path to a resolved position.
type frame struct {
	node  *Node
	index int // child of node that contains the position
	start int // position where node content starts
}

// ResolvedPos locates a position in a tree.
type ResolvedPos struct {
	Pos int
	// Parent is the innermost node whose content holds Pos.
	Parent *Node
	// Start is the position where Parent content starts.
	Start int
	// Index is the child of Parent at or after Pos.
	Index int
	// TextOffset is the offset into Parent.Content[Index] when Pos falls
	// inside a text node, else 0.
	TextOffset int
	NodeBefore *Node
	NodeAfter  *Node

	path []frame
}

// Depth is the number of ancestors above Parent.
func (r ResolvedPos) Depth() int { return len(r.path) }

// Before returns the position right before Parent, -1 for the root.
func (r ResolvedPos) Before() int {
	if len(r.path) == 0 {
		return -1
	}
	return r.Start - 1
}

// Ancestor returns the ancestor at depth d (0 is the root) and the
// position where its content starts. Ancestor(Depth()) is Parent. Depths
// outside [0, Depth()] give nil and -1.
func (r ResolvedPos) Ancestor(d int) (*Node, int) {
	if d < 0 || d > len(r.path) {
		return nil, -1
	}
	if d == len(r.path) {
		return r.Parent, r.Start
	}
	f := r.path[d]
	return f.node, f.start
}

func resolve(s *Schema, root *Node, pos int) (ResolvedPos, error) {
	if size := s.ContentSize(root); pos < 0 || pos > size {
		return ResolvedPos{}, fmt.Errorf("position %d out of range [0, %d]", pos, size)
	}

	var path []frame
	parent, start := root, 0
descend:
	for {
		offset := start
		for i, child := range parent.Content {
			size := s.NodeSize(child)
			if pos == offset {
				return finishResolve(s, pos, parent, start, i, 0, path), nil
			}
			if pos < offset+size {
				if child.IsText() {
					return finishResolve(s, pos, parent, start, i, pos-offset, path), nil
				}
				path = append(path, frame{node: parent, index: i, start: start})
				parent, start = child, offset+1
				continue descend
			}
			offset += size
		}
		return finishResolve(s, pos, parent, start, len(parent.Content), 0, path), nil
	}
}

func finishResolve(s *Schema, pos int, parent *Node, start, index, textOffset int, path []frame) ResolvedPos {
	r := ResolvedPos{
		Pos:        pos,
		Parent:     parent,
		Start:      start,
		Index:      index,
		TextOffset: textOffset,
		path:       path,
	}
	if textOffset > 0 {
		child := parent.Content[index]
		r.NodeBefore = sliceText(child, 0, textOffset)
		r.NodeAfter = sliceText(child, textOffset, textLen(child.Text))
		return r
	}
	if index < len(parent.Content) {
		r.NodeAfter = parent.Content[index]
	}
	if index > 0 {
		r.NodeBefore = parent.Content[index-1]
	}
	return r
}

// nodesBetween calls fn for every node overlapping [from, to), with the
// position right before it. Returning false skips the node's children.
func nodesBetween(s *Schema, parent *Node, from, to, start int, fn func(n *Node, pos int) bool) {
	pos := start
	for _, child := range parent.Content {
		if pos >= to {
			break
		}
		end := pos + s.NodeSize(child)
		if end > from {
			if fn(child, pos) && len(child.Content) > 0 {
				nodesBetween(s, child, from, to, pos+1, fn)
			}
		}
		pos = end
	}
}

// Range is a span of positions.
type Range struct {
	From, To int
}

// Empty reports whether the range covers nothing.
func (r Range) Empty() bool { return r.From >= r.To }
