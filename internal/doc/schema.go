package doc

import (
	"fmt"

	"golang.org/x/net/html"
)

// Group classifies where a node may appear.
type Group string

const (
	GroupBlock  Group = "block"
	GroupInline Group = "inline"
)

// Content expressions understood by the engine.
const (
	ContentNone   = ""
	ContentInline = "inline*"
	ContentBlocks = "block+"
)

// Spec describes a node type.
type Spec struct {
	Name  string
	Group Group
	// Content is one of the Content* expressions. Empty means leaf.
	Content string
	// Atom nodes are edited as a unit.
	Atom bool
	// Attrs lists the attributes with their defaults.
	Attrs map[string]any
}

// IsLeaf reports whether the node has no content.
func (s Spec) IsLeaf() bool { return s.Content == ContentNone }

// IsTextblock reports whether the node holds inline content.
func (s Spec) IsTextblock() bool { return s.Content == ContentInline }

// AcceptsBlocks reports whether the node holds block children.
func (s Spec) AcceptsBlocks() bool { return s.Content == ContentBlocks }

// NodeType is a node descriptor: its spec plus the markup mapping.
type NodeType interface {
	Spec() Spec
	// ParseDOM matches an element. It returns the attributes and the
	// element whose children hold the node content (nil for leaves).
	ParseDOM(el *html.Node) (attrs Attrs, content *html.Node, ok bool)
	// ToDOM renders n. hole is the element children are rendered into,
	// nil for leaves.
	ToDOM(n *Node) (dom *html.Node, hole *html.Node)
}

// MarkType is a mark descriptor.
type MarkType interface {
	Name() string
	ParseDOM(el *html.Node) (Attrs, bool)
	ToDOM(m Mark) *html.Node
}

// Schema is an ordered registry of node and mark types. Parse rules are
// tried in registration order.
type Schema struct {
	nodes     map[string]NodeType
	nodeOrder []NodeType
	marks     map[string]MarkType
	markOrder []MarkType
	markRank  map[string]int
}

// NewSchema registers the given types. A "doc", "paragraph" and "text"
// type are required.
func NewSchema(nodes []NodeType, marks []MarkType) (*Schema, error) {
	s := &Schema{
		nodes:    make(map[string]NodeType, len(nodes)),
		marks:    make(map[string]MarkType, len(marks)),
		markRank: make(map[string]int, len(marks)),
	}
	for _, nt := range nodes {
		name := nt.Spec().Name
		if _, dup := s.nodes[name]; dup {
			return nil, fmt.Errorf("duplicate node type %q", name)
		}
		s.nodes[name] = nt
		s.nodeOrder = append(s.nodeOrder, nt)
	}
	for i, mt := range marks {
		if _, dup := s.marks[mt.Name()]; dup {
			return nil, fmt.Errorf("duplicate mark type %q", mt.Name())
		}
		s.marks[mt.Name()] = mt
		s.markOrder = append(s.markOrder, mt)
		s.markRank[mt.Name()] = i
	}
	for _, required := range []string{"doc", "paragraph", TextType} {
		if _, ok := s.nodes[required]; !ok {
			return nil, fmt.Errorf("schema is missing node type %q", required)
		}
	}
	return s, nil
}

// NodeType looks a node type up by name.
func (s *Schema) NodeType(name string) (NodeType, bool) {
	nt, ok := s.nodes[name]
	return nt, ok
}

// MarkType looks a mark type up by name.
func (s *Schema) MarkType(name string) (MarkType, bool) {
	mt, ok := s.marks[name]
	return mt, ok
}

func (s *Schema) spec(name string) Spec {
	if nt, ok := s.nodes[name]; ok {
		return nt.Spec()
	}
	return Spec{Name: name}
}

// NewNode builds a node of the named type, filling attribute defaults.
func (s *Schema) NewNode(typeName string, attrs Attrs, content ...*Node) (*Node, error) {
	nt, ok := s.nodes[typeName]
	if !ok {
		return nil, fmt.Errorf("unknown node type %q", typeName)
	}
	spec := nt.Spec()
	if spec.IsLeaf() && len(content) > 0 {
		return nil, fmt.Errorf("node type %q cannot have content", typeName)
	}
	n := &Node{Type: typeName, Attrs: s.fillAttrs(spec, attrs), Content: content}
	return n, nil
}

// Text builds a text node.
func (s *Schema) Text(text string, marks ...Mark) *Node {
	n := &Node{Type: TextType, Text: text}
	if len(marks) > 0 {
		n.Marks = s.sortMarks(marks)
	}
	return n
}

func (s *Schema) fillAttrs(spec Spec, attrs Attrs) Attrs {
	if len(spec.Attrs) == 0 && len(attrs) == 0 {
		return nil
	}
	out := make(Attrs, len(spec.Attrs)+len(attrs))
	for k, v := range spec.Attrs {
		out[k] = v
	}
	for k, v := range attrs {
		if v == nil {
			continue
		}
		out[k] = v
	}
	return out
}

// NodeSize is the number of positions n occupies in its parent: text
// counts its characters, leaves count one and other nodes their content
// plus an opening and a closing token.
func (s *Schema) NodeSize(n *Node) int {
	if n.IsText() {
		return textLen(n.Text)
	}
	if s.spec(n.Type).IsLeaf() {
		return 1
	}
	return s.ContentSize(n) + 2
}

// ContentSize is the size of the content of n.
func (s *Schema) ContentSize(n *Node) int {
	size := 0
	for _, child := range n.Content {
		size += s.NodeSize(child)
	}
	return size
}

// IsInline reports whether n belongs inside a textblock.
func (s *Schema) IsInline(n *Node) bool {
	return n.IsText() || s.spec(n.Type).Group == GroupInline
}

func (s *Schema) sortMarks(marks []Mark) []Mark {
	out := make([]Mark, 0, len(marks))
	for _, m := range marks {
		replaced := false
		for i := range out {
			if out[i].Type == m.Type {
				out[i] = m
				replaced = true
			}
		}
		if !replaced {
			out = append(out, m)
		}
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && s.rank(out[j].Type) < s.rank(out[j-1].Type); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

func (s *Schema) rank(markType string) int {
	if r, ok := s.markRank[markType]; ok {
		return r
	}
	return len(s.markRank)
}
