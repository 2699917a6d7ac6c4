// Package doc is a small document engine: a typed node tree with
// ProseMirror-style positions, atomic transactions with undo, an HTML
// codec and the formatting commands the editor toolbar drives.
package doc

import (
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"
)

// TextType is the node type name of text leaves.
const TextType = "text"

// Attrs holds node or mark attributes.
type Attrs map[string]any

// String returns the attribute as a string, or "" when absent.
func (a Attrs) String(key string) string {
	switch v := a[key].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// Int returns the attribute as an int, or 0 when absent or not numeric.
func (a Attrs) Int(key string) int {
	switch v := a[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	case string:
		var n int
		_, _ = fmt.Sscanf(v, "%d", &n)
		return n
	default:
		return 0
	}
}

// Clone returns a shallow copy.
func (a Attrs) Clone() Attrs {
	if a == nil {
		return nil
	}
	out := make(Attrs, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Mark is inline formatting applied to a text node.
type Mark struct {
	Type  string `json:"type"`
	Attrs Attrs  `json:"attrs,omitempty"`
}

// Eq reports whether two marks are identical.
func (m Mark) Eq(other Mark) bool {
	if m.Type != other.Type {
		return false
	}
	if len(m.Attrs) == 0 && len(other.Attrs) == 0 {
		return true
	}
	return reflect.DeepEqual(m.Attrs, other.Attrs)
}

// Node is one element of the document tree. The JSON shape is the
// document interchange format.
type Node struct {
	Type    string  `json:"type"`
	Attrs   Attrs   `json:"attrs,omitempty"`
	Content []*Node `json:"content,omitempty"`
	Text    string  `json:"text,omitempty"`
	Marks   []Mark  `json:"marks,omitempty"`
}

// IsText reports whether n is a text leaf.
func (n *Node) IsText() bool {
	return n != nil && n.Type == TextType
}

// Clone deep-copies the subtree.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := &Node{
		Type:  n.Type,
		Attrs: n.Attrs.Clone(),
		Text:  n.Text,
	}
	if len(n.Marks) > 0 {
		out.Marks = make([]Mark, len(n.Marks))
		for i, m := range n.Marks {
			out.Marks[i] = Mark{Type: m.Type, Attrs: m.Attrs.Clone()}
		}
	}
	if len(n.Content) > 0 {
		out.Content = make([]*Node, len(n.Content))
		for i, child := range n.Content {
			out.Content[i] = child.Clone()
		}
	}
	return out
}

// HasMark reports whether a mark of the given type is set.
func (n *Node) HasMark(markType string) bool {
	for _, m := range n.Marks {
		if m.Type == markType {
			return true
		}
	}
	return false
}

// TextContent concatenates all text below n.
func (n *Node) TextContent() string {
	if n.IsText() {
		return n.Text
	}
	var b strings.Builder
	for _, child := range n.Content {
		b.WriteString(child.TextContent())
	}
	return b.String()
}

// Descendants walks the subtree in document order. Returning false from fn
// skips the children of that node.
func (n *Node) Descendants(fn func(node *Node) bool) {
	for _, child := range n.Content {
		if fn(child) {
			child.Descendants(fn)
		}
	}
}

// CollectAttrs returns a copy of the attrs of every descendant whose type
// is one of typeNames, in document order.
func CollectAttrs(root *Node, typeNames ...string) []Attrs {
	want := make(map[string]struct{}, len(typeNames))
	for _, name := range typeNames {
		want[name] = struct{}{}
	}
	var out []Attrs
	root.Descendants(func(node *Node) bool {
		if _, ok := want[node.Type]; ok {
			out = append(out, node.Attrs.Clone())
		}
		return true
	})
	return out
}

func textLen(s string) int {
	return utf8.RuneCountInString(s)
}

// sliceText cuts a text node by rune offsets.
func sliceText(n *Node, from, to int) *Node {
	runes := []rune(n.Text)
	if to > len(runes) {
		to = len(runes)
	}
	out := n.Clone()
	out.Text = string(runes[from:to])
	return out
}

func sameMarks(a, b []Mark) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Eq(b[i]) {
			return false
		}
	}
	return true
}
