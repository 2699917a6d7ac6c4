package doc

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DOMMap maps rendered DOM nodes to the position right before the document
// node they were rendered from.
type DOMMap map[*html.Node]int

// PosOf walks from n up to the nearest mapped ancestor.
func (m DOMMap) PosOf(n *html.Node) (int, bool) {
	for ; n != nil; n = n.Parent {
		if pos, ok := m[n]; ok {
			return pos, true
		}
	}
	return 0, false
}

// RenderDOM renders the content of root into a container element and
// records where every rendered node came from.
func (s *Schema) RenderDOM(root *Node) (*html.Node, DOMMap) {
	container := Element("div")
	positions := make(DOMMap)
	s.renderContent(root, container, 0, positions)
	return container, positions
}

// RenderHTML renders the content of root as markup.
func (s *Schema) RenderHTML(root *Node) string {
	container, _ := s.RenderDOM(root)
	var b bytes.Buffer
	for c := container.FirstChild; c != nil; c = c.NextSibling {
		// Rendering into a buffer cannot fail.
		_ = html.Render(&b, c)
	}
	return b.String()
}

func (s *Schema) renderContent(parent *Node, hole *html.Node, start int, positions DOMMap) {
	pos := start
	for _, child := range parent.Content {
		switch {
		case child.IsText():
			hole.AppendChild(s.renderText(child, pos, positions))
		default:
			nt, ok := s.nodes[child.Type]
			if !ok {
				break
			}
			dom, inner := nt.ToDOM(child)
			positions[dom] = pos
			if inner != nil {
				s.renderContent(child, inner, pos+1, positions)
			}
			hole.AppendChild(dom)
		}
		pos += s.NodeSize(child)
	}
}

func (s *Schema) renderText(n *Node, pos int, positions DOMMap) *html.Node {
	text := TextNode(n.Text)
	positions[text] = pos
	var outer, inner *html.Node
	for _, m := range n.Marks {
		mt, ok := s.marks[m.Type]
		if !ok {
			continue
		}
		el := mt.ToDOM(m)
		positions[el] = pos
		if outer == nil {
			outer = el
		} else {
			inner.AppendChild(el)
		}
		inner = el
	}
	if outer == nil {
		return text
	}
	inner.AppendChild(text)
	return outer
}

// ParseHTML parses markup into a "doc" node. Unknown wrappers are looked
// through, stray inline content is wrapped in paragraphs and whitespace is
// collapsed.
func (s *Schema) ParseHTML(markup string) (*Node, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(markup), body)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	wrapper := Element("div")
	for _, n := range nodes {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
		wrapper.AppendChild(n)
	}

	p := parser{schema: s}
	root := &Node{Type: "doc", Content: p.fit(s.spec("doc"), p.children(wrapper, nil))}
	normalize(s, root)
	return root, nil
}

type parser struct {
	schema *Schema
}

func (p parser) children(el *html.Node, marks []Mark) []*Node {
	var out []*Node
	for c := el.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, p.node(c, marks)...)
	}
	return out
}

func (p parser) node(n *html.Node, marks []Mark) []*Node {
	switch n.Type {
	case html.TextNode:
		text := collapseSpace(n.Data)
		if text == "" {
			return nil
		}
		return []*Node{p.schema.Text(text, marks...)}
	case html.ElementNode:
	default:
		return nil
	}
	if IsElement(n, "script", "style", "template") {
		return nil
	}

	for _, nt := range p.schema.nodeOrder {
		attrs, content, ok := nt.ParseDOM(n)
		if !ok {
			continue
		}
		spec := nt.Spec()
		node := &Node{Type: spec.Name, Attrs: p.schema.fillAttrs(spec, attrs)}
		if !spec.IsLeaf() && content != nil {
			node.Content = p.fit(spec, p.children(content, nil))
		}
		return []*Node{node}
	}

	for _, mt := range p.schema.markOrder {
		attrs, ok := mt.ParseDOM(n)
		if !ok {
			continue
		}
		next := append(append([]Mark(nil), marks...), Mark{Type: mt.Name(), Attrs: attrs})
		return p.children(n, p.schema.sortMarks(next))
	}
	return p.children(n, marks)
}

// fit shapes parsed children to what spec may hold.
func (p parser) fit(spec Spec, nodes []*Node) []*Node {
	switch {
	case spec.IsTextblock():
		var out []*Node
		for _, n := range nodes {
			if p.schema.IsInline(n) {
				out = append(out, n)
				continue
			}
			out = append(out, p.inlineOf(n)...)
		}
		return trimEdges(out)
	case spec.AcceptsBlocks():
		var out, run []*Node
		flush := func() {
			if run = trimEdges(run); len(run) > 0 {
				out = append(out, &Node{Type: "paragraph", Content: run})
			}
			run = nil
		}
		for _, n := range nodes {
			if p.schema.IsInline(n) {
				run = append(run, n)
				continue
			}
			flush()
			out = append(out, n)
		}
		flush()
		return out
	}
	return nil
}

func (p parser) inlineOf(n *Node) []*Node {
	if p.schema.IsInline(n) {
		return []*Node{n}
	}
	var out []*Node
	for _, child := range n.Content {
		out = append(out, p.inlineOf(child)...)
	}
	return out
}

func trimEdges(nodes []*Node) []*Node {
	if len(nodes) > 0 && nodes[0].IsText() {
		nodes[0].Text = strings.TrimLeft(nodes[0].Text, " ")
	}
	if last := len(nodes) - 1; last >= 0 && nodes[last].IsText() {
		nodes[last].Text = strings.TrimRight(nodes[last].Text, " ")
	}
	out := nodes[:0]
	for _, n := range nodes {
		if n.IsText() && n.Text == "" {
			continue
		}
		out = append(out, n)
	}
	return out
}

func collapseSpace(s string) string {
	var b strings.Builder
	space := false
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r', '\f':
			if !space {
				b.WriteByte(' ')
			}
			space = true
		default:
			b.WriteRune(r)
			space = false
		}
	}
	return b.String()
}
