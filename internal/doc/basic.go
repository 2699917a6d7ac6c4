package doc

import (
	"strconv"

	"golang.org/x/net/html"
)

type docType struct{}

func (docType) Spec() Spec { return Spec{Name: "doc", Content: ContentBlocks} }

func (docType) ParseDOM(*html.Node) (Attrs, *html.Node, bool) { return nil, nil, false }

func (docType) ToDOM(*Node) (*html.Node, *html.Node) {
	el := Element("div")
	return el, el
}

// A plain paragraph textblock, <p>.
type paragraphType struct{}

func (paragraphType) Spec() Spec {
	return Spec{Name: "paragraph", Group: GroupBlock, Content: ContentInline}
}

func (paragraphType) ParseDOM(el *html.Node) (Attrs, *html.Node, bool) {
	if !IsElement(el, "p") {
		return nil, nil, false
	}
	return nil, el, true
}

func (paragraphType) ToDOM(*Node) (*html.Node, *html.Node) {
	el := Element("p")
	return el, el
}

// A heading textblock, <h1> to <h6>, with a level attribute.
type headingType struct{}

func (headingType) Spec() Spec {
	return Spec{
		Name:    "heading",
		Group:   GroupBlock,
		Content: ContentInline,
		Attrs:   map[string]any{"level": 1},
	}
}

func (headingType) ParseDOM(el *html.Node) (Attrs, *html.Node, bool) {
	if !IsElement(el, "h1", "h2", "h3", "h4", "h5", "h6") {
		return nil, nil, false
	}
	level, _ := strconv.Atoi(el.Data[1:])
	return Attrs{"level": level}, el, true
}

func (headingType) ToDOM(n *Node) (*html.Node, *html.Node) {
	level := n.Attrs.Int("level")
	if level < 1 || level > 6 {
		level = 1
	}
	el := Element("h" + strconv.Itoa(level))
	return el, el
}

// A blockquote wrapping one or more blocks.
type blockquoteType struct{}

func (blockquoteType) Spec() Spec {
	return Spec{Name: "blockquote", Group: GroupBlock, Content: ContentBlocks}
}

func (blockquoteType) ParseDOM(el *html.Node) (Attrs, *html.Node, bool) {
	if !IsElement(el, "blockquote") {
		return nil, nil, false
	}
	return nil, el, true
}

func (blockquoteType) ToDOM(*Node) (*html.Node, *html.Node) {
	el := Element("blockquote")
	return el, el
}

type textType struct{}

func (textType) Spec() Spec { return Spec{Name: TextType, Group: GroupInline} }

func (textType) ParseDOM(*html.Node) (Attrs, *html.Node, bool) { return nil, nil, false }

func (textType) ToDOM(n *Node) (*html.Node, *html.Node) { return TextNode(n.Text), nil }

// A hard line break, <br>.
type hardBreakType struct{}

func (hardBreakType) Spec() Spec { return Spec{Name: "hard_break", Group: GroupInline} }

func (hardBreakType) ParseDOM(el *html.Node) (Attrs, *html.Node, bool) {
	return nil, nil, IsElement(el, "br")
}

func (hardBreakType) ToDOM(*Node) (*html.Node, *html.Node) { return Element("br"), nil }

// BaseNodes are the built-in node types. Custom types that must win
// parse rules go before them.
func BaseNodes() []NodeType {
	return []NodeType{
		docType{},
		paragraphType{},
		headingType{},
		blockquoteType{},
		hardBreakType{},
		textType{},
	}
}

// simpleMark maps a mark to a fixed tag and a set of parse tags.
type simpleMark struct {
	name  string
	tag   string
	parse []string
}

func (m simpleMark) Name() string { return m.name }

func (m simpleMark) ParseDOM(el *html.Node) (Attrs, bool) {
	return nil, IsElement(el, m.parse...)
}

func (m simpleMark) ToDOM(Mark) *html.Node { return Element(m.tag) }

// A link with an href, opened in a new tab.
type linkMark struct{}

func (linkMark) Name() string { return "link" }

func (linkMark) ParseDOM(el *html.Node) (Attrs, bool) {
	if !IsElement(el, "a") {
		return nil, false
	}
	href, ok := Attr(el, "href")
	if !ok {
		return nil, false
	}
	return Attrs{"href": href}, true
}

func (linkMark) ToDOM(m Mark) *html.Node {
	return Element("a", "href", m.Attrs.String("href"), "target", "_blank", "rel", "noopener noreferrer")
}

// BaseMarks are the built-in marks, outermost first.
func BaseMarks() []MarkType {
	return []MarkType{
		linkMark{},
		simpleMark{name: "bold", tag: "strong", parse: []string{"strong", "b"}},
		simpleMark{name: "italic", tag: "em", parse: []string{"em", "i"}},
		simpleMark{name: "underline", tag: "u", parse: []string{"u"}},
		simpleMark{name: "strike", tag: "s", parse: []string{"s", "del", "strike"}},
	}
}

// BaseSchema builds a schema of the built-in types with extra node types
// registered ahead of them.
func BaseSchema(extra ...NodeType) (*Schema, error) {
	return NewSchema(append(extra, BaseNodes()...), BaseMarks())
}
