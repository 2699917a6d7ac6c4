// Package nodes holds the custom node types of the editor: mentions in
// three display variants and callout blocks.
package nodes

import (
	"fmt"

	"golang.org/x/net/html"

	"github.com/gravitrone/richtext/internal/doc"
	"github.com/gravitrone/richtext/internal/mention"
)

// Node type names.
const (
	MentionName         = "mention"
	MentionPillName     = "mentionPill"
	MentionMegaPillName = "mentionMegaPill"
)

// Variant is how a mention is displayed.
type Variant string

const (
	VariantInline   Variant = "inline"
	VariantPill     Variant = "pill"
	VariantMegaPill Variant = "mega-pill"
)

// Variants lists every variant in menu order.
var Variants = []Variant{VariantInline, VariantPill, VariantMegaPill}

// ParseVariant validates a variant name.
func ParseVariant(s string) (Variant, error) {
	for _, v := range Variants {
		if string(v) == s {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown mention variant %q", s)
}

// NodeType is the node type name carrying the variant.
func (v Variant) NodeType() string {
	switch v {
	case VariantPill:
		return MentionPillName
	case VariantMegaPill:
		return MentionMegaPillName
	default:
		return MentionName
	}
}

// VariantOf maps a node type name back to its variant.
func VariantOf(nodeType string) (Variant, bool) {
	switch nodeType {
	case MentionName:
		return VariantInline, true
	case MentionPillName:
		return VariantPill, true
	case MentionMegaPillName:
		return VariantMegaPill, true
	}
	return "", false
}

// IsMention reports whether n is a mention of any variant.
func IsMention(n *doc.Node) bool {
	if n == nil {
		return false
	}
	_, ok := VariantOf(n.Type)
	return ok
}

// MentionAttrs is the identity and display state of a mention node.
type MentionAttrs struct {
	Type    string  `json:"type"`
	URL     string  `json:"url"`
	Label   string  `json:"label"`
	ID      string  `json:"id"`
	Variant Variant `json:"variant"`
}

// FromEntity builds inline mention attributes for a picked entity.
func FromEntity(e mention.Entity) MentionAttrs {
	return MentionAttrs{
		Type:    string(e.Type),
		URL:     e.URL,
		Label:   e.Label,
		ID:      e.ID,
		Variant: VariantInline,
	}
}

// AttrsOf reads the mention attributes of n.
func AttrsOf(n *doc.Node) MentionAttrs {
	a := MentionAttrs{
		Type:  n.Attrs.String("type"),
		URL:   n.Attrs.String("url"),
		Label: n.Attrs.String("label"),
		ID:    n.Attrs.String("id"),
	}
	if v, ok := VariantOf(n.Type); ok {
		a.Variant = v
	}
	return a
}

// SameTarget reports whether both mentions point at the same record.
func (a MentionAttrs) SameTarget(other MentionAttrs) bool {
	return a.Type == other.Type && a.ID == other.ID && a.URL == other.URL && a.Label == other.Label
}

// Text is what the mention shows: its label, or its id when unlabeled.
func (a MentionAttrs) Text() string {
	if a.Label != "" {
		return a.Label
	}
	return a.ID
}

func (a MentionAttrs) docAttrs() doc.Attrs {
	v := a.Variant
	if v == "" {
		v = VariantInline
	}
	return doc.Attrs{"type": a.Type, "url": a.URL, "label": a.Label, "id": a.ID, "variant": string(v)}
}

// Node builds the mention node of the attrs variant.
func (a MentionAttrs) Node() *doc.Node {
	v := a.Variant
	if v == "" {
		v = VariantInline
	}
	a.Variant = v
	return &doc.Node{Type: v.NodeType(), Attrs: a.docAttrs()}
}

// mentionType is the node descriptor of one variant.
type mentionType struct {
	variant Variant
}

func (t mentionType) Spec() doc.Spec {
	group := doc.GroupBlock
	if t.variant == VariantInline {
		group = doc.GroupInline
	}
	return doc.Spec{
		Name:  t.variant.NodeType(),
		Group: group,
		Atom:  true,
		Attrs: map[string]any{"type": "", "url": "", "label": "", "id": "", "variant": string(t.variant)},
	}
}

func (t mentionType) ParseDOM(el *html.Node) (doc.Attrs, *html.Node, bool) {
	switch t.variant {
	case VariantPill:
		if _, ok := doc.Attr(el, "data-mention-pill"); !ok || !doc.IsElement(el, "div") {
			return nil, nil, false
		}
	case VariantMegaPill:
		if _, ok := doc.Attr(el, "data-mention-mega-pill"); !ok || !doc.IsElement(el, "div") {
			return nil, nil, false
		}
	default:
		if !isInlineMarkup(el) {
			return nil, nil, false
		}
	}
	return readMarkupAttrs(el, t.variant), nil, true
}

func isInlineMarkup(el *html.Node) bool {
	if _, ok := doc.Attr(el, "data-mention-pill"); ok {
		return false
	}
	if _, ok := doc.Attr(el, "data-mention-mega-pill"); ok {
		return false
	}
	if doc.IsElement(el, "a") {
		_, ok := doc.Attr(el, "data-mention-type")
		return ok || doc.HasClass(el, "mention")
	}
	// markup written by the stock mention extension
	return doc.IsElement(el, "span") && doc.AttrOr(el, "data-type", "") == "mention"
}

func readMarkupAttrs(el *html.Node, variant Variant) doc.Attrs {
	attrs := doc.Attrs{
		"type":    doc.AttrOr(el, "data-mention-type", ""),
		"url":     doc.AttrOr(el, "data-mention-url", doc.AttrOr(el, "href", "")),
		"label":   doc.AttrOr(el, "data-mention-label", doc.AttrOr(el, "data-label", "")),
		"id":      doc.AttrOr(el, "data-mention-id", doc.AttrOr(el, "data-id", "")),
		"variant": string(variant),
	}
	return attrs
}

func (t mentionType) ToDOM(n *doc.Node) (*html.Node, *html.Node) {
	a := AttrsOf(n)
	var el *html.Node
	switch t.variant {
	case VariantPill:
		el = doc.Element("div",
			"data-mention-pill", "",
			"data-mention-type", a.Type,
			"data-mention-id", a.ID,
			"data-mention-label", a.Label,
			"data-mention-url", a.URL,
			"data-mention-variant", string(VariantPill),
			"class", "mention-pill mention-"+a.Type,
			"style", "display: inline-block; padding: 0.5rem 1rem; border-radius: 9999px; margin: 0.25rem 0;",
		)
	case VariantMegaPill:
		el = doc.Element("div",
			"data-mention-mega-pill", "",
			"data-mention-type", a.Type,
			"data-mention-id", a.ID,
			"data-mention-label", a.Label,
			"data-mention-url", a.URL,
			"data-mention-variant", string(VariantMegaPill),
			"class", "mention-mega-pill mention-"+a.Type,
			"style", "display: block; padding: 1rem 1.5rem; border-radius: 0.5rem; margin: 0.5rem 0; font-size: 1.125rem;",
		)
	default:
		el = doc.Element("a",
			"href", a.URL,
			"class", "mention mention-"+a.Type,
			"data-mention-type", a.Type,
			"data-mention-id", a.ID,
			"data-mention-label", a.Label,
			"data-mention-url", a.URL,
			"data-mention-variant", string(VariantInline),
			"target", "_blank",
		)
	}
	el.AppendChild(doc.TextNode(a.Text()))
	return el, nil
}

// LeafText is the plain text form of a mention.
func (t mentionType) LeafText(n *doc.Node) string {
	return "@" + AttrsOf(n).Text()
}

// IsMentionElement matches rendered mention markup of any variant.
func IsMentionElement(el *html.Node) bool {
	if _, ok := doc.Attr(el, "data-mention-pill"); ok {
		return true
	}
	if _, ok := doc.Attr(el, "data-mention-mega-pill"); ok {
		return true
	}
	return isInlineMarkup(el)
}
