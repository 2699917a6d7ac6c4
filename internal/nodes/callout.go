package nodes

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/gravitrone/richtext/internal/doc"
)

// CalloutName is the node type name of callout blocks.
const CalloutName = "callout"

// Callout defaults.
const (
	DefaultCalloutBackground = "#f3f4f6"
	DefaultCalloutText       = "#1f2937"
	DefaultCalloutEmoji      = "💡"
)

// ColorPreset is a named background and text colour pair.
type ColorPreset struct {
	Name       string
	Background string
	Text       string
}

// ColorPresets are offered by the callout editor.
var ColorPresets = []ColorPreset{
	{Name: "Gray", Background: "#f3f4f6", Text: "#1f2937"},
	{Name: "Blue", Background: "#dbeafe", Text: "#1e40af"},
	{Name: "Green", Background: "#dcfce7", Text: "#166534"},
	{Name: "Yellow", Background: "#fef3c7", Text: "#92400e"},
	{Name: "Red", Background: "#fee2e2", Text: "#991b1b"},
	{Name: "Purple", Background: "#f3e8ff", Text: "#6b21a8"},
	{Name: "Pink", Background: "#fce7f3", Text: "#831843"},
}

// CommonEmojis are offered by the callout editor.
var CommonEmojis = []string{"💡", "📝", "⚠️", "✅", "❌", "💬", "🔔", "⭐", "🎯", "📌"}

// CalloutOptions carries callout attributes. Nil fields are not set.
type CalloutOptions struct {
	BackgroundColor *string
	TextColor       *string
	Emoji           *string
}

// CalloutAttrs is the resolved attribute set of a callout.
type CalloutAttrs struct {
	BackgroundColor string
	TextColor       string
	Emoji           string
}

// CalloutAttrsOf reads a callout node, applying defaults.
func CalloutAttrsOf(n *doc.Node) CalloutAttrs {
	return CalloutAttrs{
		BackgroundColor: orDefault(n.Attrs.String("backgroundColor"), DefaultCalloutBackground),
		TextColor:       orDefault(n.Attrs.String("textColor"), DefaultCalloutText),
		Emoji:           orDefault(n.Attrs.String("emoji"), DefaultCalloutEmoji),
	}
}

// Options turns resolved attrs back into a full option set.
func (a CalloutAttrs) Options() CalloutOptions {
	return CalloutOptions{BackgroundColor: &a.BackgroundColor, TextColor: &a.TextColor, Emoji: &a.Emoji}
}

func (o CalloutOptions) set() doc.Attrs {
	attrs := doc.Attrs{}
	if o.BackgroundColor != nil {
		attrs["backgroundColor"] = *o.BackgroundColor
	}
	if o.TextColor != nil {
		attrs["textColor"] = *o.TextColor
	}
	if o.Emoji != nil {
		attrs["emoji"] = *o.Emoji
	}
	return attrs
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

// NewCallout builds a callout seeded with one empty paragraph. Missing
// or empty options take the defaults.
func NewCallout(opts CalloutOptions) *doc.Node {
	attrs := doc.Attrs{
		"backgroundColor": DefaultCalloutBackground,
		"textColor":       DefaultCalloutText,
		"emoji":           DefaultCalloutEmoji,
	}
	for k, v := range opts.set() {
		if v != "" {
			attrs[k] = v
		}
	}
	return &doc.Node{Type: CalloutName, Attrs: attrs, Content: []*doc.Node{{Type: "paragraph"}}}
}

type calloutType struct{}

func (calloutType) Spec() doc.Spec {
	return doc.Spec{
		Name:    CalloutName,
		Group:   doc.GroupBlock,
		Content: doc.ContentBlocks,
		Attrs: map[string]any{
			"backgroundColor": DefaultCalloutBackground,
			"textColor":       DefaultCalloutText,
			"emoji":           DefaultCalloutEmoji,
		},
	}
}

func (calloutType) ParseDOM(el *html.Node) (doc.Attrs, *html.Node, bool) {
	if _, ok := doc.Attr(el, "data-callout"); !ok || !doc.IsElement(el, "div") {
		return nil, nil, false
	}
	attrs := doc.Attrs{
		"backgroundColor": doc.AttrOr(el, "data-background-color", DefaultCalloutBackground),
		"textColor":       doc.AttrOr(el, "data-text-color", DefaultCalloutText),
		"emoji":           doc.AttrOr(el, "data-emoji", DefaultCalloutEmoji),
	}
	return attrs, calloutContent(el), true
}

// calloutContent picks the element holding the callout body: the marked
// content div, else the legacy flex: 1 div, else the last div, else the
// container itself.
func calloutContent(el *html.Node) *html.Node {
	var divs []*html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if doc.IsElement(c, "div") {
				divs = append(divs, c)
			}
			walk(c)
		}
	}
	walk(el)

	for _, div := range divs {
		if _, ok := doc.Attr(div, "data-callout-content"); ok {
			return div
		}
	}
	for _, div := range divs {
		if hasFlexOne(doc.AttrOr(div, "style", "")) {
			return div
		}
	}
	if len(divs) > 0 {
		return divs[len(divs)-1]
	}
	return el
}

// hasFlexOne reports whether style declares exactly `flex: 1`.
func hasFlexOne(style string) bool {
	for _, decl := range strings.Split(style, ";") {
		prop, value, ok := strings.Cut(decl, ":")
		if ok && strings.TrimSpace(prop) == "flex" && strings.TrimSpace(value) == "1" {
			return true
		}
	}
	return false
}

func (calloutType) ToDOM(n *doc.Node) (*html.Node, *html.Node) {
	a := CalloutAttrsOf(n)
	outer := doc.Element("div",
		"data-callout", "",
		"data-background-color", a.BackgroundColor,
		"data-text-color", a.TextColor,
		"data-emoji", a.Emoji,
		"style", fmt.Sprintf("background-color: %s; color: %s; padding: 1rem; border-radius: 0.5rem; margin: 0.5rem 0; display: flex; gap: 0.75rem; align-items: flex-start;", a.BackgroundColor, a.TextColor),
	)
	icon := doc.Element("div", "style", "font-size: 1.5rem; line-height: 1.5; flex-shrink: 0;")
	icon.AppendChild(doc.TextNode(a.Emoji))
	body := doc.Element("div", "data-callout-content", "", "style", "flex: 1;")
	outer.AppendChild(icon)
	outer.AppendChild(body)
	return outer, body
}

// InsertCallout inserts a new callout at pos as one transaction.
func InsertCallout(h Host, pos int, opts CalloutOptions) error {
	if err := h.Apply(doc.Insert{Pos: pos, Node: NewCallout(opts)}); err != nil {
		return fmt.Errorf("insert callout: %w", err)
	}
	return nil
}

// CalloutAt finds the callout starting at pos or enclosing it, and the
// position right before it.
func CalloutAt(h Host, pos int) (*doc.Node, int, bool) {
	if n := h.NodeAt(pos); n != nil && n.Type == CalloutName {
		return n, pos, true
	}
	r, err := h.Resolve(pos)
	if err != nil {
		return nil, 0, false
	}
	for depth := r.Depth(); depth > 0; depth-- {
		n, start := r.Ancestor(depth)
		if n.Type == CalloutName {
			return n, start - 1, true
		}
	}
	return nil, 0, false
}

// UpdateCallout merges the supplied options into the callout at or around
// pos. Options left nil keep their current value.
func UpdateCallout(h Host, pos int, opts CalloutOptions) error {
	_, at, ok := CalloutAt(h, pos)
	if !ok {
		return fmt.Errorf("update callout: no callout at %d", pos)
	}
	attrs := opts.set()
	if len(attrs) == 0 {
		return nil
	}
	if err := h.Apply(doc.SetAttrs{Pos: at, Attrs: attrs}); err != nil {
		return fmt.Errorf("update callout: %w", err)
	}
	return nil
}
