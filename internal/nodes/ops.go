package nodes

import (
	"errors"
	"fmt"

	"golang.org/x/net/html"

	"github.com/gravitrone/richtext/internal/doc"
	"github.com/gravitrone/richtext/internal/mention"
)

// ScanWindow is how far, in positions, FindMention looks on each side of
// a rendered element before giving up.
const ScanWindow = 10

// Host is the editing surface node operations run against.
// *doc.Document satisfies it.
type Host interface {
	Resolve(pos int) (doc.ResolvedPos, error)
	NodeAt(pos int) *doc.Node
	NodeSize(n *doc.Node) int
	ContentSize() int
	Apply(steps ...doc.Step) error
}

// Types returns the custom node descriptors, in parse priority order.
func Types() []doc.NodeType {
	return []doc.NodeType{
		calloutType{},
		mentionType{variant: VariantPill},
		mentionType{variant: VariantMegaPill},
		mentionType{variant: VariantInline},
	}
}

// Schema is the editor schema: the base types plus the custom ones.
func Schema() (*doc.Schema, error) {
	return doc.BaseSchema(Types()...)
}

// InsertMention replaces the trigger text in r with an inline mention of e
// followed by a space, as one transaction.
func InsertMention(h Host, r doc.Range, e mention.Entity) error {
	node := FromEntity(e).Node()
	err := h.Apply(
		doc.Delete{From: r.From, To: r.To},
		doc.Insert{Pos: r.From, Node: node},
		doc.InsertText{Pos: r.From + 1, Text: " "},
	)
	if err != nil {
		return fmt.Errorf("insert mention: %w", err)
	}
	return nil
}

// Found is a mention located in a document.
type Found struct {
	Node  *doc.Node
	Pos   int
	Attrs MentionAttrs
}

func found(n *doc.Node, pos int) Found {
	return Found{Node: n, Pos: pos, Attrs: AttrsOf(n)}
}

// FindMention maps a rendered element back to its mention node. It looks
// at the closest mention element around target, the node after and before
// its mapped position, then scans ScanWindow positions on each side and
// keeps the nearest mention.
func FindMention(h Host, positions doc.DOMMap, target *html.Node) (Found, bool) {
	el := doc.Closest(target, IsMentionElement)
	if el == nil {
		return Found{}, false
	}
	pos, ok := positions.PosOf(el)
	if !ok {
		return Found{}, false
	}

	if n := h.NodeAt(pos); IsMention(n) {
		return found(n, pos), true
	}
	if r, err := h.Resolve(pos); err == nil && IsMention(r.NodeBefore) {
		return found(r.NodeBefore, pos-h.NodeSize(r.NodeBefore)), true
	}

	size := h.ContentSize()
	for d := 1; d <= ScanWindow; d++ {
		for _, p := range [2]int{pos - d, pos + d} {
			if p < 0 || p > size {
				continue
			}
			if n := h.NodeAt(p); IsMention(n) {
				return found(n, p), true
			}
		}
	}
	return Found{}, false
}

// ChangeVariant swaps the found mention for the node type of variant,
// keeping its identity fields, as one transaction.
func ChangeVariant(h Host, f Found, variant Variant) error {
	if f.Node == nil {
		return errors.New("change variant: no mention")
	}
	if f.Attrs.Variant == variant {
		return nil
	}
	attrs := f.Attrs
	attrs.Variant = variant
	err := h.Apply(
		doc.Delete{From: f.Pos, To: f.Pos + h.NodeSize(f.Node)},
		doc.Insert{Pos: f.Pos, Node: attrs.Node()},
	)
	if err != nil {
		return fmt.Errorf("change variant: %w", err)
	}
	return nil
}

// Mentions lists the attrs of every mention under root, any variant, in
// document order.
func Mentions(root *doc.Node) []MentionAttrs {
	var out []MentionAttrs
	root.Descendants(func(n *doc.Node) bool {
		if IsMention(n) {
			out = append(out, AttrsOf(n))
		}
		return true
	})
	return out
}
