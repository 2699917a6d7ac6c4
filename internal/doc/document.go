package doc

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DefaultHistoryDepth bounds the undo stack.
const DefaultHistoryDepth = 100

// Change is delivered to observers after every applied transaction, undo
// or redo.
type Change struct {
	Doc  *Node
	HTML string
	JSON []byte
	Text string
}

// Document is an editable tree bound to a schema. It is not safe for
// concurrent use.
type Document struct {
	schema    *Schema
	root      *Node
	undo      []*Node
	redo      []*Node
	depth     int
	observers map[int]func(Change)
	nextObs   int
}

// New wraps root, which must be a valid "doc" node. The tree is copied.
func New(schema *Schema, root *Node) (*Document, error) {
	if root == nil {
		root = &Node{Type: "doc"}
	}
	if root.Type != "doc" {
		return nil, fmt.Errorf("root must be a doc node, got %q", root.Type)
	}
	root = root.Clone()
	normalize(schema, root)
	if err := check(schema, root); err != nil {
		return nil, fmt.Errorf("invalid document: %w", err)
	}
	return &Document{
		schema:    schema,
		root:      root,
		depth:     DefaultHistoryDepth,
		observers: make(map[int]func(Change)),
	}, nil
}

// FromHTML parses markup into a new document.
func FromHTML(schema *Schema, markup string) (*Document, error) {
	root, err := schema.ParseHTML(markup)
	if err != nil {
		return nil, err
	}
	return New(schema, root)
}

// FromJSON decodes the JSON interchange format into a new document.
func FromJSON(schema *Schema, data []byte) (*Document, error) {
	var root Node
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return New(schema, &root)
}

// Schema returns the schema the document is bound to.
func (d *Document) Schema() *Schema { return d.schema }

// Root returns the current tree. Callers must not modify it.
func (d *Document) Root() *Node { return d.root }

// ContentSize is the size of the document content.
func (d *Document) ContentSize() int { return d.schema.ContentSize(d.root) }

// Resolve locates pos in the current tree.
func (d *Document) Resolve(pos int) (ResolvedPos, error) {
	return resolve(d.schema, d.root, pos)
}

// NodeAt returns the node that starts at pos, if any.
func (d *Document) NodeAt(pos int) *Node {
	r, err := d.Resolve(pos)
	if err != nil || r.TextOffset > 0 {
		return nil
	}
	return r.NodeAfter
}

// NodeSize is the size of n under the document schema.
func (d *Document) NodeSize(n *Node) int { return d.schema.NodeSize(n) }

// NodesBetween calls fn for every node overlapping [from, to) with its
// start position. Returning false skips the node's children.
func (d *Document) NodesBetween(from, to int, fn func(n *Node, pos int) bool) {
	nodesBetween(d.schema, d.root, from, to, 0, fn)
}

// Apply runs steps as one transaction: either every step applies and one
// undo entry is recorded, or the document is left untouched.
func (d *Document) Apply(steps ...Step) error {
	if len(steps) == 0 {
		return nil
	}
	next := d.root.Clone()
	for i, step := range steps {
		if err := step.apply(d.schema, next); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
		normalize(d.schema, next)
	}
	if err := check(d.schema, next); err != nil {
		return fmt.Errorf("invalid result: %w", err)
	}

	d.undo = append(d.undo, d.root)
	if len(d.undo) > d.depth {
		d.undo = d.undo[len(d.undo)-d.depth:]
	}
	d.redo = nil
	d.root = next
	d.emit()
	return nil
}

// CanUndo reports whether a transaction can be undone.
func (d *Document) CanUndo() bool { return len(d.undo) > 0 }

// CanRedo reports whether an undone transaction can be redone.
func (d *Document) CanRedo() bool { return len(d.redo) > 0 }

// Undo reverts the last transaction.
func (d *Document) Undo() bool {
	if len(d.undo) == 0 {
		return false
	}
	prev := d.undo[len(d.undo)-1]
	d.undo = d.undo[:len(d.undo)-1]
	d.redo = append(d.redo, d.root)
	d.root = prev
	d.emit()
	return true
}

// Redo reapplies the last undone transaction.
func (d *Document) Redo() bool {
	if len(d.redo) == 0 {
		return false
	}
	next := d.redo[len(d.redo)-1]
	d.redo = d.redo[:len(d.redo)-1]
	d.undo = append(d.undo, d.root)
	d.root = next
	d.emit()
	return true
}

// OnChange registers an observer and returns its unsubscribe func.
func (d *Document) OnChange(fn func(Change)) func() {
	id := d.nextObs
	d.nextObs++
	d.observers[id] = fn
	return func() { delete(d.observers, id) }
}

func (d *Document) emit() {
	if len(d.observers) == 0 {
		return
	}
	change := Change{Doc: d.root, HTML: d.HTML(), Text: d.Text()}
	change.JSON, _ = d.JSON()
	for i := 0; i < d.nextObs; i++ {
		if fn, ok := d.observers[i]; ok {
			fn(change)
		}
	}
}

// HTML renders the document markup.
func (d *Document) HTML() string { return d.schema.RenderHTML(d.root) }

// JSON encodes the document in the interchange format.
func (d *Document) JSON() ([]byte, error) { return json.Marshal(d.root) }

// Text returns the plain text, one line per textblock.
func (d *Document) Text() string { return d.schema.PlainText(d.root) }

// LeafTexter is implemented by leaf node types that contribute plain text.
type LeafTexter interface {
	LeafText(n *Node) string
}

// PlainText flattens n to text. Textblocks end a line, hard breaks start
// a new one.
func (s *Schema) PlainText(n *Node) string {
	var lines []string
	var cur strings.Builder
	var walk func(n *Node)
	walk = func(n *Node) {
		for _, child := range n.Content {
			switch {
			case child.IsText():
				cur.WriteString(child.Text)
			case child.Type == "hard_break":
				cur.WriteString("\n")
			case s.spec(child.Type).IsLeaf():
				if lt, ok := s.nodes[child.Type].(LeafTexter); ok {
					cur.WriteString(lt.LeafText(child))
				}
			case s.spec(child.Type).IsTextblock():
				walk(child)
				lines = append(lines, cur.String())
				cur.Reset()
			default:
				walk(child)
			}
		}
	}
	walk(n)
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	return strings.Join(lines, "\n")
}
