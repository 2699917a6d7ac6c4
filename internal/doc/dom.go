package doc

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Element builds an element node from alternating attribute keys and
// values.
func Element(tag string, kv ...string) *html.Node {
	el := &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
	for i := 0; i+1 < len(kv); i += 2 {
		el.Attr = append(el.Attr, html.Attribute{Key: kv[i], Val: kv[i+1]})
	}
	return el
}

// TextNode builds a DOM text node.
func TextNode(text string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: text}
}

// Attr returns the value of an attribute and whether it is present.
func Attr(el *html.Node, key string) (string, bool) {
	if el == nil {
		return "", false
	}
	for _, a := range el.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// AttrOr returns the attribute value or fallback when absent or empty.
func AttrOr(el *html.Node, key, fallback string) string {
	if v, ok := Attr(el, key); ok && v != "" {
		return v
	}
	return fallback
}

// HasClass reports whether the class attribute lists class.
func HasClass(el *html.Node, class string) bool {
	v, _ := Attr(el, "class")
	for _, c := range strings.Fields(v) {
		if c == class {
			return true
		}
	}
	return false
}

// IsElement reports whether n is an element with one of the given tags.
func IsElement(n *html.Node, tags ...string) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	if len(tags) == 0 {
		return true
	}
	for _, tag := range tags {
		if n.Data == tag {
			return true
		}
	}
	return false
}

// ChildElements lists the element children of n.
func ChildElements(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, c)
		}
	}
	return out
}

// Closest walks from n up through its ancestors and returns the first
// element accepted by match.
func Closest(n *html.Node, match func(*html.Node) bool) *html.Node {
	for ; n != nil; n = n.Parent {
		if n.Type == html.ElementNode && match(n) {
			return n
		}
	}
	return nil
}

// DOMText concatenates the text below n.
func DOMText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(DOMText(c))
	}
	return b.String()
}
