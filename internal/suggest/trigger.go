package suggest

import (
	"unicode"

	"github.com/gravitrone/richtext/internal/doc"
)

// DefaultTrigger starts a mention session.
const DefaultTrigger = '@'

// objectRune stands in for inline leaves when a textblock is flattened,
// so rune offsets stay equal to document positions.
const objectRune = '\uFFFC'

// Trigger is a live trigger context: the query typed after the trigger
// character and the document range covering both.
type Trigger struct {
	Query string
	Range doc.Range
}

// FindTrigger looks backwards from cursor (a rune offset into text) for
// the trigger character. The trigger must open the text or follow
// whitespace, and the query between it and the cursor holds no whitespace.
// start is the rune offset of the trigger character.
func FindTrigger(text string, cursor int, char rune) (query string, start int, ok bool) {
	runes := []rune(text)
	if cursor < 0 || cursor > len(runes) {
		return "", 0, false
	}
	for i := cursor - 1; i >= 0; i-- {
		r := runes[i]
		if r == char {
			if i > 0 && !unicode.IsSpace(runes[i-1]) {
				return "", 0, false
			}
			return string(runes[i+1 : cursor]), i, true
		}
		if unicode.IsSpace(r) || r == objectRune {
			return "", 0, false
		}
	}
	return "", 0, false
}

// TriggerAt finds the trigger context ending at pos in d.
func TriggerAt(d *doc.Document, pos int, char rune) (Trigger, bool) {
	tb, before, err := d.TextblockAt(pos)
	if err != nil {
		return Trigger{}, false
	}
	start := before + 1
	if pos < start {
		return Trigger{}, false
	}
	query, at, ok := FindTrigger(flatten(tb), pos-start, char)
	if !ok {
		return Trigger{}, false
	}
	return Trigger{Query: query, Range: doc.Range{From: start + at, To: pos}}, true
}

// flatten renders a textblock's inline content with one rune per position.
func flatten(tb *doc.Node) string {
	var out []rune
	for _, child := range tb.Content {
		if child.IsText() {
			out = append(out, []rune(child.Text)...)
			continue
		}
		out = append(out, objectRune)
	}
	return string(out)
}
