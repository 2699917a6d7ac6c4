package nodes

import (
	"encoding/json"

	"github.com/gravitrone/richtext/internal/doc"
)

// Payload is what a host receives on every document change: the
// serialized forms plus the mentions the document holds.
type Payload struct {
	HTML     string          `json:"html"`
	JSON     json.RawMessage `json:"json"`
	Text     string          `json:"text"`
	Mentions []MentionAttrs  `json:"mentions"`
}

// PayloadOf adds the mention list to a change.
func PayloadOf(c doc.Change) Payload {
	mentions := Mentions(c.Doc)
	if mentions == nil {
		mentions = []MentionAttrs{}
	}
	return Payload{HTML: c.HTML, JSON: c.JSON, Text: c.Text, Mentions: mentions}
}

// Snapshot builds the payload of d as it stands.
func Snapshot(d *doc.Document) (Payload, error) {
	data, err := d.JSON()
	if err != nil {
		return Payload{}, err
	}
	return PayloadOf(doc.Change{Doc: d.Root(), HTML: d.HTML(), JSON: data, Text: d.Text()}), nil
}
