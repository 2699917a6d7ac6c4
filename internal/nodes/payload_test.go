package nodes

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravitrone/richtext/internal/doc"
)

func TestPayloadOfChangeListsMentions(t *testing.T) {
	d := fromHTML(t, "<p>hi "+janeMarkup+"</p>")

	var got []Payload
	d.OnChange(func(c doc.Change) { got = append(got, PayloadOf(c)) })
	require.NoError(t, d.Apply(doc.InsertText{Pos: 1, Text: "oh "}))

	require.Len(t, got, 1)
	assert.Contains(t, got[0].HTML, `data-mention-id="m-1"`)
	assert.Equal(t, "oh hi @Jane", got[0].Text)
	require.Len(t, got[0].Mentions, 1)
	assert.Equal(t, "m-1", got[0].Mentions[0].ID)
	assert.Equal(t, VariantInline, got[0].Mentions[0].Variant)
	assert.True(t, json.Valid(got[0].JSON))
}

func TestSnapshotWithoutMentionsEncodesEmptyList(t *testing.T) {
	d := newDoc(t, para(text("plain")))

	p, err := Snapshot(d)
	require.NoError(t, err)

	encoded, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(encoded), `"mentions":[]`)
	assert.Contains(t, string(encoded), `"json":{"type":"doc"`)
}
