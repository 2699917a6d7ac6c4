package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalizedTextKeepsKeyOrder(t *testing.T) {
	var text LocalizedText
	require.NoError(t, json.Unmarshal([]byte(`{"EN_US":"Design","DE_DE":"Gestaltung"}`), &text))

	assert.Equal(t, []string{"EN_US", "DE_DE"}, text.Keys)
	assert.Equal(t, "Design", text.Pick("FR_FR"))
	assert.Equal(t, "Gestaltung", text.Pick("DE_DE"))
}

func TestLocalizedTextPickSkipsEmptyValues(t *testing.T) {
	var text LocalizedText
	require.NoError(t, json.Unmarshal([]byte(`{"FR_FR":"","EN_US":null,"ES_ES":"Diseño"}`), &text))

	assert.Equal(t, "Diseño", text.Pick("FR_FR"))
}

func TestLocalizedTextNullAndEmpty(t *testing.T) {
	var text LocalizedText
	require.NoError(t, json.Unmarshal([]byte(`null`), &text))
	assert.Empty(t, text.Pick("FR_FR"))

	require.NoError(t, json.Unmarshal([]byte(`{}`), &text))
	assert.Empty(t, text.Keys)
}

func TestLocalizedTextRejectsNonObject(t *testing.T) {
	var text LocalizedText
	assert.Error(t, json.Unmarshal([]byte(`"plain"`), &text))
}

func TestLocalizedTextMarshalRoundTrip(t *testing.T) {
	var text LocalizedText
	require.NoError(t, json.Unmarshal([]byte(`{"FR_FR":"Conception","EN_US":"Design"}`), &text))

	out, err := json.Marshal(text)
	require.NoError(t, err)
	assert.JSONEq(t, `{"FR_FR":"Conception","EN_US":"Design"}`, string(out))
}
