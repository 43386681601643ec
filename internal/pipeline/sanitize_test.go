package pipeline

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeBody_RedactsSensitiveFields(t *testing.T) {
	raw := []byte(`{"username":"terry","password":"hunted2","Token":"abc","profile":{"ssn":"123-45-6789","email":"t@example.com"}}`)

	got, ok := sanitizeBody(raw).(map[string]any)
	require.True(t, ok)

	assert.Equal(t, "terry", got["username"])
	assert.Equal(t, redactionMarker, got["password"])
	assert.Equal(t, redactionMarker, got["Token"], "matching is case-insensitive")

	profile, ok := got["profile"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, redactionMarker, profile["ssn"])
	assert.Equal(t, "t@example.com", profile["email"])
}

func TestSanitizeBody_RedactsInsideArrays(t *testing.T) {
	raw := []byte(`{"cards":[{"creditCard":"4111","cvv":"123","holder":"Terry"}]}`)

	got := sanitizeBody(raw).(map[string]any)
	cards := got["cards"].([]any)
	require.Len(t, cards, 1)

	card := cards[0].(map[string]any)
	assert.Equal(t, redactionMarker, card["creditCard"])
	assert.Equal(t, redactionMarker, card["cvv"])
	assert.Equal(t, "Terry", card["holder"])
}

func TestSanitizeBody_DoesNotMutateInput(t *testing.T) {
	raw := []byte(`{"password":"secret-value","nested":{"token":"abc"}}`)
	before := string(raw)

	_ = sanitizeBody(raw)

	assert.Equal(t, before, string(raw), "sanitization builds a fresh tree and leaves the input bytes alone")

	// The redacted copy and a fresh decode of the input must diverge only
	// at the sensitive keys.
	var original map[string]any
	require.NoError(t, json.Unmarshal(raw, &original))
	assert.Equal(t, "secret-value", original["password"])
}

func TestSanitizeBody_EmptyAndNonJSON(t *testing.T) {
	assert.Nil(t, sanitizeBody(nil))
	assert.Nil(t, sanitizeBody([]byte{}))

	got := sanitizeBody([]byte("<html>not json</html>"))
	assert.Equal(t, map[string]any{"non_json_bytes": 20}, got)
}

func TestSanitizeBody_ScalarAndArrayRoots(t *testing.T) {
	assert.Equal(t, "hello", sanitizeBody([]byte(`"hello"`)))

	got := sanitizeBody([]byte(`[{"secret":"x"},42]`)).([]any)
	require.Len(t, got, 2)
	assert.Equal(t, redactionMarker, got[0].(map[string]any)["secret"])
	assert.Equal(t, float64(42), got[1])
}
