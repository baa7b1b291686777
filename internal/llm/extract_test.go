package llm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONDirectObject(t *testing.T) {
	raw, err := ExtractJSON(`{"adaptation_style": "Visual", "blocks": []}`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"adaptation_style": "Visual", "blocks": []}`, string(raw))
}

func TestExtractJSONCodeFence(t *testing.T) {
	text := "```json\n{\"blocks\": [{\"type\": \"text\"}]}\n```"
	raw, err := ExtractJSON(text)
	require.NoError(t, err)
	assert.JSONEq(t, `{"blocks": [{"type": "text"}]}`, string(raw))
}

func TestExtractJSONBareFence(t *testing.T) {
	text := "```\n[1, 2, 3]\n```"
	raw, err := ExtractJSON(text)
	require.NoError(t, err)
	assert.JSONEq(t, `[1, 2, 3]`, string(raw))
}

func TestExtractJSONSurroundingProse(t *testing.T) {
	text := `Sure! Here is the adapted lesson you asked for:

{"adaptation_style": "Story-based", "blocks": []}

Let me know if you need anything else.`
	raw, err := ExtractJSON(text)
	require.NoError(t, err)
	assert.JSONEq(t, `{"adaptation_style": "Story-based", "blocks": []}`, string(raw))
}

func TestExtractJSONArrayInProse(t *testing.T) {
	text := `The quiz questions are: [{"question": "What is 2+2?"}] as requested.`
	raw, err := ExtractJSON(text)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"question": "What is 2+2?"}]`, string(raw))
}

func TestExtractJSONNoJSON(t *testing.T) {
	_, err := ExtractJSON("I'm sorry, I cannot help with that request.")
	require.Error(t, err)

	var pf *ParseFailure
	require.True(t, errors.As(err, &pf))
	assert.Contains(t, pf.Snippet, "I'm sorry")
}

func TestExtractJSONRejectsScalars(t *testing.T) {
	for _, text := range []string{"42", "null", "true", `"just a string"`} {
		_, err := ExtractJSON(text)
		assert.Error(t, err, "input %q should not extract", text)
	}
}

func TestExtractJSONSnippetTruncated(t *testing.T) {
	long := make([]byte, 500)
	for i := range long {
		long[i] = 'x'
	}
	_, err := ExtractJSON(string(long))
	require.Error(t, err)

	var pf *ParseFailure
	require.True(t, errors.As(err, &pf))
	assert.LessOrEqual(t, len(pf.Snippet), parseFailureSnippetLen+3)
}

func TestExtractJSONObject(t *testing.T) {
	obj, err := ExtractJSONObject("```json\n{\"prompt\": \"a friendly cartoon sun\"}\n```")
	require.NoError(t, err)
	assert.Equal(t, "a friendly cartoon sun", obj["prompt"])
}

func TestExtractJSONObjectRejectsArray(t *testing.T) {
	_, err := ExtractJSONObject(`[{"prompt": "x"}]`)
	assert.Error(t, err)
}
