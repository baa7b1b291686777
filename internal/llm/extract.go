package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseFailure is returned when no JSON value can be recovered from model
// output. It keeps a truncated copy of the offending text for diagnostics.
type ParseFailure struct {
	Snippet string
	Cause   error
}

func (e *ParseFailure) Error() string {
	return fmt.Sprintf("could not parse JSON from model response: %q", e.Snippet)
}

func (e *ParseFailure) Unwrap() error {
	return e.Cause
}

const parseFailureSnippetLen = 200

func newParseFailure(text string, cause error) *ParseFailure {
	snippet := text
	if len(snippet) > parseFailureSnippetLen {
		snippet = snippet[:parseFailureSnippetLen] + "..."
	}
	return &ParseFailure{Snippet: snippet, Cause: cause}
}

// ExtractJSON recovers the JSON value (object or array) a model response is
// expected to contain. The text may be wrapped in markdown code fences or
// surrounded by prose; extraction strips the wrapping, attempts a direct
// parse, and falls back to the outermost brace/bracket span. It never retries
// the model.
func ExtractJSON(text string) (json.RawMessage, error) {
	trimmed := strings.TrimSpace(text)
	trimmed = stripCodeFences(trimmed)

	var value json.RawMessage
	if err := unmarshalStrict(trimmed, &value); err == nil {
		return value, nil
	}

	if candidate, ok := outermostSpan(trimmed, '{', '}'); ok {
		if err := unmarshalStrict(candidate, &value); err == nil {
			return value, nil
		}
	}
	if candidate, ok := outermostSpan(trimmed, '[', ']'); ok {
		if err := unmarshalStrict(candidate, &value); err == nil {
			return value, nil
		}
	}

	return nil, newParseFailure(trimmed, nil)
}

// ExtractJSONObject is ExtractJSON followed by decoding into a loosely-typed
// map, for responses that must be a single object.
func ExtractJSONObject(text string) (map[string]interface{}, error) {
	raw, err := ExtractJSON(text)
	if err != nil {
		return nil, err
	}
	var obj map[string]interface{}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, newParseFailure(text, err)
	}
	return obj, nil
}

func stripCodeFences(text string) string {
	if strings.HasPrefix(text, "```json") {
		text = text[len("```json"):]
	} else if strings.HasPrefix(text, "```") {
		text = text[len("```"):]
	}
	if strings.HasSuffix(strings.TrimSpace(text), "```") {
		text = strings.TrimSpace(text)
		text = text[:len(text)-len("```")]
	}
	return strings.TrimSpace(text)
}

func outermostSpan(text string, open, close byte) (string, bool) {
	start := strings.IndexByte(text, open)
	end := strings.LastIndexByte(text, close)
	if start < 0 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}

// unmarshalStrict rejects inputs that are not a JSON object or array, so
// stray prose like a bare number or the word "null" never passes extraction.
func unmarshalStrict(text string, dest *json.RawMessage) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || (trimmed[0] != '{' && trimmed[0] != '[') {
		return fmt.Errorf("not a JSON object or array")
	}
	return json.Unmarshal([]byte(trimmed), dest)
}
