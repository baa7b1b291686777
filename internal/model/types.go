package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// Content block types recognized by the validator. Anything else is coerced
// to "text".
const (
	BlockHeading     = "heading"
	BlockText        = "text"
	BlockImage       = "image"
	BlockImagePrompt = "image_prompt"
	BlockQuiz        = "quiz"
	BlockQuizCheck   = "quiz_check"
	BlockActivity    = "activity"
	BlockSummary     = "summary"
)

// ContentBlock is one unit of renderable lesson content. Type-specific fields
// are populated only for the matching block types; Order is always assigned
// by the validator from array position, never trusted from model output.
type ContentBlock struct {
	ID             string   `json:"id"`
	Type           string   `json:"type"`
	Content        string   `json:"content"`
	Order          int      `json:"order"`
	Emphasis       []string `json:"emphasis,omitempty"`
	AIGeneratedURL string   `json:"ai_generated_url,omitempty"`
	Question       string   `json:"question,omitempty"`
	Options        []string `json:"options,omitempty"`
	CorrectIndex   *int     `json:"correct_index,omitempty"`
}

// IsQuiz reports whether the block carries quiz fields.
func (b ContentBlock) IsQuiz() bool {
	return b.Type == BlockQuiz || b.Type == BlockQuizCheck
}

// BlockList stores an ordered block sequence as a JSON column.
type BlockList []ContentBlock

func (bl BlockList) Value() (driver.Value, error) {
	if bl == nil {
		return "[]", nil
	}
	data, err := json.Marshal(bl)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (bl *BlockList) Scan(value interface{}) error {
	return scanJSON(value, bl)
}

// StringList stores a bounded string slice as a JSON column.
type StringList []string

func (sl StringList) Value() (driver.Value, error) {
	if sl == nil {
		return "[]", nil
	}
	data, err := json.Marshal(sl)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (sl *StringList) Scan(value interface{}) error {
	return scanJSON(value, sl)
}

// JSONMap stores a loosely-typed JSON object column. A nil map round-trips
// as SQL NULL, which is how "no correction on file" is represented.
type JSONMap map[string]interface{}

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}
	return scanJSON(value, m)
}

func scanJSON(value interface{}, dest interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return errors.New("unsupported column type for JSON scan")
	}
}
