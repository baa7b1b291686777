package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neuroleap-backend/internal/model"
)

func TestValidateBlocksAssignsOrderAndIDs(t *testing.T) {
	raw := []interface{}{
		map[string]interface{}{"type": "heading", "content": "Photosynthesis"},
		map[string]interface{}{"type": "text", "content": "Plants make food from light."},
		map[string]interface{}{"type": "summary", "content": "Light in, sugar out."},
	}

	blocks := ValidateBlocks(raw)
	require.Len(t, blocks, 3)
	for i, b := range blocks {
		assert.Equal(t, i, b.Order)
	}
	assert.Equal(t, "0", blocks[0].ID)
	assert.Equal(t, "1", blocks[1].ID)
}

func TestValidateBlocksKeepsProvidedID(t *testing.T) {
	raw := []interface{}{
		map[string]interface{}{"id": "intro", "type": "text", "content": "hello"},
	}
	blocks := ValidateBlocks(raw)
	require.Len(t, blocks, 1)
	assert.Equal(t, "intro", blocks[0].ID)
}

func TestValidateBlocksUnknownTypeBecomesText(t *testing.T) {
	raw := []interface{}{
		map[string]interface{}{"type": "hologram", "content": "shiny"},
		map[string]interface{}{"content": "no type at all"},
	}
	blocks := ValidateBlocks(raw)
	require.Len(t, blocks, 2)
	assert.Equal(t, model.BlockText, blocks[0].Type)
	assert.Equal(t, model.BlockText, blocks[1].Type)
}

func TestValidateBlocksSkipsNonObjects(t *testing.T) {
	raw := []interface{}{
		"just a string",
		42.0,
		map[string]interface{}{"type": "text", "content": "kept"},
		nil,
	}
	blocks := ValidateBlocks(raw)
	require.Len(t, blocks, 1)
	assert.Equal(t, "kept", blocks[0].Content)
	assert.Equal(t, 0, blocks[0].Order)
}

func TestValidateBlocksQuizDefaults(t *testing.T) {
	raw := []interface{}{
		map[string]interface{}{"type": "quiz", "content": "What color is grass?"},
	}
	blocks := ValidateBlocks(raw)
	require.Len(t, blocks, 1)

	q := blocks[0]
	assert.Equal(t, "What color is grass?", q.Question)
	assert.NotNil(t, q.Options)
	assert.Empty(t, q.Options)
	require.NotNil(t, q.CorrectIndex)
	assert.Equal(t, 0, *q.CorrectIndex)
}

func TestValidateBlocksQuizFields(t *testing.T) {
	raw := []interface{}{
		map[string]interface{}{
			"type":          "quiz_check",
			"question":      "Which gas do plants release?",
			"options":       []interface{}{"Oxygen", "Helium", "Neon"},
			"correct_index": 0.0,
		},
	}
	blocks := ValidateBlocks(raw)
	require.Len(t, blocks, 1)

	q := blocks[0]
	assert.Equal(t, "Which gas do plants release?", q.Question)
	assert.Equal(t, []string{"Oxygen", "Helium", "Neon"}, q.Options)
	require.NotNil(t, q.CorrectIndex)
	assert.Equal(t, 0, *q.CorrectIndex)
	assert.True(t, q.IsQuiz())
}

func TestValidateBlocksIgnoresOrderHints(t *testing.T) {
	raw := []interface{}{
		map[string]interface{}{"type": "text", "content": "first", "order": 9.0},
		map[string]interface{}{"type": "text", "content": "second", "order": 2.0},
	}
	blocks := ValidateBlocks(raw)
	require.Len(t, blocks, 2)
	assert.Equal(t, 0, blocks[0].Order)
	assert.Equal(t, 1, blocks[1].Order)
}

func TestValidateBlocksMixedMalformed(t *testing.T) {
	raw := []interface{}{
		map[string]interface{}{"type": "heading", "content": "The Water Cycle"},
		"narrator voice",
		map[string]interface{}{"type": "image_prompt", "content": "a raincloud over a lake"},
		map[string]interface{}{"type": "mystery"},
		map[string]interface{}{"type": "quiz", "question": "Where does rain come from?", "options": []interface{}{"Clouds", "The ground"}, "correct_index": 0.0},
	}

	blocks := ValidateBlocks(raw)
	require.Len(t, blocks, 4)
	assert.Equal(t, model.BlockHeading, blocks[0].Type)
	assert.Equal(t, model.BlockImagePrompt, blocks[1].Type)
	assert.Equal(t, model.BlockText, blocks[2].Type)
	assert.Equal(t, model.BlockQuiz, blocks[3].Type)
	assert.Equal(t, []int{0, 1, 2, 3}, []int{blocks[0].Order, blocks[1].Order, blocks[2].Order, blocks[3].Order})
}

func TestValidateBlocksEmpty(t *testing.T) {
	assert.Empty(t, ValidateBlocks(nil))
	assert.Empty(t, ValidateBlocks([]interface{}{}))
}

func TestValidateBlocksTextEmphasis(t *testing.T) {
	raw := []interface{}{
		map[string]interface{}{
			"type":     "text",
			"content":  "Chlorophyll captures light.",
			"emphasis": []interface{}{"chlorophyll", "light"},
		},
	}
	blocks := ValidateBlocks(raw)
	require.Len(t, blocks, 1)
	assert.Equal(t, []string{"chlorophyll", "light"}, blocks[0].Emphasis)
}
