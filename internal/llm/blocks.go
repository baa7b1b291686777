package llm

import (
	"strconv"
	"strings"

	"neuroleap-backend/internal/model"
)

var knownBlockTypes = map[string]bool{
	model.BlockHeading:     true,
	model.BlockText:        true,
	model.BlockImage:       true,
	model.BlockImagePrompt: true,
	model.BlockQuiz:        true,
	model.BlockQuizCheck:   true,
	model.BlockActivity:    true,
	model.BlockSummary:     true,
}

// ValidateBlocks coerces a raw, loosely-typed block sequence into well-formed
// content blocks. Generative output is unreliable rather than malicious, so
// the job here is graceful degradation: malformed entries get safe defaults,
// and only non-object entries are skipped outright. The function never fails.
//
// Order is always reassigned from array position; any order hint in the raw
// input is ignored.
func ValidateBlocks(raw []interface{}) model.BlockList {
	validated := make(model.BlockList, 0, len(raw))

	for _, entry := range raw {
		dict, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}

		idx := len(validated)

		blockType := strings.TrimSpace(stringFromAny(dict["type"]))
		if !knownBlockTypes[blockType] {
			blockType = model.BlockText
		}

		block := model.ContentBlock{
			ID:      stringFromAny(dict["id"]),
			Type:    blockType,
			Content: stringFromAny(dict["content"]),
			Order:   idx,
		}
		if block.ID == "" {
			block.ID = strconv.Itoa(idx)
		}

		switch blockType {
		case model.BlockText:
			if _, present := dict["emphasis"]; present {
				block.Emphasis = stringSliceFromAny(dict["emphasis"])
			}
		case model.BlockImage, model.BlockImagePrompt:
			block.AIGeneratedURL = stringFromAny(dict["ai_generated_url"])
		case model.BlockQuiz, model.BlockQuizCheck:
			block.Question = stringFromAny(dict["question"])
			if block.Question == "" {
				block.Question = block.Content
			}
			block.Options = stringSliceFromAny(dict["options"])
			if block.Options == nil {
				block.Options = []string{}
			}
			correct := intFromAny(dict["correct_index"])
			block.CorrectIndex = &correct
		}

		validated = append(validated, block)
	}

	return validated
}

func stringFromAny(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return ""
	}
}

func stringSliceFromAny(v interface{}) []string {
	arr, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, item := range arr {
		if s := stringFromAny(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func intFromAny(v interface{}) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	default:
		return 0
	}
}
