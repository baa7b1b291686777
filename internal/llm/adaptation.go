package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"neuroleap-backend/internal/model"
)

// GenerationFailure wraps any error raised while producing content through
// the model: the completion call itself, or a response the extractor could
// not recover JSON from. The gateway never partially succeeds.
type GenerationFailure struct {
	Model string
	Cause error
}

func (e *GenerationFailure) Error() string {
	return fmt.Sprintf("generation failed (model %s): %v", e.Model, e.Cause)
}

func (e *GenerationFailure) Unwrap() error {
	return e.Cause
}

// AdaptationResult is the gateway's output for a full lesson adaptation.
type AdaptationResult struct {
	AdaptationStyle string
	Blocks          model.BlockList
}

// QuizQuestion is one generated quiz entry.
type QuizQuestion struct {
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
	Explanation  string   `json:"explanation"`
	Difficulty   string   `json:"difficulty"`
}

// Caps the lesson body embedded in a prompt. Protects against unbounded
// prompt cost and model context limits.
const lessonContentPromptLimit = 5000

// AdaptationGateway produces profile-conditioned content through a single
// model call per operation: prompt construction, completion, JSON extraction
// and block validation. The completion client and model identifier are
// injected at construction. No retries happen here.
type AdaptationGateway struct {
	client    LLMClient
	modelName string
}

func NewAdaptationGateway(client LLMClient, modelName string) *AdaptationGateway {
	return &AdaptationGateway{client: client, modelName: modelName}
}

// ModelName returns the identifier recorded on generated content and logs.
func (g *AdaptationGateway) ModelName() string {
	return g.modelName
}

// Adapt transforms a lesson into personalized content blocks for the given
// profile. Any failure at any stage surfaces as a single *GenerationFailure.
func (g *AdaptationGateway) Adapt(lesson *model.Lesson, profile *model.NeuroProfile) (*AdaptationResult, error) {
	prompt := fmt.Sprintf(lessonAdaptationPrompt,
		profile.LearningStyle,
		profile.ReadingLevel,
		profile.ComplexityTolerance,
		profile.AttentionSpanMinutes,
		interestsPhrase(profile.Interests),
		triggersPhrase(profile.SensoryTriggers),
		lesson.Title,
		truncate(lesson.OriginalTextContent, lessonContentPromptLimit),
	)

	response, err := g.client.Complete(prompt)
	if err != nil {
		return nil, &GenerationFailure{Model: g.modelName, Cause: err}
	}

	obj, err := ExtractJSONObject(response)
	if err != nil {
		return nil, &GenerationFailure{Model: g.modelName, Cause: err}
	}

	style := stringFromAny(obj["adaptation_style"])
	if style == "" {
		style = "Personalized"
	}

	rawBlocks, _ := obj["blocks"].([]interface{})
	return &AdaptationResult{
		AdaptationStyle: style,
		Blocks:          ValidateBlocks(rawBlocks),
	}, nil
}

// AdaptQuiz generates n quiz questions over already-adapted content. Same
// single-shot, fail-closed contract as Adapt.
func (g *AdaptationGateway) AdaptQuiz(content string, profile *model.NeuroProfile, n int) ([]QuizQuestion, error) {
	prompt := fmt.Sprintf(quizGenerationPrompt,
		n,
		profile.ReadingLevel,
		profile.ComplexityTolerance,
		truncate(content, lessonContentPromptLimit),
	)

	response, err := g.client.Complete(prompt)
	if err != nil {
		return nil, &GenerationFailure{Model: g.modelName, Cause: err}
	}

	raw, err := ExtractJSON(response)
	if err != nil {
		return nil, &GenerationFailure{Model: g.modelName, Cause: err}
	}

	questions := parseQuizQuestions(raw)
	return questions, nil
}

// AdaptImagePrompt turns a concept into an image generation prompt shaped by
// the student's profile.
func (g *AdaptationGateway) AdaptImagePrompt(concept string, profile *model.NeuroProfile) (string, error) {
	prompt := fmt.Sprintf(imagePromptGenerationPrompt,
		concept,
		profile.LearningStyle,
		triggersPhrase(profile.SensoryTriggers),
	)

	response, err := g.client.Complete(prompt)
	if err != nil {
		return "", &GenerationFailure{Model: g.modelName, Cause: err}
	}

	obj, err := ExtractJSONObject(response)
	if err != nil {
		return "", &GenerationFailure{Model: g.modelName, Cause: err}
	}
	return stringFromAny(obj["prompt"]), nil
}

// parseQuizQuestions coerces a raw JSON array into quiz questions with the
// same tolerance the block validator applies: non-object entries are skipped,
// missing fields default.
func parseQuizQuestions(raw json.RawMessage) []QuizQuestion {
	var arr []interface{}
	if err := json.Unmarshal(raw, &arr); err != nil {
		return nil
	}

	questions := make([]QuizQuestion, 0, len(arr))
	for _, entry := range arr {
		dict, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		q := QuizQuestion{
			Question:     stringFromAny(dict["question"]),
			Options:      stringSliceFromAny(dict["options"]),
			CorrectIndex: intFromAny(dict["correct_index"]),
			Explanation:  stringFromAny(dict["explanation"]),
			Difficulty:   stringFromAny(dict["difficulty"]),
		}
		if q.Options == nil {
			q.Options = []string{}
		}
		questions = append(questions, q)
	}
	return questions
}

func interestsPhrase(interests []string) string {
	if len(interests) == 0 {
		return "general topics"
	}
	if len(interests) > 5 {
		interests = interests[:5]
	}
	return strings.Join(interests, ", ")
}

func triggersPhrase(triggers []string) string {
	if len(triggers) == 0 {
		return "none specified"
	}
	return strings.Join(triggers, ", ")
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
