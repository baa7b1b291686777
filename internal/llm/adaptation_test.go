package llm

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neuroleap-backend/internal/model"
)

// stubClient returns a canned response or error and records the prompt it saw.
type stubClient struct {
	response string
	err      error
	prompts  []string
}

func (s *stubClient) Complete(prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func testProfile() *model.NeuroProfile {
	return &model.NeuroProfile{
		StudentID:            uuid.New(),
		LearningStyle:        "visual",
		ReadingLevel:         "grade_3",
		ComplexityTolerance:  "medium",
		AttentionSpanMinutes: 15,
		Interests:            model.StringList{"dinosaurs", "space"},
		SensoryTriggers:      model.StringList{"loud noises"},
	}
}

func testLesson() *model.Lesson {
	return &model.Lesson{
		ID:                  uuid.New(),
		Title:               "Photosynthesis Basics",
		OriginalTextContent: "Photosynthesis converts sunlight into energy.",
	}
}

func TestAdaptSuccess(t *testing.T) {
	client := &stubClient{response: "```json\n" + `{
		"adaptation_style": "Visual story",
		"blocks": [
			{"type": "heading", "content": "Plants and Sunlight"},
			{"type": "text", "content": "Plants eat light, a bit like dinosaurs ate plants."},
			{"type": "quiz", "question": "What do plants need?", "options": ["Sunlight", "Darkness"], "correct_index": 0}
		]
	}` + "\n```"}
	gateway := NewAdaptationGateway(client, "llama3.1:8b")

	result, err := gateway.Adapt(testLesson(), testProfile())
	require.NoError(t, err)
	assert.Equal(t, "Visual story", result.AdaptationStyle)
	require.Len(t, result.Blocks, 3)
	assert.Equal(t, model.BlockQuiz, result.Blocks[2].Type)

	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], "visual")
	assert.Contains(t, client.prompts[0], "dinosaurs, space")
	assert.Contains(t, client.prompts[0], "Photosynthesis Basics")
}

func TestAdaptDefaultsStyle(t *testing.T) {
	client := &stubClient{response: `{"blocks": []}`}
	gateway := NewAdaptationGateway(client, "llama3.1:8b")

	result, err := gateway.Adapt(testLesson(), testProfile())
	require.NoError(t, err)
	assert.Equal(t, "Personalized", result.AdaptationStyle)
	assert.Empty(t, result.Blocks)
}

func TestAdaptCompletionError(t *testing.T) {
	cause := errors.New("connection refused")
	gateway := NewAdaptationGateway(&stubClient{err: cause}, "llama3.1:8b")

	_, err := gateway.Adapt(testLesson(), testProfile())
	require.Error(t, err)

	var gf *GenerationFailure
	require.True(t, errors.As(err, &gf))
	assert.Equal(t, "llama3.1:8b", gf.Model)
	assert.ErrorIs(t, err, cause)
}

func TestAdaptUnparseableResponse(t *testing.T) {
	gateway := NewAdaptationGateway(&stubClient{response: "I cannot produce that."}, "llama3.1:8b")

	_, err := gateway.Adapt(testLesson(), testProfile())
	require.Error(t, err)

	var gf *GenerationFailure
	require.True(t, errors.As(err, &gf))
	var pf *ParseFailure
	assert.True(t, errors.As(err, &pf))
}

func TestAdaptTruncatesLongLessons(t *testing.T) {
	client := &stubClient{response: `{"blocks": []}`}
	gateway := NewAdaptationGateway(client, "llama3.1:8b")

	lesson := testLesson()
	body := make([]byte, lessonContentPromptLimit*2)
	for i := range body {
		body[i] = 'a'
	}
	lesson.OriginalTextContent = string(body)

	_, err := gateway.Adapt(lesson, testProfile())
	require.NoError(t, err)
	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], strings.Repeat("a", lessonContentPromptLimit))
	assert.NotContains(t, client.prompts[0], strings.Repeat("a", lessonContentPromptLimit+1))
}

func TestAdaptEmptyInterestsAndTriggers(t *testing.T) {
	client := &stubClient{response: `{"blocks": []}`}
	gateway := NewAdaptationGateway(client, "llama3.1:8b")

	profile := testProfile()
	profile.Interests = nil
	profile.SensoryTriggers = nil

	_, err := gateway.Adapt(testLesson(), profile)
	require.NoError(t, err)
	assert.Contains(t, client.prompts[0], "general topics")
	assert.Contains(t, client.prompts[0], "none specified")
}

func TestAdaptQuiz(t *testing.T) {
	client := &stubClient{response: `[
		{"question": "What is rain?", "options": ["Falling water", "Falling sand"], "correct_index": 0, "explanation": "Clouds drop water.", "difficulty": "easy"},
		"not a question",
		{"question": "Bare minimum"}
	]`}
	gateway := NewAdaptationGateway(client, "llama3.1:8b")

	questions, err := gateway.AdaptQuiz("The water cycle...", testProfile(), 2)
	require.NoError(t, err)
	require.Len(t, questions, 2)
	assert.Equal(t, "What is rain?", questions[0].Question)
	assert.Equal(t, "easy", questions[0].Difficulty)
	assert.Equal(t, 0, questions[1].CorrectIndex)
	assert.NotNil(t, questions[1].Options)
}

func TestAdaptImagePrompt(t *testing.T) {
	client := &stubClient{response: `{"prompt": "a bright cartoon leaf soaking up sun rays"}`}
	gateway := NewAdaptationGateway(client, "llama3.1:8b")

	prompt, err := gateway.AdaptImagePrompt("photosynthesis", testProfile())
	require.NoError(t, err)
	assert.Equal(t, "a bright cartoon leaf soaking up sun rays", prompt)
	assert.Contains(t, client.prompts[0], "photosynthesis")
}
