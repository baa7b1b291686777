package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ProfileResult is the validated output of profile generation.
type ProfileResult struct {
	LearningPreference   string
	ComplexityTolerance  string
	AttentionSpanMinutes int
	SensoryTriggers      []string
	Interests            []string
}

// ProfileGateway generates a learning profile from raw assessment answers.
// Same single-shot contract as the adaptation gateway: one model call, JSON
// extraction, field coercion, and a *GenerationFailure on any stage failure.
type ProfileGateway struct {
	client    LLMClient
	modelName string
}

func NewProfileGateway(client LLMClient, modelName string) *ProfileGateway {
	return &ProfileGateway{client: client, modelName: modelName}
}

func (g *ProfileGateway) ModelName() string {
	return g.modelName
}

// GenerateProfile analyzes assessment answers into profile attributes.
// Unknown enum values fall back to safe defaults rather than failing.
func (g *ProfileGateway) GenerateProfile(assessment map[string]interface{}) (*ProfileResult, error) {
	assessmentJSON, err := json.MarshalIndent(assessment, "", "  ")
	if err != nil {
		return nil, &GenerationFailure{Model: g.modelName, Cause: err}
	}

	prompt := fmt.Sprintf(profileGenerationPrompt, string(assessmentJSON))

	response, err := g.client.Complete(prompt)
	if err != nil {
		return nil, &GenerationFailure{Model: g.modelName, Cause: err}
	}

	obj, err := ExtractJSONObject(response)
	if err != nil {
		return nil, &GenerationFailure{Model: g.modelName, Cause: err}
	}

	result := &ProfileResult{
		LearningPreference:   strings.ToLower(stringFromAny(obj["learning_preference"])),
		ComplexityTolerance:  strings.ToLower(stringFromAny(obj["complexity_tolerance"])),
		AttentionSpanMinutes: intFromAny(obj["attention_span_minutes"]),
		SensoryTriggers:      stringSliceFromAny(obj["sensory_triggers"]),
		Interests:            stringSliceFromAny(obj["interests"]),
	}

	if !validLearningStyle(result.LearningPreference) {
		result.LearningPreference = "visual"
	}
	switch result.ComplexityTolerance {
	case "low", "medium", "high":
	default:
		result.ComplexityTolerance = "medium"
	}
	if result.AttentionSpanMinutes == 0 {
		result.AttentionSpanMinutes = 15
	}

	return result, nil
}

func validLearningStyle(style string) bool {
	switch style {
	case "visual", "auditory", "kinesthetic", "reading_writing", "multimodal":
		return true
	}
	return false
}
