package service

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neuroleap-backend/internal/llm"
	"neuroleap-backend/internal/model"
)

func profileResultFixture() *llm.ProfileResult {
	return &llm.ProfileResult{
		LearningPreference:   "kinesthetic",
		ComplexityTolerance:  "low",
		AttentionSpanMinutes: 10,
		SensoryTriggers:      []string{"bright lights"},
		Interests:            []string{"trains", "space"},
	}
}

func newProfileService(gateway *fakeProfileGateway) (ProfileService, *fakeProfileRepo, *fakeTrainingRepo) {
	profileRepo := newFakeProfileRepo()
	trainingRepo := &fakeTrainingRepo{}
	return NewProfileService(profileRepo, trainingRepo, gateway), profileRepo, trainingRepo
}

func TestGenerateFromAssessmentCreatesProfile(t *testing.T) {
	gateway := &fakeProfileGateway{result: profileResultFixture()}
	svc, _, trainingRepo := newProfileService(gateway)
	student := uuid.New()

	profile, err := svc.GenerateFromAssessment(student, map[string]interface{}{"q1": "hands-on"})
	require.NoError(t, err)

	assert.Equal(t, student, profile.StudentID)
	assert.Equal(t, "kinesthetic", profile.LearningStyle)
	assert.Equal(t, "low", profile.ComplexityTolerance)
	assert.Equal(t, 10, profile.AttentionSpanMinutes)
	assert.Equal(t, 1, profile.Version)

	require.Len(t, trainingRepo.logs, 1)
	assert.Equal(t, model.SourceNeuroProfile, trainingRepo.logs[0].SourceType)
	assert.Equal(t, model.TrainingStatusAccepted, trainingRepo.logs[0].Status)
}

func TestGenerateFromAssessmentRegenerationBumpsVersion(t *testing.T) {
	gateway := &fakeProfileGateway{result: profileResultFixture()}
	svc, _, _ := newProfileService(gateway)
	student := uuid.New()

	first, err := svc.GenerateFromAssessment(student, map[string]interface{}{"q1": "a"})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Version)

	second, err := svc.GenerateFromAssessment(student, map[string]interface{}{"q1": "b"})
	require.NoError(t, err)
	assert.Equal(t, 2, second.Version)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 2, gateway.calls)
}

func TestGenerateFromAssessmentClampsAttentionSpan(t *testing.T) {
	result := profileResultFixture()
	result.AttentionSpanMinutes = 90
	svc, _, _ := newProfileService(&fakeProfileGateway{result: result})

	profile, err := svc.GenerateFromAssessment(uuid.New(), nil)
	require.NoError(t, err)
	assert.Equal(t, 30, profile.AttentionSpanMinutes)

	result.AttentionSpanMinutes = 2
	profile, err = svc.GenerateFromAssessment(uuid.New(), nil)
	require.NoError(t, err)
	assert.Equal(t, 5, profile.AttentionSpanMinutes)
}

func TestGenerateFromAssessmentTruncatesInterests(t *testing.T) {
	result := profileResultFixture()
	result.Interests = []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"}
	svc, _, _ := newProfileService(&fakeProfileGateway{result: result})

	profile, err := svc.GenerateFromAssessment(uuid.New(), nil)
	require.NoError(t, err)
	assert.Len(t, profile.Interests, 10)
	assert.Equal(t, "a", profile.Interests[0])
}

func TestGenerateFromAssessmentGatewayFailure(t *testing.T) {
	cause := errors.New("model unreachable")
	svc, profileRepo, _ := newProfileService(&fakeProfileGateway{
		err: &llm.GenerationFailure{Model: "test-model", Cause: cause},
	})
	student := uuid.New()

	_, err := svc.GenerateFromAssessment(student, nil)
	require.Error(t, err)
	assert.Empty(t, profileRepo.profiles, "no profile is written when generation fails")
}

func TestUpdateInterests(t *testing.T) {
	gateway := &fakeProfileGateway{result: profileResultFixture()}
	svc, _, _ := newProfileService(gateway)
	student := uuid.New()

	created, err := svc.GenerateFromAssessment(student, nil)
	require.NoError(t, err)

	updated, err := svc.UpdateInterests(student, []string{"volcanoes", "robots"})
	require.NoError(t, err)
	assert.Equal(t, model.StringList{"volcanoes", "robots"}, updated.Interests)
	assert.Equal(t, created.Version+1, updated.Version)
	assert.Equal(t, 1, gateway.calls, "interest updates never call the model")
}

func TestUpdateInterestsMissingProfile(t *testing.T) {
	svc, _, _ := newProfileService(&fakeProfileGateway{result: profileResultFixture()})
	_, err := svc.UpdateInterests(uuid.New(), []string{"x"})
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestGetProfileNotFound(t *testing.T) {
	svc, _, _ := newProfileService(&fakeProfileGateway{result: profileResultFixture()})
	_, err := svc.GetProfile(uuid.New())
	assert.ErrorIs(t, err, ErrProfileNotFound)
}
