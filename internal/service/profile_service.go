package service

import (
	"github.com/google/uuid"

	"neuroleap-backend/internal/llm"
	"neuroleap-backend/internal/model"
	"neuroleap-backend/internal/repository"
	"neuroleap-backend/utilities"
)

// ProfileGateway generates profile attributes from assessment answers.
// Satisfied by *llm.ProfileGateway.
type ProfileGateway interface {
	GenerateProfile(assessment map[string]interface{}) (*llm.ProfileResult, error)
	ModelName() string
}

type ProfileService interface {
	GetProfile(studentID uuid.UUID) (*model.NeuroProfile, error)
	GenerateFromAssessment(studentID uuid.UUID, assessment map[string]interface{}) (*model.NeuroProfile, error)
	UpdateInterests(studentID uuid.UUID, interests []string) (*model.NeuroProfile, error)
}

type profileService struct {
	profileRepo  repository.ProfileRepository
	trainingRepo repository.TrainingLogRepository
	gateway      ProfileGateway
}

func NewProfileService(
	profileRepo repository.ProfileRepository,
	trainingRepo repository.TrainingLogRepository,
	gateway ProfileGateway,
) ProfileService {
	return &profileService{
		profileRepo:  profileRepo,
		trainingRepo: trainingRepo,
		gateway:      gateway,
	}
}

func (s *profileService) GetProfile(studentID uuid.UUID) (*model.NeuroProfile, error) {
	profile, err := s.profileRepo.GetByStudentID(studentID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}
	return profile, nil
}

// GenerateFromAssessment derives (or refines) a student's learning profile
// from raw assessment answers. A fresh profile starts at version 1; a
// regeneration over an existing profile bumps the version counter.
func (s *profileService) GenerateFromAssessment(studentID uuid.UUID, assessment map[string]interface{}) (*model.NeuroProfile, error) {
	result, err := s.gateway.GenerateProfile(assessment)
	if err != nil {
		return nil, err
	}

	existing, err := s.profileRepo.GetByStudentID(studentID)
	if err != nil {
		return nil, err
	}

	profile := existing
	if profile == nil {
		profile = &model.NeuroProfile{StudentID: studentID}
	}
	profile.LearningStyle = result.LearningPreference
	profile.ComplexityTolerance = result.ComplexityTolerance
	profile.AttentionSpanMinutes = result.AttentionSpanMinutes
	profile.SensoryTriggers = result.SensoryTriggers
	profile.Interests = result.Interests
	profile.Normalize()

	if existing == nil {
		if err := s.profileRepo.CreateProfile(profile); err != nil {
			return nil, err
		}
	} else {
		profile.Touch()
		if err := s.profileRepo.UpdateProfile(profile); err != nil {
			return nil, err
		}
	}

	s.logGeneration(profile, assessment)
	return profile, nil
}

// UpdateInterests replaces the interests list, keeping the ≤10 bound and the
// version counter.
func (s *profileService) UpdateInterests(studentID uuid.UUID, interests []string) (*model.NeuroProfile, error) {
	profile, err := s.GetProfile(studentID)
	if err != nil {
		return nil, err
	}
	profile.Interests = interests
	profile.Normalize()
	profile.Touch()
	if err := s.profileRepo.UpdateProfile(profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *profileService) logGeneration(profile *model.NeuroProfile, assessment map[string]interface{}) {
	entry := &model.TrainingLog{
		SourceID:   profile.ID,
		SourceType: model.SourceNeuroProfile,
		Status:     model.TrainingStatusAccepted,
		ModelName:  s.gateway.ModelName(),
		InputContext: model.JSONMap{
			"profile":    profile.StudentID.String(),
			"assessment": assessment,
		},
		ModelOutput: model.JSONMap{
			"learning_style":         profile.LearningStyle,
			"complexity_tolerance":   profile.ComplexityTolerance,
			"attention_span_minutes": profile.AttentionSpanMinutes,
			"sensory_triggers":       profile.SensoryTriggers,
			"interests":              profile.Interests,
		},
	}
	if err := s.trainingRepo.CreateLog(entry); err != nil {
		utilities.Warn("failed to record training log for profile %s: %v", profile.ID, err)
	}
}
