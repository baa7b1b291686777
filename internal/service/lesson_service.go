package service

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"neuroleap-backend/internal/llm"
	"neuroleap-backend/internal/model"
	"neuroleap-backend/internal/repository"
	"neuroleap-backend/utilities"
)

// AdaptationGateway is the capability the orchestrator uses to obtain
// profile-conditioned content. Satisfied by *llm.AdaptationGateway.
type AdaptationGateway interface {
	Adapt(lesson *model.Lesson, profile *model.NeuroProfile) (*llm.AdaptationResult, error)
	AdaptQuiz(content string, profile *model.NeuroProfile, n int) ([]llm.QuizQuestion, error)
	AdaptImagePrompt(concept string, profile *model.NeuroProfile) (string, error)
	ModelName() string
}

// PlayResult is what a student receives when playing a lesson.
type PlayResult struct {
	AdaptedLessonID  uuid.UUID       `json:"adapted_lesson_id"`
	OriginalLessonID uuid.UUID       `json:"original_lesson_id"`
	StudentID        uuid.UUID       `json:"student_id"`
	LessonTitle      string          `json:"lesson_title"`
	AdaptationStyle  string          `json:"adaptation_style"`
	Blocks           model.BlockList `json:"blocks"`
	ViewCount        int             `json:"view_count"`
}

type LessonService interface {
	GetLessons() ([]model.Lesson, error)
	GetLessonsBySubject(subject string) ([]model.Lesson, error)
	GetLesson(lessonID uuid.UUID) (*model.Lesson, error)
	CreateLesson(lesson *model.Lesson) error
	PublishLesson(lessonID uuid.UUID) error
	Play(lessonID, studentID uuid.UUID) (*PlayResult, error)
	GenerateQuiz(adaptedLessonID uuid.UUID, n int) ([]llm.QuizQuestion, error)
	SuggestIllustration(adaptedLessonID uuid.UUID, blockID string) (string, error)
}

type lessonService struct {
	lessonRepo   repository.LessonRepository
	adaptedRepo  repository.AdaptedLessonRepository
	profileRepo  repository.ProfileRepository
	trainingRepo repository.TrainingLogRepository
	gateway      AdaptationGateway
}

func NewLessonService(
	lessonRepo repository.LessonRepository,
	adaptedRepo repository.AdaptedLessonRepository,
	profileRepo repository.ProfileRepository,
	trainingRepo repository.TrainingLogRepository,
	gateway AdaptationGateway,
) LessonService {
	return &lessonService{
		lessonRepo:   lessonRepo,
		adaptedRepo:  adaptedRepo,
		profileRepo:  profileRepo,
		trainingRepo: trainingRepo,
		gateway:      gateway,
	}
}

func (s *lessonService) GetLessons() ([]model.Lesson, error) {
	return s.lessonRepo.GetLessons()
}

func (s *lessonService) GetLessonsBySubject(subject string) ([]model.Lesson, error) {
	return s.lessonRepo.GetLessonsBySubject(subject)
}

func (s *lessonService) GetLesson(lessonID uuid.UUID) (*model.Lesson, error) {
	lesson, err := s.lessonRepo.GetLessonByID(lessonID)
	if err != nil {
		return nil, err
	}
	if lesson == nil {
		return nil, ErrLessonNotFound
	}
	return lesson, nil
}

func (s *lessonService) CreateLesson(lesson *model.Lesson) error {
	if lesson.Status == "" {
		lesson.Status = model.LessonStatusDraft
	}
	return s.lessonRepo.CreateLesson(lesson)
}

func (s *lessonService) PublishLesson(lessonID uuid.UUID) error {
	lesson, err := s.GetLesson(lessonID)
	if err != nil {
		return err
	}
	lesson.Status = model.LessonStatusPublished
	return s.lessonRepo.UpdateLesson(lesson)
}

// Play returns the personalized version of a lesson for a student,
// generating it on first request and serving the cached adaptation
// afterwards.
//
// The cache lookup comes first: a student can replay an already-generated
// lesson even if their profile was deleted later. A live profile is required
// only for first generation. Cached content is never regenerated just
// because the lesson or profile changed; staleness is an accepted tradeoff
// for latency and cost.
//
// Two concurrent first plays for the same pair may both reach the gateway;
// the storage upsert collapses them into one row, last writer wins. That
// race is accepted because regenerations of the same inputs are equivalent.
func (s *lessonService) Play(lessonID, studentID uuid.UUID) (*PlayResult, error) {
	adapted, err := s.adaptedRepo.GetByLessonAndStudent(lessonID, studentID)
	if err != nil {
		return nil, err
	}

	if adapted != nil && adapted.Status == model.AdaptedStatusReady {
		adapted.ViewCount++
		if err := s.adaptedRepo.Update(adapted); err != nil {
			return nil, err
		}
		return playResultFrom(adapted), nil
	}

	lesson, err := s.lessonRepo.GetLessonByID(lessonID)
	if err != nil {
		return nil, err
	}
	if lesson == nil {
		return nil, ErrLessonNotFound
	}

	profile, err := s.profileRepo.GetByStudentID(studentID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrMissingProfile
	}

	start := time.Now()
	result, err := s.gateway.Adapt(lesson, profile)
	if err != nil {
		// No partial cache entry is written; the next call retries
		// generation from scratch.
		return nil, err
	}
	durationMs := int(time.Since(start).Milliseconds())

	fresh := &model.AdaptedLesson{
		LessonID:             lessonID,
		StudentID:            studentID,
		LessonTitle:          lesson.Title,
		AdaptationStyle:      result.AdaptationStyle,
		ContentBlocks:        result.Blocks,
		Status:               model.AdaptedStatusReady,
		AIModelUsed:          s.gateway.ModelName(),
		GenerationDurationMs: durationMs,
	}
	if adapted != nil {
		fresh.ID = adapted.ID
		fresh.ViewCount = adapted.ViewCount
		fresh.CompletionCount = adapted.CompletionCount
	}

	if err := s.adaptedRepo.SaveGenerated(fresh); err != nil {
		return nil, err
	}

	s.logGeneration(fresh, lesson, profile)
	utilities.GlobalEventBus.Publish(utilities.EventLessonAdapted, fresh.ID)

	return playResultFrom(fresh), nil
}

// GenerateQuiz produces extra practice questions over an already-adapted
// lesson, conditioned on the same profile the adaptation used.
func (s *lessonService) GenerateQuiz(adaptedLessonID uuid.UUID, n int) ([]llm.QuizQuestion, error) {
	adapted, profile, err := s.adaptedWithProfile(adaptedLessonID)
	if err != nil {
		return nil, err
	}

	var content strings.Builder
	for _, block := range adapted.ContentBlocks {
		switch block.Type {
		case model.BlockText, model.BlockSummary, model.BlockActivity:
			content.WriteString(block.Content)
			content.WriteString("\n")
		}
	}

	if n <= 0 {
		n = 3
	}
	return s.gateway.AdaptQuiz(content.String(), profile, n)
}

// SuggestIllustration turns one block's content into an image generation
// prompt shaped by the student's profile.
func (s *lessonService) SuggestIllustration(adaptedLessonID uuid.UUID, blockID string) (string, error) {
	adapted, profile, err := s.adaptedWithProfile(adaptedLessonID)
	if err != nil {
		return "", err
	}

	for _, block := range adapted.ContentBlocks {
		if block.ID == blockID {
			return s.gateway.AdaptImagePrompt(block.Content, profile)
		}
	}
	return "", ErrBlockNotFound
}

func (s *lessonService) adaptedWithProfile(adaptedLessonID uuid.UUID) (*model.AdaptedLesson, *model.NeuroProfile, error) {
	adapted, err := s.adaptedRepo.GetByID(adaptedLessonID)
	if err != nil {
		return nil, nil, err
	}
	if adapted == nil {
		return nil, nil, ErrAdaptedLessonNotFound
	}

	profile, err := s.profileRepo.GetByStudentID(adapted.StudentID)
	if err != nil {
		return nil, nil, err
	}
	if profile == nil {
		return nil, nil, ErrMissingProfile
	}
	return adapted, profile, nil
}

// logGeneration appends the accepted training log for a fresh adaptation.
// Logging is best-effort; a storage hiccup here must not fail the play call.
func (s *lessonService) logGeneration(adapted *model.AdaptedLesson, lesson *model.Lesson, profile *model.NeuroProfile) {
	blocks := make([]interface{}, 0, len(adapted.ContentBlocks))
	for _, b := range adapted.ContentBlocks {
		blocks = append(blocks, b)
	}

	entry := &model.TrainingLog{
		SourceID:   adapted.ID,
		SourceType: model.SourceAdaptedLesson,
		Status:     model.TrainingStatusAccepted,
		ModelName:  adapted.AIModelUsed,
		InputContext: model.JSONMap{
			"lesson_id":    lesson.ID.String(),
			"lesson_title": lesson.Title,
			"profile": map[string]interface{}{
				"learning_style":         profile.LearningStyle,
				"reading_level":          profile.ReadingLevel,
				"complexity_tolerance":   profile.ComplexityTolerance,
				"attention_span_minutes": profile.AttentionSpanMinutes,
			},
		},
		ModelOutput: model.JSONMap{
			"adaptation_style": adapted.AdaptationStyle,
			"blocks":           blocks,
		},
	}
	if err := s.trainingRepo.CreateLog(entry); err != nil {
		utilities.Warn("failed to record training log for adaptation %s: %v", adapted.ID, err)
	}
}

func playResultFrom(adapted *model.AdaptedLesson) *PlayResult {
	return &PlayResult{
		AdaptedLessonID:  adapted.ID,
		OriginalLessonID: adapted.LessonID,
		StudentID:        adapted.StudentID,
		LessonTitle:      adapted.LessonTitle,
		AdaptationStyle:  adapted.AdaptationStyle,
		Blocks:           adapted.ContentBlocks,
		ViewCount:        adapted.ViewCount,
	}
}
