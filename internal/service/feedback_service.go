package service

import (
	"encoding/json"

	"github.com/google/uuid"

	"neuroleap-backend/internal/model"
	"neuroleap-backend/internal/repository"
)

// Correction categories recognized by the training pipeline histogram.
const (
	CorrectionContent   = "content"
	CorrectionStructure = "structure"
	CorrectionStyle     = "style"
)

// FeedbackInput is a teacher correction of one content block in an adapted
// lesson.
type FeedbackInput struct {
	AdaptedLessonID uuid.UUID `json:"adapted_lesson_id"`
	BlockID         string    `json:"block_id"`
	TeacherID       uuid.UUID `json:"teacher_id"`
	Correction      string    `json:"correction"`
	CorrectionType  string    `json:"correction_type"`
	Notes           string    `json:"notes"`
}

type FeedbackService interface {
	SubmitFeedback(input FeedbackInput) (*model.TrainingLog, error)
}

type feedbackService struct {
	adaptedRepo  repository.AdaptedLessonRepository
	trainingRepo repository.TrainingLogRepository
}

func NewFeedbackService(
	adaptedRepo repository.AdaptedLessonRepository,
	trainingRepo repository.TrainingLogRepository,
) FeedbackService {
	return &feedbackService{adaptedRepo: adaptedRepo, trainingRepo: trainingRepo}
}

// SubmitFeedback records a teacher correction as training data. The corrected
// block becomes the rejected output and the teacher's text the chosen one
// once the log reaches the preference pipeline. The accepted→corrected
// transition is one-way; a corrected log is never un-corrected.
func (s *feedbackService) SubmitFeedback(input FeedbackInput) (*model.TrainingLog, error) {
	adapted, err := s.adaptedRepo.GetByID(input.AdaptedLessonID)
	if err != nil {
		return nil, err
	}
	if adapted == nil {
		return nil, ErrAdaptedLessonNotFound
	}

	var block *model.ContentBlock
	for i := range adapted.ContentBlocks {
		if adapted.ContentBlocks[i].ID == input.BlockID {
			block = &adapted.ContentBlocks[i]
			break
		}
	}
	if block == nil {
		return nil, ErrBlockNotFound
	}

	correctionType := input.CorrectionType
	switch correctionType {
	case CorrectionContent, CorrectionStructure, CorrectionStyle:
	default:
		correctionType = CorrectionContent
	}

	entry := &model.TrainingLog{
		SourceID:   adapted.ID,
		SourceType: model.SourceAdaptedLesson,
		ModelName:  adapted.AIModelUsed,
		InputContext: model.JSONMap{
			"block_id":         block.ID,
			"block_type":       block.Type,
			"original_content": block.Content,
		},
		ModelOutput: blockAsMap(*block),
	}
	entry.ApplyCorrection(
		model.JSONMap{"content": input.Correction},
		input.TeacherID,
		correctionType,
		input.Notes,
	)

	if err := s.trainingRepo.CreateLog(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func blockAsMap(block model.ContentBlock) model.JSONMap {
	data, err := json.Marshal(block)
	if err != nil {
		return model.JSONMap{"content": block.Content}
	}
	var m model.JSONMap
	if err := json.Unmarshal(data, &m); err != nil {
		return model.JSONMap{"content": block.Content}
	}
	return m
}
