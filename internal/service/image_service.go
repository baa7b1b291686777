package service

import (
	"github.com/google/uuid"

	"neuroleap-backend/internal/model"
	"neuroleap-backend/internal/repository"
	"neuroleap-backend/utilities"
)

// ImageGenerator produces an illustration from a prompt and returns a
// servable path. Satisfied by *llm.StableDiffusionWrapper.
type ImageGenerator interface {
	GenerateImage(prompt string) (string, error)
}

type ImageService interface {
	IllustrateAdaptedLesson(adaptedLessonID uuid.UUID) error
}

type imageService struct {
	adaptedRepo repository.AdaptedLessonRepository
	generator   ImageGenerator
}

func NewImageService(adaptedRepo repository.AdaptedLessonRepository, generator ImageGenerator) ImageService {
	return &imageService{adaptedRepo: adaptedRepo, generator: generator}
}

// InitImageEventListeners fills in illustrations for freshly adapted lessons.
// Best-effort: failures are logged and the lesson stays playable without
// images.
func InitImageEventListeners(adaptedRepo repository.AdaptedLessonRepository, generator ImageGenerator) {
	utilities.GlobalEventBus.Subscribe(utilities.EventLessonAdapted, func(data interface{}) {
		adaptedID, ok := data.(uuid.UUID)
		if !ok {
			utilities.Warn("invalid adapted lesson ID received for image generation")
			return
		}

		imageService := NewImageService(adaptedRepo, generator)
		if err := imageService.IllustrateAdaptedLesson(adaptedID); err != nil {
			utilities.Error("error illustrating adapted lesson %s: %v", adaptedID, err)
		}
	})
}

// IllustrateAdaptedLesson generates an image for every image_prompt block
// that does not have one yet and persists the updated block list.
func (s *imageService) IllustrateAdaptedLesson(adaptedLessonID uuid.UUID) error {
	adapted, err := s.adaptedRepo.GetByID(adaptedLessonID)
	if err != nil {
		return err
	}
	if adapted == nil {
		return ErrAdaptedLessonNotFound
	}

	changed := false
	for i := range adapted.ContentBlocks {
		block := &adapted.ContentBlocks[i]
		if block.Type != model.BlockImagePrompt || block.AIGeneratedURL != "" || block.Content == "" {
			continue
		}

		path, err := s.generator.GenerateImage(block.Content)
		if err != nil {
			utilities.Warn("image generation failed for block %s: %v", block.ID, err)
			continue
		}
		block.AIGeneratedURL = path
		changed = true
	}

	if !changed {
		return nil
	}
	return s.adaptedRepo.Update(adapted)
}
