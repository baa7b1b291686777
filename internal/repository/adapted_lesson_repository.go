package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"neuroleap-backend/internal/db"
	"neuroleap-backend/internal/model"
)

type AdaptedLessonRepository interface {
	GetByID(id uuid.UUID) (*model.AdaptedLesson, error)
	GetByLessonAndStudent(lessonID, studentID uuid.UUID) (*model.AdaptedLesson, error)
	Update(adapted *model.AdaptedLesson) error
	SaveGenerated(adapted *model.AdaptedLesson) error
	ListByStudent(studentID uuid.UUID) ([]model.AdaptedLesson, error)
}

type adaptedLessonRepository struct{}

func NewAdaptedLessonRepository() AdaptedLessonRepository {
	return &adaptedLessonRepository{}
}

func (r *adaptedLessonRepository) GetByID(id uuid.UUID) (*model.AdaptedLesson, error) {
	var adapted model.AdaptedLesson
	err := db.GetDB().Where("id = ?", id).First(&adapted).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &adapted, nil
}

func (r *adaptedLessonRepository) GetByLessonAndStudent(lessonID, studentID uuid.UUID) (*model.AdaptedLesson, error) {
	var adapted model.AdaptedLesson
	err := db.GetDB().Where("lesson_id = ? AND student_id = ?", lessonID, studentID).First(&adapted).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &adapted, nil
}

func (r *adaptedLessonRepository) Update(adapted *model.AdaptedLesson) error {
	return db.GetDB().Save(adapted).Error
}

// SaveGenerated persists a freshly generated adaptation and bumps the source
// lesson's adaptation counter in a single transaction. The unique
// (lesson_id, student_id) index makes concurrent first generations collapse
// into one row with last-writer-wins semantics instead of a duplicate.
func (r *adaptedLessonRepository) SaveGenerated(adapted *model.AdaptedLesson) error {
	return db.Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "lesson_id"}, {Name: "student_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"lesson_title",
				"adaptation_style",
				"content_blocks",
				"status",
				"ai_model_used",
				"generation_duration_ms",
				"updated_at",
			}),
		}).Create(adapted).Error
		if err != nil {
			return err
		}

		return tx.Model(&model.Lesson{}).
			Where("id = ?", adapted.LessonID).
			UpdateColumn("adaptation_count", gorm.Expr("adaptation_count + 1")).Error
	})
}

func (r *adaptedLessonRepository) ListByStudent(studentID uuid.UUID) ([]model.AdaptedLesson, error) {
	var adaptations []model.AdaptedLesson
	err := db.GetDB().Where("student_id = ?", studentID).Order("updated_at DESC").Find(&adaptations).Error
	return adaptations, err
}
