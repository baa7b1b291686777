package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"neuroleap-backend/internal/db"
	"neuroleap-backend/internal/model"
)

type LessonRepository interface {
	GetLessons() ([]model.Lesson, error)
	GetLessonsBySubject(subject string) ([]model.Lesson, error)
	GetLessonByID(lessonID uuid.UUID) (*model.Lesson, error)
	CreateLesson(lesson *model.Lesson) error
	UpdateLesson(lesson *model.Lesson) error
	IncrementViewCount(lessonID uuid.UUID) error
}

type lessonRepository struct{}

func NewLessonRepository() LessonRepository {
	return &lessonRepository{}
}

func (r *lessonRepository) GetLessons() ([]model.Lesson, error) {
	var lessons []model.Lesson
	err := db.GetDB().Order("created_at DESC").Find(&lessons).Error
	return lessons, err
}

func (r *lessonRepository) GetLessonsBySubject(subject string) ([]model.Lesson, error) {
	var lessons []model.Lesson
	err := db.GetDB().Where("subject = ?", subject).Order("created_at DESC").Find(&lessons).Error
	return lessons, err
}

func (r *lessonRepository) GetLessonByID(lessonID uuid.UUID) (*model.Lesson, error) {
	var lesson model.Lesson
	err := db.GetDB().Where("id = ?", lessonID).First(&lesson).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (r *lessonRepository) CreateLesson(lesson *model.Lesson) error {
	return db.GetDB().Create(lesson).Error
}

func (r *lessonRepository) UpdateLesson(lesson *model.Lesson) error {
	return db.GetDB().Save(lesson).Error
}

func (r *lessonRepository) IncrementViewCount(lessonID uuid.UUID) error {
	return db.GetDB().Model(&model.Lesson{}).
		Where("id = ?", lessonID).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}
