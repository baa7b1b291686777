package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"neuroleap-backend/internal/db"
	"neuroleap-backend/internal/model"
)

type ProfileRepository interface {
	GetByStudentID(studentID uuid.UUID) (*model.NeuroProfile, error)
	CreateProfile(profile *model.NeuroProfile) error
	UpdateProfile(profile *model.NeuroProfile) error
}

type profileRepository struct{}

func NewProfileRepository() ProfileRepository {
	return &profileRepository{}
}

func (r *profileRepository) GetByStudentID(studentID uuid.UUID) (*model.NeuroProfile, error) {
	var profile model.NeuroProfile
	err := db.GetDB().Where("student_id = ?", studentID).First(&profile).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) CreateProfile(profile *model.NeuroProfile) error {
	return db.GetDB().Create(profile).Error
}

func (r *profileRepository) UpdateProfile(profile *model.NeuroProfile) error {
	return db.GetDB().Save(profile).Error
}
