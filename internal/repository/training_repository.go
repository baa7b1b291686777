package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"neuroleap-backend/internal/db"
	"neuroleap-backend/internal/model"
)

type TrainingLogRepository interface {
	CreateLog(log *model.TrainingLog) error
	GetByID(id uuid.UUID) (*model.TrainingLog, error)
	GetLatestBySource(sourceID uuid.UUID) (*model.TrainingLog, error)
	UpdateLog(log *model.TrainingLog) error
	ListUnprocessed(limit int) ([]model.TrainingLog, error)
	ListWithCorrections(limit int) ([]model.TrainingLog, error)
	MarkBatchProcessed(ids []uuid.UUID, batchID string) (int64, error)
}

type trainingLogRepository struct{}

func NewTrainingLogRepository() TrainingLogRepository {
	return &trainingLogRepository{}
}

func (r *trainingLogRepository) CreateLog(log *model.TrainingLog) error {
	return db.GetDB().Create(log).Error
}

func (r *trainingLogRepository) GetByID(id uuid.UUID) (*model.TrainingLog, error) {
	var log model.TrainingLog
	err := db.GetDB().Where("id = ?", id).First(&log).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &log, nil
}

func (r *trainingLogRepository) GetLatestBySource(sourceID uuid.UUID) (*model.TrainingLog, error) {
	var log model.TrainingLog
	err := db.GetDB().Where("source_id = ?", sourceID).Order("created_at DESC").First(&log).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &log, nil
}

func (r *trainingLogRepository) UpdateLog(log *model.TrainingLog) error {
	return db.GetDB().Save(log).Error
}

// ListUnprocessed returns logs not yet folded into a training batch. Processed
// logs are always excluded, so re-running the pipeline never double-counts a
// sample into two batches.
func (r *trainingLogRepository) ListUnprocessed(limit int) ([]model.TrainingLog, error) {
	var logs []model.TrainingLog
	err := db.GetDB().Where("is_processed = ?", false).
		Order("created_at ASC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}

func (r *trainingLogRepository) ListWithCorrections(limit int) ([]model.TrainingLog, error) {
	var logs []model.TrainingLog
	err := db.GetDB().Where("status = ?", model.TrainingStatusCorrected).
		Order("created_at ASC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}

// MarkBatchProcessed stamps the given logs as consumed. Already-processed ids
// are skipped by the is_processed guard, which makes the operation idempotent.
func (r *trainingLogRepository) MarkBatchProcessed(ids []uuid.UUID, batchID string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := db.GetDB().Model(&model.TrainingLog{}).
		Where("id IN ? AND is_processed = ?", ids, false).
		Updates(map[string]interface{}{
			"is_processed":      true,
			"processed_at":      time.Now().UTC(),
			"training_batch_id": batchID,
		})
	return result.RowsAffected, result.Error
}
