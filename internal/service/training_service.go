package service

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"neuroleap-backend/internal/model"
	"neuroleap-backend/internal/repository"
	"neuroleap-backend/utilities"
)

// SFTSample is one supervised fine-tuning record: the accepted model output
// as the desired completion.
type SFTSample struct {
	ID          string         `json:"id"`
	Instruction string         `json:"instruction"`
	Input       string         `json:"input"`
	Output      string         `json:"output"`
	Metadata    SampleMetadata `json:"metadata"`
}

// PreferenceSample is one preference-pair record: the teacher correction as
// chosen, the original model output as rejected.
type PreferenceSample struct {
	ID           string         `json:"id"`
	Prompt       string         `json:"prompt"`
	InputContext string         `json:"input_context"`
	Chosen       string         `json:"chosen"`
	Rejected     string         `json:"rejected"`
	Metadata     SampleMetadata `json:"metadata"`
}

type SampleMetadata struct {
	SourceType     string   `json:"source_type"`
	Model          string   `json:"model,omitempty"`
	QualityScore   *float64 `json:"quality_score,omitempty"`
	CorrectionType string   `json:"correction_type,omitempty"`
	CorrectorID    string   `json:"corrector_id,omitempty"`
}

type BatchStats struct {
	TotalSamples      int            `json:"total_samples"`
	SFTSamples        int            `json:"sft_samples"`
	PreferenceSamples int            `json:"preference_samples"`
	CorrectionTypes   map[string]int `json:"correction_types"`
}

// TrainingBatch is the result of collecting a set of logged interactions.
type TrainingBatch struct {
	BatchID    string             `json:"batch_id"`
	CreatedAt  time.Time          `json:"created_at"`
	SFT        []SFTSample        `json:"sft_samples"`
	Preference []PreferenceSample `json:"preference_samples"`
	LogIDs     []uuid.UUID        `json:"-"`
	Stats      BatchStats         `json:"stats"`
}

type TrainingService interface {
	BuildSample(log *model.TrainingLog) (*SFTSample, *PreferenceSample)
	Collect(logs []model.TrainingLog) *TrainingBatch
	ExportSFT(batch *TrainingBatch, path string) error
	ExportPreference(batch *TrainingBatch, path string) error
	MarkProcessed(ids []uuid.UUID, batchID string) (int64, error)
	RunBatch(limit int, outputDir string) (*TrainingBatch, error)
	GetTrainingStats(limit int) (map[string]interface{}, error)
	RateAdaptation(sourceID uuid.UUID, rating int) (*model.TrainingLog, error)
	ListCorrections(limit int) ([]model.TrainingLog, error)
}

type trainingService struct {
	trainingRepo repository.TrainingLogRepository
}

func NewTrainingService(trainingRepo repository.TrainingLogRepository) TrainingService {
	return &trainingService{trainingRepo: trainingRepo}
}

// BuildSample converts one logged interaction into at most one training
// sample. Corrected logs yield a preference sample, accepted logs an SFT
// sample, and anything ambiguous (e.g. rejected with no correction on file)
// yields nothing rather than a guess. Never errors.
func (s *trainingService) BuildSample(log *model.TrainingLog) (*SFTSample, *PreferenceSample) {
	if log.HasCorrection() {
		return nil, &PreferenceSample{
			ID:           log.ID.String(),
			Prompt:       deriveInstruction(log.InputContext),
			InputContext: serializeJSON(log.InputContext),
			Chosen:       serializeJSON(log.Correction),
			Rejected:     serializeJSON(log.ModelOutput),
			Metadata: SampleMetadata{
				SourceType:     log.SourceType,
				CorrectionType: log.CorrectionType,
				CorrectorID:    correctorID(log),
			},
		}
	}

	if log.WasAccepted() {
		return &SFTSample{
			ID:          log.ID.String(),
			Instruction: deriveInstruction(log.InputContext),
			Input:       serializeJSON(log.InputContext),
			Output:      serializeJSON(log.ModelOutput),
			Metadata: SampleMetadata{
				SourceType:   log.SourceType,
				Model:        log.ModelName,
				QualityScore: qualityScore(log),
			},
		}, nil
	}

	return nil, nil
}

// Collect partitions logged interactions into SFT and preference sets and
// computes batch statistics. The correction-type histogram counts every log
// that carries a correction type, whether or not it produced a sample.
func (s *trainingService) Collect(logs []model.TrainingLog) *TrainingBatch {
	batch := &TrainingBatch{
		BatchID:    newBatchID(),
		CreatedAt:  time.Now().UTC(),
		SFT:        []SFTSample{},
		Preference: []PreferenceSample{},
		Stats:      BatchStats{CorrectionTypes: map[string]int{}},
	}

	for i := range logs {
		log := &logs[i]
		batch.LogIDs = append(batch.LogIDs, log.ID)

		if log.CorrectionType != "" {
			batch.Stats.CorrectionTypes[log.CorrectionType]++
		}

		sft, pref := s.BuildSample(log)
		if sft != nil {
			batch.SFT = append(batch.SFT, *sft)
		}
		if pref != nil {
			batch.Preference = append(batch.Preference, *pref)
		}
	}

	batch.Stats.SFTSamples = len(batch.SFT)
	batch.Stats.PreferenceSamples = len(batch.Preference)
	batch.Stats.TotalSamples = batch.Stats.SFTSamples + batch.Stats.PreferenceSamples
	return batch
}

// ExportSFT writes the batch's SFT samples as line-delimited JSON: UTF-8,
// one record per line, no enclosing array, each line independently
// parseable.
func (s *trainingService) ExportSFT(batch *TrainingBatch, path string) error {
	return writeJSONL(path, len(batch.SFT), func(i int) interface{} { return batch.SFT[i] })
}

// ExportPreference writes the batch's preference samples as line-delimited
// JSON.
func (s *trainingService) ExportPreference(batch *TrainingBatch, path string) error {
	return writeJSONL(path, len(batch.Preference), func(i int) interface{} { return batch.Preference[i] })
}

// MarkProcessed stamps the given logs as consumed by a batch. Re-marking
// already-processed ids is a no-op, not an error.
func (s *trainingService) MarkProcessed(ids []uuid.UUID, batchID string) (int64, error) {
	return s.trainingRepo.MarkBatchProcessed(ids, batchID)
}

// RunBatch selects unprocessed interactions, collects them into a batch,
// exports both datasets under outputDir, and marks the selection processed.
// Every selected log is marked, including ones that produced no sample, so
// ambiguous interactions are not re-scanned on every run.
func (s *trainingService) RunBatch(limit int, outputDir string) (*TrainingBatch, error) {
	logs, err := s.trainingRepo.ListUnprocessed(limit)
	if err != nil {
		return nil, err
	}

	batch := s.Collect(logs)

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, err
	}
	if err := s.ExportSFT(batch, filepath.Join(outputDir, batch.BatchID+"_sft.jsonl")); err != nil {
		return nil, err
	}
	if err := s.ExportPreference(batch, filepath.Join(outputDir, batch.BatchID+"_preference.jsonl")); err != nil {
		return nil, err
	}

	marked, err := s.MarkProcessed(batch.LogIDs, batch.BatchID)
	if err != nil {
		return nil, err
	}
	utilities.Info("training batch %s: %d SFT, %d preference, %d logs marked processed",
		batch.BatchID, batch.Stats.SFTSamples, batch.Stats.PreferenceSamples, marked)

	return batch, nil
}

// GetTrainingStats summarizes the unprocessed training data pool.
func (s *trainingService) GetTrainingStats(limit int) (map[string]interface{}, error) {
	logs, err := s.trainingRepo.ListUnprocessed(limit)
	if err != nil {
		return nil, err
	}

	withCorrections := 0
	accepted := 0
	correctionTypes := map[string]int{}
	for i := range logs {
		if logs[i].HasCorrection() {
			withCorrections++
		} else if logs[i].WasAccepted() {
			accepted++
		}
		if logs[i].CorrectionType != "" {
			correctionTypes[logs[i].CorrectionType]++
		}
	}

	return map[string]interface{}{
		"total_logs":               len(logs),
		"with_corrections":         withCorrections,
		"accepted_without_changes": accepted,
		"correction_types":         correctionTypes,
		"ready_for_preference":     withCorrections,
		"ready_for_sft":            accepted,
	}, nil
}

// RateAdaptation attaches a 1-5 quality rating to the most recent logged
// interaction for a source. The rating feeds the SFT quality score when the
// log has no metric score.
func (s *trainingService) RateAdaptation(sourceID uuid.UUID, rating int) (*model.TrainingLog, error) {
	log, err := s.trainingRepo.GetLatestBySource(sourceID)
	if err != nil {
		return nil, err
	}
	if log == nil {
		return nil, ErrTrainingLogNotFound
	}

	if rating < 1 {
		rating = 1
	}
	if rating > 5 {
		rating = 5
	}
	log.QualityRating = &rating

	if err := s.trainingRepo.UpdateLog(log); err != nil {
		return nil, err
	}
	return log, nil
}

// ListCorrections returns corrected interactions for review, oldest first.
func (s *trainingService) ListCorrections(limit int) ([]model.TrainingLog, error) {
	return s.trainingRepo.ListWithCorrections(limit)
}

// deriveInstruction extracts or synthesizes the training instruction from an
// interaction's input context. Fixed-priority cascade, deterministic, no
// model call.
func deriveInstruction(ctx model.JSONMap) string {
	if instruction, ok := ctx["instruction"].(string); ok && instruction != "" {
		return instruction
	}
	if blockType, ok := ctx["block_type"].(string); ok && blockType != "" {
		return fmt.Sprintf("Generate adapted %s content for a student", blockType)
	}
	if _, ok := ctx["profile"]; ok {
		return "Adapt the following lesson content for the student profile"
	}
	return "Generate educational content"
}

func newBatchID() string {
	return fmt.Sprintf("batch_%s_%s",
		time.Now().UTC().Format("20060102_150405"),
		uuid.New().String()[:8])
}

func serializeJSON(m model.JSONMap) string {
	data, err := json.Marshal(m)
	if err != nil {
		return "{}"
	}
	return string(data)
}

func correctorID(log *model.TrainingLog) string {
	if log.CorrectedBy == nil {
		return ""
	}
	return log.CorrectedBy.String()
}

func qualityScore(log *model.TrainingLog) *float64 {
	if log.MetricScore != nil {
		return log.MetricScore
	}
	if log.QualityRating != nil {
		score := float64(*log.QualityRating)
		return &score
	}
	return nil
}

func writeJSONL(path string, n int, record func(int) interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for i := 0; i < n; i++ {
		if err := enc.Encode(record(i)); err != nil {
			return err
		}
	}
	return nil
}
