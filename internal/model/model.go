package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Lesson statuses.
const (
	LessonStatusDraft     = "draft"
	LessonStatusPublished = "published"
	LessonStatusArchived  = "archived"
)

// AdaptedLesson statuses.
const (
	AdaptedStatusPending    = "pending"
	AdaptedStatusGenerating = "generating"
	AdaptedStatusReady      = "ready"
	AdaptedStatusFailed     = "failed"
)

// TrainingLog statuses. A log is created as accepted and flips to corrected
// exactly once; there is no transition back.
const (
	TrainingStatusAccepted  = "accepted"
	TrainingStatusCorrected = "corrected"
)

// TrainingLog source types.
const (
	SourceAdaptedLesson = "adapted_lesson"
	SourceNeuroProfile  = "neuro_profile"
)

// Learning styles recognized by the adaptation prompts.
var KnownLearningStyles = []string{"visual", "auditory", "kinesthetic", "reading_writing", "multimodal"}

// Lesson is the teacher-uploaded source material that gets adapted per student.
type Lesson struct {
	ID                  uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	TeacherID           uuid.UUID `json:"teacher_id" gorm:"type:uuid;index"`
	Title               string    `json:"title" gorm:"not null"`
	Description         string    `json:"description"`
	OriginalTextContent string    `json:"original_text_content" gorm:"type:text"`
	Subject             string    `json:"subject"`
	Topic               string    `json:"topic"`
	TargetGradeLevel    int       `json:"target_grade_level" gorm:"default:3"`
	Status              string    `json:"status" gorm:"default:'draft'"`
	ViewCount           int       `json:"view_count" gorm:"default:0"`
	AdaptationCount     int       `json:"adaptation_count" gorm:"default:0"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func (l *Lesson) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// NeuroProfile stores a student's learning profile. This is the AI context
// used to condition lesson personalization, generated from assessment answers
// and refined over time.
type NeuroProfile struct {
	ID                   uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	StudentID            uuid.UUID  `json:"student_id" gorm:"type:uuid;uniqueIndex;not null"`
	LearningStyle        string     `json:"learning_style" gorm:"default:'visual'"`
	ReadingLevel         string     `json:"reading_level" gorm:"default:'grade_3'"`
	ComplexityTolerance  string     `json:"complexity_tolerance" gorm:"default:'medium'"`
	AttentionSpanMinutes int        `json:"attention_span_minutes" gorm:"default:15"`
	SensoryTriggers      StringList `json:"sensory_triggers" gorm:"type:text"`
	Interests            StringList `json:"interests" gorm:"type:text"`
	Version              int        `json:"version" gorm:"default:1"`
	CreatedAt            time.Time  `json:"created_at"`
	LastUpdated          time.Time  `json:"last_updated"`
}

func (p *NeuroProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Normalize enforces the profile invariants: attention span clamped to
// [5,30] and the interests list truncated to at most 10 entries.
func (p *NeuroProfile) Normalize() {
	if p.AttentionSpanMinutes < 5 {
		p.AttentionSpanMinutes = 5
	}
	if p.AttentionSpanMinutes > 30 {
		p.AttentionSpanMinutes = 30
	}
	if len(p.Interests) > 10 {
		p.Interests = p.Interests[:10]
	}
}

// Touch bumps the version counter and the last-updated timestamp. Every
// profile mutation goes through here.
func (p *NeuroProfile) Touch() {
	p.Version++
	p.LastUpdated = time.Now().UTC()
}

// AdaptedLesson is the per-(lesson, student) cache entry holding the
// personalized content blocks. At most one active row exists per pair;
// regeneration overwrites rather than duplicates.
type AdaptedLesson struct {
	ID                   uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	LessonID             uuid.UUID `json:"lesson_id" gorm:"type:uuid;not null;uniqueIndex:idx_lesson_student"`
	StudentID            uuid.UUID `json:"student_id" gorm:"type:uuid;not null;uniqueIndex:idx_lesson_student"`
	LessonTitle          string    `json:"lesson_title" gorm:"not null"`
	AdaptationStyle      string    `json:"adaptation_style"`
	ContentBlocks        BlockList `json:"content_blocks" gorm:"type:text"`
	Status               string    `json:"status" gorm:"default:'pending';index"`
	AIModelUsed          string    `json:"ai_model_used"`
	GenerationDurationMs int       `json:"generation_duration_ms"`
	ViewCount            int       `json:"view_count" gorm:"default:0"`
	CompletionCount      int       `json:"completion_count" gorm:"default:0"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

func (a *AdaptedLesson) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// TrainingLog captures one model interaction for fine-tuning. Created at
// generation time as accepted; a teacher correction flips it to corrected,
// and the flip is one-way.
type TrainingLog struct {
	ID              uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	SourceID        uuid.UUID  `json:"source_id" gorm:"type:uuid;index;not null"`
	SourceType      string     `json:"source_type" gorm:"not null"`
	InputContext    JSONMap    `json:"input_context" gorm:"type:text"`
	ModelOutput     JSONMap    `json:"model_output" gorm:"type:text"`
	Status          string     `json:"status" gorm:"default:'accepted';index"`
	Correction      JSONMap    `json:"correction" gorm:"type:text"`
	CorrectedBy     *uuid.UUID `json:"corrected_by" gorm:"type:uuid"`
	CorrectionType  string     `json:"correction_type"`
	CorrectionNotes string     `json:"correction_notes"`
	ModelName       string     `json:"model_name"`
	MetricScore     *float64   `json:"metric_score"`
	QualityRating   *int       `json:"quality_rating"`
	IsProcessed     bool       `json:"is_processed" gorm:"default:false;index"`
	ProcessedAt     *time.Time `json:"processed_at"`
	TrainingBatchID string     `json:"training_batch_id"`
	CreatedAt       time.Time  `json:"created_at"`
}

func (t *TrainingLog) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Status == "" {
		t.Status = TrainingStatusAccepted
	}
	return nil
}

// HasCorrection reports whether a human correction is on file.
func (t *TrainingLog) HasCorrection() bool {
	return t.Status == TrainingStatusCorrected && t.Correction != nil
}

// WasAccepted reports whether the model output was used without changes.
func (t *TrainingLog) WasAccepted() bool {
	return t.Status == TrainingStatusAccepted
}

// ApplyCorrection records a teacher correction. A corrected log is never
// un-corrected, so applying a second correction only updates the payload.
func (t *TrainingLog) ApplyCorrection(correction JSONMap, userID uuid.UUID, correctionType, notes string) {
	t.Correction = correction
	t.CorrectedBy = &userID
	t.CorrectionType = correctionType
	t.CorrectionNotes = notes
	t.Status = TrainingStatusCorrected
}

// MarkProcessed stamps the log as consumed by a training batch. Re-marking
// an already-processed log is a no-op.
func (t *TrainingLog) MarkProcessed(batchID string) {
	if t.IsProcessed {
		return
	}
	now := time.Now().UTC()
	t.IsProcessed = true
	t.ProcessedAt = &now
	t.TrainingBatchID = batchID
}
