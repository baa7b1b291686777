package service

import (
	"github.com/google/uuid"

	"neuroleap-backend/internal/llm"
	"neuroleap-backend/internal/model"
)

// In-memory repository fakes. They mirror the storage contracts the real
// repositories implement: absent rows come back as (nil, nil), SaveGenerated
// upserts on the (lesson, student) pair, and MarkBatchProcessed skips rows
// already processed.

type fakeLessonRepo struct {
	lessons map[uuid.UUID]*model.Lesson
}

func newFakeLessonRepo(lessons ...*model.Lesson) *fakeLessonRepo {
	r := &fakeLessonRepo{lessons: map[uuid.UUID]*model.Lesson{}}
	for _, l := range lessons {
		r.lessons[l.ID] = l
	}
	return r
}

func (r *fakeLessonRepo) GetLessons() ([]model.Lesson, error) {
	out := make([]model.Lesson, 0, len(r.lessons))
	for _, l := range r.lessons {
		out = append(out, *l)
	}
	return out, nil
}

func (r *fakeLessonRepo) GetLessonsBySubject(subject string) ([]model.Lesson, error) {
	var out []model.Lesson
	for _, l := range r.lessons {
		if l.Subject == subject {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (r *fakeLessonRepo) GetLessonByID(lessonID uuid.UUID) (*model.Lesson, error) {
	return r.lessons[lessonID], nil
}

func (r *fakeLessonRepo) CreateLesson(lesson *model.Lesson) error {
	if lesson.ID == uuid.Nil {
		lesson.ID = uuid.New()
	}
	r.lessons[lesson.ID] = lesson
	return nil
}

func (r *fakeLessonRepo) UpdateLesson(lesson *model.Lesson) error {
	r.lessons[lesson.ID] = lesson
	return nil
}

func (r *fakeLessonRepo) IncrementViewCount(lessonID uuid.UUID) error {
	if l, ok := r.lessons[lessonID]; ok {
		l.ViewCount++
	}
	return nil
}

type pairKey struct {
	lesson  uuid.UUID
	student uuid.UUID
}

type fakeAdaptedRepo struct {
	byPair     map[pairKey]*model.AdaptedLesson
	lessonRepo *fakeLessonRepo
	saveCalls  int
	saveErr    error
}

func newFakeAdaptedRepo(lessonRepo *fakeLessonRepo) *fakeAdaptedRepo {
	return &fakeAdaptedRepo{byPair: map[pairKey]*model.AdaptedLesson{}, lessonRepo: lessonRepo}
}

func (r *fakeAdaptedRepo) GetByID(id uuid.UUID) (*model.AdaptedLesson, error) {
	for _, a := range r.byPair {
		if a.ID == id {
			copied := *a
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeAdaptedRepo) GetByLessonAndStudent(lessonID, studentID uuid.UUID) (*model.AdaptedLesson, error) {
	a, ok := r.byPair[pairKey{lessonID, studentID}]
	if !ok {
		return nil, nil
	}
	copied := *a
	return &copied, nil
}

func (r *fakeAdaptedRepo) Update(adapted *model.AdaptedLesson) error {
	copied := *adapted
	r.byPair[pairKey{adapted.LessonID, adapted.StudentID}] = &copied
	return nil
}

func (r *fakeAdaptedRepo) SaveGenerated(adapted *model.AdaptedLesson) error {
	r.saveCalls++
	if r.saveErr != nil {
		return r.saveErr
	}
	if adapted.ID == uuid.Nil {
		adapted.ID = uuid.New()
	}
	copied := *adapted
	r.byPair[pairKey{adapted.LessonID, adapted.StudentID}] = &copied
	if r.lessonRepo != nil {
		if l, ok := r.lessonRepo.lessons[adapted.LessonID]; ok {
			l.AdaptationCount++
		}
	}
	return nil
}

func (r *fakeAdaptedRepo) ListByStudent(studentID uuid.UUID) ([]model.AdaptedLesson, error) {
	var out []model.AdaptedLesson
	for _, a := range r.byPair {
		if a.StudentID == studentID {
			out = append(out, *a)
		}
	}
	return out, nil
}

type fakeProfileRepo struct {
	profiles map[uuid.UUID]*model.NeuroProfile
}

func newFakeProfileRepo(profiles ...*model.NeuroProfile) *fakeProfileRepo {
	r := &fakeProfileRepo{profiles: map[uuid.UUID]*model.NeuroProfile{}}
	for _, p := range profiles {
		r.profiles[p.StudentID] = p
	}
	return r
}

func (r *fakeProfileRepo) GetByStudentID(studentID uuid.UUID) (*model.NeuroProfile, error) {
	p, ok := r.profiles[studentID]
	if !ok {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

func (r *fakeProfileRepo) CreateProfile(profile *model.NeuroProfile) error {
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	copied := *profile
	r.profiles[profile.StudentID] = &copied
	return nil
}

func (r *fakeProfileRepo) UpdateProfile(profile *model.NeuroProfile) error {
	copied := *profile
	r.profiles[profile.StudentID] = &copied
	return nil
}

type fakeTrainingRepo struct {
	logs      []*model.TrainingLog
	createErr error
}

func (r *fakeTrainingRepo) CreateLog(log *model.TrainingLog) error {
	if r.createErr != nil {
		return r.createErr
	}
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	if log.Status == "" {
		log.Status = model.TrainingStatusAccepted
	}
	r.logs = append(r.logs, log)
	return nil
}

func (r *fakeTrainingRepo) GetByID(id uuid.UUID) (*model.TrainingLog, error) {
	for _, l := range r.logs {
		if l.ID == id {
			return l, nil
		}
	}
	return nil, nil
}

func (r *fakeTrainingRepo) GetLatestBySource(sourceID uuid.UUID) (*model.TrainingLog, error) {
	for i := len(r.logs) - 1; i >= 0; i-- {
		if r.logs[i].SourceID == sourceID {
			return r.logs[i], nil
		}
	}
	return nil, nil
}

func (r *fakeTrainingRepo) UpdateLog(log *model.TrainingLog) error {
	for i, l := range r.logs {
		if l.ID == log.ID {
			r.logs[i] = log
			return nil
		}
	}
	return nil
}

func (r *fakeTrainingRepo) ListUnprocessed(limit int) ([]model.TrainingLog, error) {
	var out []model.TrainingLog
	for _, l := range r.logs {
		if !l.IsProcessed {
			out = append(out, *l)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

func (r *fakeTrainingRepo) ListWithCorrections(limit int) ([]model.TrainingLog, error) {
	var out []model.TrainingLog
	for _, l := range r.logs {
		if l.Status == model.TrainingStatusCorrected {
			out = append(out, *l)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

func (r *fakeTrainingRepo) MarkBatchProcessed(ids []uuid.UUID, batchID string) (int64, error) {
	wanted := map[uuid.UUID]bool{}
	for _, id := range ids {
		wanted[id] = true
	}
	var marked int64
	for _, l := range r.logs {
		if wanted[l.ID] && !l.IsProcessed {
			l.MarkProcessed(batchID)
			marked++
		}
	}
	return marked, nil
}

// fakeGateway returns canned adaptation results and counts model calls.
type fakeGateway struct {
	result      *llm.AdaptationResult
	err         error
	adaptCalls  int
	quiz        []llm.QuizQuestion
	quizContent string
	quizN       int
	prompt      string
	promptFor   string
}

func (g *fakeGateway) Adapt(lesson *model.Lesson, profile *model.NeuroProfile) (*llm.AdaptationResult, error) {
	g.adaptCalls++
	if g.err != nil {
		return nil, g.err
	}
	return g.result, nil
}

func (g *fakeGateway) AdaptQuiz(content string, profile *model.NeuroProfile, n int) ([]llm.QuizQuestion, error) {
	g.quizContent = content
	g.quizN = n
	if g.err != nil {
		return nil, g.err
	}
	return g.quiz, nil
}

func (g *fakeGateway) AdaptImagePrompt(concept string, profile *model.NeuroProfile) (string, error) {
	g.promptFor = concept
	if g.err != nil {
		return "", g.err
	}
	return g.prompt, nil
}

func (g *fakeGateway) ModelName() string { return "test-model" }

// fakeProfileGateway returns a canned profile result.
type fakeProfileGateway struct {
	result *llm.ProfileResult
	err    error
	calls  int
}

func (g *fakeProfileGateway) GenerateProfile(assessment map[string]interface{}) (*llm.ProfileResult, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return g.result, nil
}

func (g *fakeProfileGateway) ModelName() string { return "test-model" }
