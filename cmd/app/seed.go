package main

import (
	"github.com/google/uuid"

	"neuroleap-backend/internal/db"
	"neuroleap-backend/internal/model"
	"neuroleap-backend/utilities"
)

// seedDemoLessons inserts a small set of lessons on a fresh database so the
// personalization pipeline has something to adapt. Skipped when lessons
// already exist.
func seedDemoLessons() {
	var count int64
	if err := db.GetDB().Model(&model.Lesson{}).Count(&count).Error; err != nil {
		utilities.Warn("seed check failed: %v", err)
		return
	}
	if count > 0 {
		return
	}

	demoTeacher := uuid.New()
	lessons := []model.Lesson{
		{
			TeacherID:           demoTeacher,
			Title:               "Photosynthesis Basics",
			Description:         "How plants turn sunlight into energy",
			OriginalTextContent: "Photosynthesis converts sunlight into energy. Plants use chlorophyll in their leaves to capture light. With water from the roots and carbon dioxide from the air, they produce glucose and oxygen.",
			Subject:             "science",
			Topic:               "biology",
			TargetGradeLevel:    3,
			Status:              model.LessonStatusPublished,
		},
		{
			TeacherID:           demoTeacher,
			Title:               "Introduction to Fractions",
			Description:         "Halves, thirds and quarters",
			OriginalTextContent: "A fraction names part of a whole. When a pizza is cut into four equal slices, each slice is one quarter. Two slices together make one half.",
			Subject:             "math",
			Topic:               "fractions",
			TargetGradeLevel:    3,
			Status:              model.LessonStatusPublished,
		},
		{
			TeacherID:           demoTeacher,
			Title:               "The Water Cycle",
			Description:         "Evaporation, condensation and rain",
			OriginalTextContent: "Water moves in a cycle. The sun heats water in oceans and lakes until it evaporates. Water vapor rises, cools, and condenses into clouds. When droplets grow heavy they fall as rain.",
			Subject:             "science",
			Topic:               "earth science",
			TargetGradeLevel:    4,
			Status:              model.LessonStatusPublished,
		},
	}

	for i := range lessons {
		if err := db.GetDB().Create(&lessons[i]).Error; err != nil {
			utilities.Warn("failed to seed lesson %q: %v", lessons[i].Title, err)
		}
	}
	utilities.Info("seeded %d demo lessons", len(lessons))
}
