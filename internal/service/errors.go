package service

import "errors"

var (
	// ErrLessonNotFound is returned when the requested lesson does not exist.
	ErrLessonNotFound = errors.New("lesson not found")

	// ErrAdaptedLessonNotFound is returned when a feedback or export target
	// adaptation does not exist.
	ErrAdaptedLessonNotFound = errors.New("adapted lesson not found")

	// ErrBlockNotFound is returned when feedback names a content block that
	// is not part of the adapted lesson.
	ErrBlockNotFound = errors.New("content block not found")

	// ErrMissingProfile is a precondition failure: the student has no
	// learning profile yet, so generation must not be attempted. The caller
	// should complete the assessment first. Distinct from a generation
	// failure on purpose.
	ErrMissingProfile = errors.New("student must complete assessment before accessing lessons")

	// ErrProfileNotFound is returned when a profile read finds nothing.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrTrainingLogNotFound is returned when a rating or lookup targets a
	// logged interaction that does not exist.
	ErrTrainingLogNotFound = errors.New("training log not found")
)
