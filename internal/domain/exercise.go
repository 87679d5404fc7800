package domain

import (
	"errors"

	"github.com/google/uuid"
)

// Exercise-specific validation errors.
var (
	ErrEmptyExerciseID       = errors.New("exercise ID cannot be empty")
	ErrEmptyExerciseLessonID = errors.New("exercise lesson ID cannot be empty")
	ErrEmptyExercisePrompt   = errors.New("exercise prompt cannot be empty")
	ErrEmptyCorrectAnswer    = errors.New("exercise correct answer cannot be empty")
	ErrInvalidExerciseType   = errors.New("invalid exercise type")
)

// ExerciseType distinguishes how an exercise is presented to the learner.
type ExerciseType string

// Supported exercise types.
const (
	ExerciseTypeTranslation    ExerciseType = "translation"
	ExerciseTypeMultipleChoice ExerciseType = "multiple_choice"
	ExerciseTypeFillBlank      ExerciseType = "fill_blank"
)

// Exercise is a single question within a lesson. WrongAnswers holds the
// distractor options for multiple-choice exercises and may be empty for
// free-form types.
//
// CorrectAnswer must never be serialized to clients before the learner has
// answered; the API layer enforces this with its own response types.
type Exercise struct {
	ID            uuid.UUID    `json:"id"`
	LessonID      uuid.UUID    `json:"lesson_id"`
	Type          ExerciseType `json:"type"`
	Prompt        string       `json:"prompt"`
	CorrectAnswer string       `json:"-"`
	WrongAnswers  []string     `json:"-"`
}

// NewExercise creates a new Exercise with a generated ID.
// Returns an error if validation fails.
func NewExercise(
	lessonID uuid.UUID,
	exerciseType ExerciseType,
	prompt, correctAnswer string,
	wrongAnswers []string,
) (*Exercise, error) {
	exercise := &Exercise{
		ID:            uuid.New(),
		LessonID:      lessonID,
		Type:          exerciseType,
		Prompt:        prompt,
		CorrectAnswer: correctAnswer,
		WrongAnswers:  wrongAnswers,
	}

	if err := exercise.Validate(); err != nil {
		return nil, err
	}

	return exercise, nil
}

// Validate checks if the Exercise has valid data.
func (e *Exercise) Validate() error {
	if e.ID == uuid.Nil {
		return ErrEmptyExerciseID
	}
	if e.LessonID == uuid.Nil {
		return ErrEmptyExerciseLessonID
	}
	switch e.Type {
	case ExerciseTypeTranslation, ExerciseTypeMultipleChoice, ExerciseTypeFillBlank:
	default:
		return ErrInvalidExerciseType
	}
	if e.Prompt == "" {
		return ErrEmptyExercisePrompt
	}
	if e.CorrectAnswer == "" {
		return ErrEmptyCorrectAnswer
	}
	return nil
}
