package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for ExerciseMemory.
var (
	ErrEmptyMemoryUserID     = errors.New("exercise memory user ID cannot be empty")
	ErrEmptyMemoryExerciseID = errors.New("exercise memory exercise ID cannot be empty")
	ErrInvalidRepetitions    = errors.New("repetitions must be greater than or equal to 0")
	ErrInvalidInterval       = errors.New("interval must be greater than or equal to 0")
	ErrInvalidEasiness       = errors.New("easiness must be at least 1.3")
)

// DefaultEasiness is the SM-2 starting easiness for a brand-new memory trace.
const DefaultEasiness = 2.5

// MinEasiness is the SM-2 floor below which easiness never drops.
const MinEasiness = 1.3

// ExerciseMemory tracks a user's spaced repetition state for one exercise.
// It is the per-(user, exercise) memory model of the SM-2 variant: created
// lazily on the first answer and mutated on every answer after that, but
// never deleted.
type ExerciseMemory struct {
	UserID       uuid.UUID `json:"user_id"`
	ExerciseID   uuid.UUID `json:"exercise_id"`
	Repetitions  int       `json:"repetitions"`
	Easiness     float64   `json:"easiness"`
	Interval     int       `json:"interval"` // Days until the next review
	NextReviewAt time.Time `json:"next_review_at"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewExerciseMemory creates a memory trace for a user and exercise with SM-2
// starting values. The exercise is due immediately.
func NewExerciseMemory(userID, exerciseID uuid.UUID, now time.Time) (*ExerciseMemory, error) {
	memory := &ExerciseMemory{
		UserID:       userID,
		ExerciseID:   exerciseID,
		Repetitions:  0,
		Easiness:     DefaultEasiness,
		Interval:     0,
		NextReviewAt: now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := memory.Validate(); err != nil {
		return nil, err
	}

	return memory, nil
}

// Validate checks if the ExerciseMemory has valid data.
// Returns an error if any field fails validation.
func (m *ExerciseMemory) Validate() error {
	if m.UserID == uuid.Nil {
		return ErrEmptyMemoryUserID
	}
	if m.ExerciseID == uuid.Nil {
		return ErrEmptyMemoryExerciseID
	}
	if m.Repetitions < 0 {
		return ErrInvalidRepetitions
	}
	if m.Interval < 0 {
		return ErrInvalidInterval
	}
	if m.Easiness < MinEasiness {
		return ErrInvalidEasiness
	}
	return nil
}
