package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mpalmer-dev/lingua-api/internal/domain"
)

// ExerciseStore defines the interface for exercise data persistence.
type ExerciseStore interface {
	// GetByID retrieves an exercise by its unique ID.
	// Returns ErrExerciseNotFound if the exercise does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Exercise, error)

	// ListByLesson retrieves all exercises belonging to a lesson.
	ListByLesson(ctx context.Context, lessonID uuid.UUID) ([]*domain.Exercise, error)

	// ListDue retrieves up to limit exercises whose memory trace for the
	// given user has a next review time at or before now.
	ListDue(ctx context.Context, userID uuid.UUID, now time.Time, limit int) ([]*domain.Exercise, error)
}
