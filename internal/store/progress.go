package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/mpalmer-dev/lingua-api/internal/domain"
)

// LessonProgressStore defines the interface for lesson progress persistence,
// keyed by (user, lesson).
type LessonProgressStore interface {
	// Get retrieves the progress record for a user and lesson.
	// Returns ErrProgressNotFound if no record exists yet.
	Get(ctx context.Context, userID, lessonID uuid.UUID) (*domain.LessonProgress, error)

	// Upsert creates the progress record if absent or replaces it otherwise.
	// It handles domain validation internally.
	Upsert(ctx context.Context, progress *domain.LessonProgress) error
}
