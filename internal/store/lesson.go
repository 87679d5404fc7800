package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/mpalmer-dev/lingua-api/internal/domain"
)

// LessonStore defines the interface for lesson and language persistence.
type LessonStore interface {
	// GetByID retrieves a lesson by its unique ID.
	// Returns ErrLessonNotFound if the lesson does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Lesson, error)

	// ListByLanguage retrieves all lessons for a language, ordered by level.
	// An unknown language code yields an empty slice, not an error.
	ListByLanguage(ctx context.Context, languageCode string) ([]*domain.Lesson, error)
}
