package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/mpalmer-dev/lingua-api/internal/domain"
)

// ExerciseMemoryStore defines the interface for spaced-repetition memory
// state persistence, keyed by (user, exercise).
type ExerciseMemoryStore interface {
	// Get retrieves the memory trace for a user and exercise.
	// Returns ErrMemoryNotFound if no trace exists yet.
	Get(ctx context.Context, userID, exerciseID uuid.UUID) (*domain.ExerciseMemory, error)

	// Upsert creates the memory trace if absent or replaces it otherwise.
	// It handles domain validation internally.
	Upsert(ctx context.Context, memory *domain.ExerciseMemory) error
}
