package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mpalmer-dev/lingua-api/internal/domain"
	"github.com/mpalmer-dev/lingua-api/internal/store"
)

// ExerciseMemoryStore implements the store.ExerciseMemoryStore interface
// using a PostgreSQL database as the storage backend.
type ExerciseMemoryStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewExerciseMemoryStore creates a new PostgreSQL implementation of the
// ExerciseMemoryStore interface.
func NewExerciseMemoryStore(db store.DBTX, logger *slog.Logger) *ExerciseMemoryStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ExerciseMemoryStore{
		db:     db,
		logger: logger.With(slog.String("component", "exercise_memory_store")),
	}
}

// Ensure ExerciseMemoryStore implements store.ExerciseMemoryStore.
var _ store.ExerciseMemoryStore = (*ExerciseMemoryStore)(nil)

// Get implements store.ExerciseMemoryStore.Get.
func (s *ExerciseMemoryStore) Get(ctx context.Context, userID, exerciseID uuid.UUID) (*domain.ExerciseMemory, error) {
	const query = `
		SELECT user_id, exercise_id, repetitions, easiness, interval_days,
		       next_review_at, created_at, updated_at
		FROM user_exercise_memory
		WHERE user_id = $1 AND exercise_id = $2`

	var memory domain.ExerciseMemory
	err := s.db.QueryRowContext(ctx, query, userID, exerciseID).Scan(
		&memory.UserID, &memory.ExerciseID, &memory.Repetitions,
		&memory.Easiness, &memory.Interval,
		&memory.NextReviewAt, &memory.CreatedAt, &memory.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrMemoryNotFound
		}
		return nil, wrapError("exercise_memory", "get", err)
	}

	return &memory, nil
}

// Upsert implements store.ExerciseMemoryStore.Upsert. Traces are created
// lazily on the first answer, so insert-or-update in one statement keeps the
// first and every later answer on the same code path.
func (s *ExerciseMemoryStore) Upsert(ctx context.Context, memory *domain.ExerciseMemory) error {
	if err := memory.Validate(); err != nil {
		return store.NewStoreError("exercise_memory", "upsert", err)
	}

	const query = `
		INSERT INTO user_exercise_memory
			(user_id, exercise_id, repetitions, easiness, interval_days,
			 next_review_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id, exercise_id) DO UPDATE SET
			repetitions    = EXCLUDED.repetitions,
			easiness       = EXCLUDED.easiness,
			interval_days  = EXCLUDED.interval_days,
			next_review_at = EXCLUDED.next_review_at,
			updated_at     = EXCLUDED.updated_at`

	_, err := s.db.ExecContext(ctx, query,
		memory.UserID, memory.ExerciseID, memory.Repetitions,
		memory.Easiness, memory.Interval,
		memory.NextReviewAt, memory.CreatedAt, memory.UpdatedAt,
	)
	if err != nil {
		return wrapError("exercise_memory", "upsert", err)
	}

	return nil
}
