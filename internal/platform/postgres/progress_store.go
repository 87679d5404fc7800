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

// LessonProgressStore implements the store.LessonProgressStore interface
// using a PostgreSQL database as the storage backend.
type LessonProgressStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewLessonProgressStore creates a new PostgreSQL implementation of the
// LessonProgressStore interface.
func NewLessonProgressStore(db store.DBTX, logger *slog.Logger) *LessonProgressStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &LessonProgressStore{
		db:     db,
		logger: logger.With(slog.String("component", "lesson_progress_store")),
	}
}

// Ensure LessonProgressStore implements store.LessonProgressStore.
var _ store.LessonProgressStore = (*LessonProgressStore)(nil)

// Get implements store.LessonProgressStore.Get.
func (s *LessonProgressStore) Get(ctx context.Context, userID, lessonID uuid.UUID) (*domain.LessonProgress, error) {
	const query = `
		SELECT user_id, lesson_id, xp, streak, completed, created_at, updated_at
		FROM user_lesson_progress
		WHERE user_id = $1 AND lesson_id = $2`

	var progress domain.LessonProgress
	err := s.db.QueryRowContext(ctx, query, userID, lessonID).Scan(
		&progress.UserID, &progress.LessonID, &progress.XP,
		&progress.Streak, &progress.Completed,
		&progress.CreatedAt, &progress.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrProgressNotFound
		}
		return nil, wrapError("lesson_progress", "get", err)
	}

	return &progress, nil
}

// Upsert implements store.LessonProgressStore.Upsert.
//
// Completed is guarded with OR so it stays monotonic even if a caller hands
// in a stale record.
func (s *LessonProgressStore) Upsert(ctx context.Context, progress *domain.LessonProgress) error {
	if err := progress.Validate(); err != nil {
		return store.NewStoreError("lesson_progress", "upsert", err)
	}

	const query = `
		INSERT INTO user_lesson_progress
			(user_id, lesson_id, xp, streak, completed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, lesson_id) DO UPDATE SET
			xp         = EXCLUDED.xp,
			streak     = EXCLUDED.streak,
			completed  = user_lesson_progress.completed OR EXCLUDED.completed,
			updated_at = EXCLUDED.updated_at`

	_, err := s.db.ExecContext(ctx, query,
		progress.UserID, progress.LessonID, progress.XP,
		progress.Streak, progress.Completed,
		progress.CreatedAt, progress.UpdatedAt,
	)
	if err != nil {
		return wrapError("lesson_progress", "upsert", err)
	}

	return nil
}
