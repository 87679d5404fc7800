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

// LessonStore implements the store.LessonStore interface using a PostgreSQL
// database as the storage backend.
type LessonStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewLessonStore creates a new PostgreSQL implementation of the LessonStore
// interface.
func NewLessonStore(db store.DBTX, logger *slog.Logger) *LessonStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &LessonStore{
		db:     db,
		logger: logger.With(slog.String("component", "lesson_store")),
	}
}

// Ensure LessonStore implements store.LessonStore.
var _ store.LessonStore = (*LessonStore)(nil)

// GetByID implements store.LessonStore.GetByID.
func (s *LessonStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Lesson, error) {
	const query = `
		SELECT id, language_code, level, title
		FROM lessons
		WHERE id = $1`

	var lesson domain.Lesson
	err := s.db.QueryRowContext(ctx, query, id).
		Scan(&lesson.ID, &lesson.LanguageCode, &lesson.Level, &lesson.Title)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrLessonNotFound
		}
		return nil, wrapError("lesson", "get_by_id", err)
	}

	return &lesson, nil
}

// ListByLanguage implements store.LessonStore.ListByLanguage.
func (s *LessonStore) ListByLanguage(ctx context.Context, languageCode string) ([]*domain.Lesson, error) {
	const query = `
		SELECT id, language_code, level, title
		FROM lessons
		WHERE language_code = $1
		ORDER BY level`

	rows, err := s.db.QueryContext(ctx, query, languageCode)
	if err != nil {
		return nil, wrapError("lesson", "list_by_language", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			s.logger.Warn("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var lessons []*domain.Lesson
	for rows.Next() {
		var lesson domain.Lesson
		if err := rows.Scan(&lesson.ID, &lesson.LanguageCode, &lesson.Level, &lesson.Title); err != nil {
			return nil, wrapError("lesson", "list_by_language", err)
		}
		lessons = append(lessons, &lesson)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapError("lesson", "list_by_language", err)
	}

	return lessons, nil
}
