package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mpalmer-dev/lingua-api/internal/domain"
	"github.com/mpalmer-dev/lingua-api/internal/store"
)

// ExerciseStore implements the store.ExerciseStore interface using a
// PostgreSQL database as the storage backend.
type ExerciseStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewExerciseStore creates a new PostgreSQL implementation of the
// ExerciseStore interface.
func NewExerciseStore(db store.DBTX, logger *slog.Logger) *ExerciseStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ExerciseStore{
		db:     db,
		logger: logger.With(slog.String("component", "exercise_store")),
	}
}

// Ensure ExerciseStore implements store.ExerciseStore.
var _ store.ExerciseStore = (*ExerciseStore)(nil)

const exerciseColumns = `
	id, lesson_id, type, prompt, correct_answer,
	wrong_answer_1, wrong_answer_2, wrong_answer_3`

// GetByID implements store.ExerciseStore.GetByID.
func (s *ExerciseStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Exercise, error) {
	query := `SELECT ` + exerciseColumns + ` FROM exercises WHERE id = $1`

	exercise, err := scanExercise(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrExerciseNotFound
		}
		return nil, wrapError("exercise", "get_by_id", err)
	}

	return exercise, nil
}

// ListByLesson implements store.ExerciseStore.ListByLesson.
func (s *ExerciseStore) ListByLesson(ctx context.Context, lessonID uuid.UUID) ([]*domain.Exercise, error) {
	query := `SELECT ` + exerciseColumns + ` FROM exercises WHERE lesson_id = $1 ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, lessonID)
	if err != nil {
		return nil, wrapError("exercise", "list_by_lesson", err)
	}
	return s.collectExercises(rows, "list_by_lesson")
}

// ListDue implements store.ExerciseStore.ListDue. Due filtering joins on the
// per-user memory traces: an exercise with no trace has never been answered
// and is introduced through its lesson, not the review queue.
func (s *ExerciseStore) ListDue(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
	limit int,
) ([]*domain.Exercise, error) {
	query := `
		SELECT ` + exerciseColumns + `
		FROM exercises e
		JOIN user_exercise_memory m ON m.exercise_id = e.id
		WHERE m.user_id = $1 AND m.next_review_at <= $2
		ORDER BY m.next_review_at
		LIMIT $3`

	rows, err := s.db.QueryContext(ctx, query, userID, now, limit)
	if err != nil {
		return nil, wrapError("exercise", "list_due", err)
	}
	return s.collectExercises(rows, "list_due")
}

// collectExercises drains rows into exercises, closing rows on all paths.
func (s *ExerciseStore) collectExercises(rows *sql.Rows, operation string) ([]*domain.Exercise, error) {
	defer func() {
		if err := rows.Close(); err != nil {
			s.logger.Warn("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var exercises []*domain.Exercise
	for rows.Next() {
		exercise, err := scanExercise(rows)
		if err != nil {
			return nil, wrapError("exercise", operation, err)
		}
		exercises = append(exercises, exercise)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapError("exercise", operation, err)
	}

	return exercises, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanExercise reads one exercise row, folding the three nullable distractor
// columns into the WrongAnswers slice.
func scanExercise(row rowScanner) (*domain.Exercise, error) {
	var (
		exercise domain.Exercise
		wrong1   sql.NullString
		wrong2   sql.NullString
		wrong3   sql.NullString
	)

	err := row.Scan(
		&exercise.ID, &exercise.LessonID, &exercise.Type,
		&exercise.Prompt, &exercise.CorrectAnswer,
		&wrong1, &wrong2, &wrong3,
	)
	if err != nil {
		return nil, err
	}

	for _, wrong := range []sql.NullString{wrong1, wrong2, wrong3} {
		if wrong.Valid && wrong.String != "" {
			exercise.WrongAnswers = append(exercise.WrongAnswers, wrong.String)
		}
	}

	return &exercise, nil
}
