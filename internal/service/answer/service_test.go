package answer

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpalmer-dev/lingua-api/internal/domain"
	"github.com/mpalmer-dev/lingua-api/internal/platform/memstore"
	"github.com/mpalmer-dev/lingua-api/internal/store"
)

type fixture struct {
	svc       *Service
	exercises *memstore.ExerciseStore
	memories  *memstore.MemoryStore
	progress  *memstore.ProgressStore
	exercise  *domain.Exercise
	userID    uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	memories := memstore.NewMemoryStore()
	exercises := memstore.NewExerciseStore(memories)
	progress := memstore.NewProgressStore()

	lessonID := uuid.New()
	exercise, err := domain.NewExercise(
		lessonID,
		domain.ExerciseTypeTranslation,
		"Translate: dog",
		"perro",
		nil,
	)
	require.NoError(t, err)
	exercises.Add(exercise)

	return &fixture{
		svc:       NewService(exercises, memories, progress),
		exercises: exercises,
		memories:  memories,
		progress:  progress,
		exercise:  exercise,
		userID:    uuid.New(),
	}
}

func TestSubmitUnknownExercise(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.svc.Submit(context.Background(), f.userID, uuid.New(), "perro")
	assert.ErrorIs(t, err, ErrExerciseNotFound)
}

func TestSubmitCorrectAnswer(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	result, err := f.svc.Submit(ctx, f.userID, f.exercise.ID, "perro")
	require.NoError(t, err)

	assert.True(t, result.Correct)
	assert.Equal(t, XPPerCorrectAnswer, result.XPAwarded)
	assert.Equal(t, 1, result.NewStreak)
	assert.Equal(t, 1, result.IntervalDays)
	assert.Equal(t, "Nice! You got it right.", result.Explanation)
	assert.NotContains(t, result.Explanation, "perro")

	memory, err := f.memories.Get(ctx, f.userID, f.exercise.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, memory.Repetitions)
	assert.Equal(t, memory.NextReviewAt, result.NextReviewAt)
}

func TestSubmitComparisonIgnoresCaseAndWhitespace(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	testCases := []struct {
		name    string
		answer  string
		correct bool
	}{
		{name: "exact match", answer: "perro", correct: true},
		{name: "uppercase", answer: "PERRO", correct: true},
		{name: "surrounding whitespace", answer: "  perro \n", correct: true},
		{name: "mixed case with whitespace", answer: " Perro ", correct: true},
		{name: "wrong word", answer: "gato", correct: false},
		{name: "interior whitespace differs", answer: "pe rro", correct: false},
		{name: "empty answer", answer: "", correct: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			result, err := f.svc.Submit(context.Background(), uuid.New(), f.exercise.ID, tc.answer)
			require.NoError(t, err)
			assert.Equal(t, tc.correct, result.Correct)
		})
	}
}

func TestSubmitIncorrectAnswerRevealsCorrectAnswer(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	result, err := f.svc.Submit(context.Background(), f.userID, f.exercise.ID, "gato")
	require.NoError(t, err)

	assert.False(t, result.Correct)
	assert.Equal(t, 0, result.XPAwarded)
	assert.Equal(t, 0, result.NewStreak)
	assert.Equal(t, "Correct answer is: perro", result.Explanation)
}

func TestSubmitIncorrectAnswerResetsStreakAndSchedule(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	// Build up a streak and a matured schedule first.
	for i := 0; i < 3; i++ {
		_, err := f.svc.Submit(ctx, f.userID, f.exercise.ID, "perro")
		require.NoError(t, err)
	}

	memory, err := f.memories.Get(ctx, f.userID, f.exercise.ID)
	require.NoError(t, err)
	require.Equal(t, 3, memory.Repetitions)
	require.Greater(t, memory.Interval, 1)

	result, err := f.svc.Submit(ctx, f.userID, f.exercise.ID, "gato")
	require.NoError(t, err)

	assert.Equal(t, 0, result.NewStreak)
	assert.Equal(t, 1, result.IntervalDays)

	memory, err = f.memories.Get(ctx, f.userID, f.exercise.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, memory.Repetitions)
	assert.Equal(t, 1, memory.Interval)

	// XP survives the miss; only the streak resets.
	progress, err := f.progress.Get(ctx, f.userID, f.exercise.LessonID)
	require.NoError(t, err)
	assert.Equal(t, 30, progress.XP)
}

func TestSubmitMemoryAdvancesThroughIntervalLadder(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	wantIntervals := []int{1, 6, 15} // 1, 6, then round(6 * 2.5)
	for _, want := range wantIntervals {
		result, err := f.svc.Submit(ctx, f.userID, f.exercise.ID, "perro")
		require.NoError(t, err)
		assert.Equal(t, want, result.IntervalDays)
	}
}

func TestSubmitLessonCompletionThreshold(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	// Four correct answers: 40 XP, below the threshold.
	for i := 0; i < 4; i++ {
		_, err := f.svc.Submit(ctx, f.userID, f.exercise.ID, "perro")
		require.NoError(t, err)
	}

	progress, err := f.progress.Get(ctx, f.userID, f.exercise.LessonID)
	require.NoError(t, err)
	assert.Equal(t, 40, progress.XP)
	assert.False(t, progress.Completed)

	// The fifth crosses 50 and completes the lesson.
	_, err = f.svc.Submit(ctx, f.userID, f.exercise.ID, "perro")
	require.NoError(t, err)

	progress, err = f.progress.Get(ctx, f.userID, f.exercise.LessonID)
	require.NoError(t, err)
	assert.Equal(t, 50, progress.XP)
	assert.True(t, progress.Completed)

	// Further answers leave completion set; crossing again is a no-op.
	_, err = f.svc.Submit(ctx, f.userID, f.exercise.ID, "perro")
	require.NoError(t, err)

	progress, err = f.progress.Get(ctx, f.userID, f.exercise.LessonID)
	require.NoError(t, err)
	assert.True(t, progress.Completed)
	assert.Equal(t, 60, progress.XP)
}

func TestSubmitCompletionSurvivesWrongAnswers(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	for i := 0; i < 5; i++ {
		_, err := f.svc.Submit(ctx, f.userID, f.exercise.ID, "perro")
		require.NoError(t, err)
	}

	_, err := f.svc.Submit(ctx, f.userID, f.exercise.ID, "gato")
	require.NoError(t, err)

	progress, err := f.progress.Get(ctx, f.userID, f.exercise.LessonID)
	require.NoError(t, err)
	assert.True(t, progress.Completed, "completion is monotonic")
	assert.Equal(t, 0, progress.Streak)
}

func TestSubmitProgressIsScopedPerUser(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	otherUser := uuid.New()

	_, err := f.svc.Submit(ctx, f.userID, f.exercise.ID, "perro")
	require.NoError(t, err)

	_, err = f.progress.Get(ctx, otherUser, f.exercise.LessonID)
	assert.ErrorIs(t, err, store.ErrProgressNotFound)

	_, err = f.memories.Get(ctx, otherUser, f.exercise.ID)
	assert.ErrorIs(t, err, store.ErrMemoryNotFound)
}

func TestSubmitDueListingReflectsSchedule(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	now := time.Now().UTC()

	// Before any answer nothing is tracked, so nothing is due.
	due, err := f.exercises.ListDue(ctx, f.userID, now, 10)
	require.NoError(t, err)
	assert.Empty(t, due)

	_, err = f.svc.Submit(ctx, f.userID, f.exercise.ID, "perro")
	require.NoError(t, err)

	// Scheduled one day out: not due now, due tomorrow.
	due, err = f.exercises.ListDue(ctx, f.userID, now, 10)
	require.NoError(t, err)
	assert.Empty(t, due)

	due, err = f.exercises.ListDue(ctx, f.userID, now.AddDate(0, 0, 2), 10)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, f.exercise.ID, due[0].ID)
}
