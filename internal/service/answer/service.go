// Package answer orchestrates the evaluation of a submitted exercise answer:
// correctness check, spaced-repetition scheduling, and lesson progress.
package answer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mpalmer-dev/lingua-api/internal/domain"
	"github.com/mpalmer-dev/lingua-api/internal/domain/srs"
	"github.com/mpalmer-dev/lingua-api/internal/platform/logger"
	"github.com/mpalmer-dev/lingua-api/internal/store"
)

// ErrExerciseNotFound is returned when the submitted exercise does not exist.
var ErrExerciseNotFound = errors.New("exercise not found")

// Fixed product constants. The quality mapping is deliberately two-valued:
// the SM-2 function accepts the full 0-5 scale, but this product only ever
// feeds it "recalled" or "failed".
const (
	correctQuality   = 4
	incorrectQuality = 0

	// XPPerCorrectAnswer is awarded for each correct answer.
	XPPerCorrectAnswer = 10

	// LessonCompletionXP is the accumulated XP at which a lesson is marked
	// completed.
	LessonCompletionXP = 50
)

// Result is the outcome bundle for one submitted answer.
type Result struct {
	Correct      bool      `json:"correct"`
	XPAwarded    int       `json:"xp_awarded"`
	NewStreak    int       `json:"new_streak"`
	Explanation  string    `json:"explanation"`
	NextReviewAt time.Time `json:"next_review_at"`
	IntervalDays int       `json:"interval_days"`
}

// Service evaluates submitted answers.
type Service struct {
	exercises store.ExerciseStore
	memories  store.ExerciseMemoryStore
	progress  store.LessonProgressStore
	timeFunc  func() time.Time // Injectable for testing
}

// NewService creates an answer evaluation service.
func NewService(
	exercises store.ExerciseStore,
	memories store.ExerciseMemoryStore,
	progress store.LessonProgressStore,
) *Service {
	return &Service{
		exercises: exercises,
		memories:  memories,
		progress:  progress,
		timeFunc:  time.Now,
	}
}

// Submit evaluates one answer from a user for an exercise.
//
// The answer is compared to the expected one case-insensitively with
// surrounding whitespace ignored. Correctness drives three updates: the
// per-exercise memory trace advances through the SM-2 scheduler, lesson XP
// and streak are adjusted, and the lesson is marked completed once its XP
// reaches the threshold. Completion is monotonic and crossing the threshold
// repeatedly is a no-op.
//
// Returns ErrExerciseNotFound if the exercise does not exist.
func (s *Service) Submit(
	ctx context.Context,
	userID, exerciseID uuid.UUID,
	answerText string,
) (*Result, error) {
	log := logger.FromContext(ctx)
	now := s.timeFunc().UTC()

	exercise, err := s.exercises.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, fmt.Errorf("failed to load exercise: %w", err)
	}

	correct := answersMatch(answerText, exercise.CorrectAnswer)

	quality := incorrectQuality
	if correct {
		quality = correctQuality
	}

	memory, err := s.advanceMemory(ctx, userID, exerciseID, quality, now)
	if err != nil {
		return nil, err
	}

	progress, xpAwarded, err := s.updateProgress(ctx, userID, exercise.LessonID, correct, now)
	if err != nil {
		return nil, err
	}

	log.Debug("answer evaluated",
		"user_id", userID,
		"exercise_id", exerciseID,
		"correct", correct,
		"streak", progress.Streak,
		"interval_days", memory.Interval)

	return &Result{
		Correct:      correct,
		XPAwarded:    xpAwarded,
		NewStreak:    progress.Streak,
		Explanation:  explanationFor(correct, exercise.CorrectAnswer),
		NextReviewAt: memory.NextReviewAt,
		IntervalDays: memory.Interval,
	}, nil
}

// advanceMemory loads or lazily creates the (user, exercise) memory trace,
// runs the SM-2 scheduler on it, and persists the result.
func (s *Service) advanceMemory(
	ctx context.Context,
	userID, exerciseID uuid.UUID,
	quality int,
	now time.Time,
) (*domain.ExerciseMemory, error) {
	memory, err := s.memories.Get(ctx, userID, exerciseID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("failed to load exercise memory: %w", err)
		}
		memory, err = domain.NewExerciseMemory(userID, exerciseID, now)
		if err != nil {
			return nil, fmt.Errorf("failed to create exercise memory: %w", err)
		}
	}

	updated, err := srs.Advance(memory, quality, now)
	if err != nil {
		return nil, fmt.Errorf("failed to compute next review: %w", err)
	}

	if err := s.memories.Upsert(ctx, updated); err != nil {
		return nil, fmt.Errorf("failed to save exercise memory: %w", err)
	}

	return updated, nil
}

// updateProgress loads or lazily creates the (user, lesson) progress record
// and applies the answer outcome: XP and streak on success, streak reset on
// failure, completion once the XP threshold is reached.
func (s *Service) updateProgress(
	ctx context.Context,
	userID, lessonID uuid.UUID,
	correct bool,
	now time.Time,
) (*domain.LessonProgress, int, error) {
	progress, err := s.progress.Get(ctx, userID, lessonID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return nil, 0, fmt.Errorf("failed to load lesson progress: %w", err)
		}
		progress, err = domain.NewLessonProgress(userID, lessonID, now)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to create lesson progress: %w", err)
		}
	}

	xpAwarded := 0
	if correct {
		xpAwarded = XPPerCorrectAnswer
		progress.XP += xpAwarded
		progress.Streak++
	} else {
		progress.Streak = 0
	}

	if progress.XP >= LessonCompletionXP {
		progress.Completed = true
	}
	progress.UpdatedAt = now

	if err := s.progress.Upsert(ctx, progress); err != nil {
		return nil, 0, fmt.Errorf("failed to save lesson progress: %w", err)
	}

	return progress, xpAwarded, nil
}

// answersMatch compares a submitted answer to the expected one, ignoring
// case and surrounding whitespace. No partial credit.
func answersMatch(submitted, expected string) bool {
	return strings.EqualFold(strings.TrimSpace(submitted), strings.TrimSpace(expected))
}

// explanationFor builds the user-facing explanation, revealing the correct
// answer only on failure.
func explanationFor(correct bool, correctAnswer string) string {
	if correct {
		return "Nice! You got it right."
	}
	return fmt.Sprintf("Correct answer is: %s", correctAnswer)
}
