package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for LessonProgress.
var (
	ErrEmptyProgressUserID   = errors.New("lesson progress user ID cannot be empty")
	ErrEmptyProgressLessonID = errors.New("lesson progress lesson ID cannot be empty")
	ErrInvalidXP             = errors.New("xp must be greater than or equal to 0")
	ErrInvalidStreak         = errors.New("streak must be greater than or equal to 0")
)

// LessonProgress accumulates a user's results within one lesson.
// The streak counts consecutive correct answers and resets to zero on any
// incorrect one. Completed is monotonic: once a lesson is completed it can
// never become uncompleted, no matter how later answers go.
type LessonProgress struct {
	UserID    uuid.UUID `json:"user_id"`
	LessonID  uuid.UUID `json:"lesson_id"`
	XP        int       `json:"xp"`
	Streak    int       `json:"streak"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewLessonProgress creates zeroed progress for a user and lesson.
func NewLessonProgress(userID, lessonID uuid.UUID, now time.Time) (*LessonProgress, error) {
	progress := &LessonProgress{
		UserID:    userID,
		LessonID:  lessonID,
		XP:        0,
		Streak:    0,
		Completed: false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := progress.Validate(); err != nil {
		return nil, err
	}

	return progress, nil
}

// Validate checks if the LessonProgress has valid data.
func (p *LessonProgress) Validate() error {
	if p.UserID == uuid.Nil {
		return ErrEmptyProgressUserID
	}
	if p.LessonID == uuid.Nil {
		return ErrEmptyProgressLessonID
	}
	if p.XP < 0 {
		return ErrInvalidXP
	}
	if p.Streak < 0 {
		return ErrInvalidStreak
	}
	return nil
}
