package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/mpalmer-dev/lingua-api/internal/domain"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// UserID is the unique identifier for the authenticated user.
	UserID uuid.UUID `json:"user_id"`

	// AccessToken is the JWT used for API authorization.
	AccessToken string `json:"access_token"`

	// RefreshToken is the opaque handle used to obtain new access tokens.
	// It carries no readable structure and must be stored as-is.
	RefreshToken string `json:"refresh_token"`

	// ExpiresAt is the ISO 8601 timestamp when the access token expires.
	ExpiresAt string `json:"expires_at"`
}

// RefreshRequest defines the payload for the token refresh endpoint.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshResponse defines the successful response for the token refresh
// endpoint. The old refresh token is dead the moment this response exists.
type RefreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    string `json:"expires_at"`
}

// UserResponse defines the payload returned for the current-user endpoint.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// LessonResponse defines the payload for one lesson in a listing.
type LessonResponse struct {
	ID           uuid.UUID `json:"id"`
	LanguageCode string    `json:"language_code"`
	Level        int       `json:"level"`
	Title        string    `json:"title"`
}

// ExerciseResponse defines the payload for one exercise as presented to the
// learner. The correct answer is deliberately absent: clients learn it only
// through the answer endpoint, and only after answering wrong.
type ExerciseResponse struct {
	ID       uuid.UUID           `json:"id"`
	LessonID uuid.UUID           `json:"lesson_id"`
	Type     domain.ExerciseType `json:"type"`
	Prompt   string              `json:"prompt"`

	// Options holds the shuffled choice set for multiple-choice exercises
	// and is empty for free-form types.
	Options []string `json:"options,omitempty"`
}

// SubmitAnswerRequest defines the payload for the answer submission endpoint.
type SubmitAnswerRequest struct {
	ExerciseID uuid.UUID `json:"exercise_id" validate:"required"`
	Answer     string    `json:"answer"      validate:"required"`
}

// SubmitAnswerResponse defines the evaluation outcome returned to the learner.
type SubmitAnswerResponse struct {
	Correct      bool      `json:"correct"`
	XPAwarded    int       `json:"xp_awarded"`
	NewStreak    int       `json:"new_streak"`
	Explanation  string    `json:"explanation"`
	NextReviewAt time.Time `json:"next_review_at"`
	IntervalDays int       `json:"interval_days"`
}

// NewLessonResponse maps a domain lesson onto its API shape.
func NewLessonResponse(lesson *domain.Lesson) LessonResponse {
	return LessonResponse{
		ID:           lesson.ID,
		LanguageCode: lesson.LanguageCode,
		Level:        lesson.Level,
		Title:        lesson.Title,
	}
}

// NewLessonListResponse maps a slice of domain lessons onto API shapes,
// returning an empty slice rather than null for no results.
func NewLessonListResponse(lessons []*domain.Lesson) []LessonResponse {
	out := make([]LessonResponse, 0, len(lessons))
	for _, lesson := range lessons {
		out = append(out, NewLessonResponse(lesson))
	}
	return out
}

// NewExerciseResponse maps a domain exercise onto its API shape, leaving the
// correct answer behind.
func NewExerciseResponse(exercise *domain.Exercise) ExerciseResponse {
	resp := ExerciseResponse{
		ID:       exercise.ID,
		LessonID: exercise.LessonID,
		Type:     exercise.Type,
		Prompt:   exercise.Prompt,
	}

	if exercise.Type == domain.ExerciseTypeMultipleChoice {
		resp.Options = choiceOptions(exercise)
	}

	return resp
}

// NewExerciseListResponse maps a slice of domain exercises onto API shapes,
// returning an empty slice rather than null for no results.
func NewExerciseListResponse(exercises []*domain.Exercise) []ExerciseResponse {
	out := make([]ExerciseResponse, 0, len(exercises))
	for _, exercise := range exercises {
		out = append(out, NewExerciseResponse(exercise))
	}
	return out
}
