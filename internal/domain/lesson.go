package domain

import (
	"errors"

	"github.com/google/uuid"
)

// Lesson-specific validation errors.
var (
	ErrEmptyLessonID       = errors.New("lesson ID cannot be empty")
	ErrEmptyLanguageCode   = errors.New("language code cannot be empty")
	ErrEmptyLessonTitle    = errors.New("lesson title cannot be empty")
	ErrInvalidLessonLevel  = errors.New("lesson level must be at least 1")
	ErrEmptyLanguageName   = errors.New("language name cannot be empty")
	ErrInvalidLanguageCode = errors.New("language code must be a two-letter ISO 639-1 code")
)

// Language identifies a learnable language by its ISO 639-1 code.
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Validate checks if the Language has valid data.
func (l *Language) Validate() error {
	if l.Code == "" {
		return ErrEmptyLanguageCode
	}
	if len(l.Code) != 2 {
		return ErrInvalidLanguageCode
	}
	if l.Name == "" {
		return ErrEmptyLanguageName
	}
	return nil
}

// Lesson is an ordered unit of course content for one language.
// Lessons of the same language are presented in ascending level order.
type Lesson struct {
	ID           uuid.UUID `json:"id"`
	LanguageCode string    `json:"language_code"`
	Level        int       `json:"level"`
	Title        string    `json:"title"`
}

// NewLesson creates a new Lesson with a generated ID.
// Returns an error if validation fails.
func NewLesson(languageCode string, level int, title string) (*Lesson, error) {
	lesson := &Lesson{
		ID:           uuid.New(),
		LanguageCode: languageCode,
		Level:        level,
		Title:        title,
	}

	if err := lesson.Validate(); err != nil {
		return nil, err
	}

	return lesson, nil
}

// Validate checks if the Lesson has valid data.
func (l *Lesson) Validate() error {
	if l.ID == uuid.Nil {
		return ErrEmptyLessonID
	}
	if l.LanguageCode == "" {
		return ErrEmptyLanguageCode
	}
	if l.Level < 1 {
		return ErrInvalidLessonLevel
	}
	if l.Title == "" {
		return ErrEmptyLessonTitle
	}
	return nil
}
