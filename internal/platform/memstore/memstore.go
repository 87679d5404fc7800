// Package memstore provides in-memory implementations of the store
// interfaces. They exist for tests and local development: the persistence
// ports are narrow enough that a map behind a mutex satisfies them, including
// the atomic consume semantics of the refresh token store.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mpalmer-dev/lingua-api/internal/domain"
	"github.com/mpalmer-dev/lingua-api/internal/store"
)

// UserStore is an in-memory store.UserStore.
type UserStore struct {
	mu     sync.RWMutex
	byID   map[uuid.UUID]*domain.User
	hasher interface {
		Hash(password string) (string, error)
	}
}

// Ensure interface compliance.
var _ store.UserStore = (*UserStore)(nil)

// NewUserStore creates an empty in-memory user store. The hasher turns the
// plaintext password carried by new users into the stored hash, mirroring
// what the real store does.
func NewUserStore(hasher interface {
	Hash(password string) (string, error)
}) *UserStore {
	return &UserStore{
		byID:   make(map[uuid.UUID]*domain.User),
		hasher: hasher,
	}
}

// Create implements store.UserStore.Create.
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	if err := user.Validate(); err != nil {
		return store.NewStoreError("user", "create", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.byID {
		if existing.Email == user.Email {
			return store.ErrEmailExists
		}
	}

	stored := *user
	if stored.Password != "" {
		hash, err := s.hasher.Hash(stored.Password)
		if err != nil {
			return store.NewStoreError("user", "create", err)
		}
		stored.HashedPassword = hash
		stored.Password = ""
	}

	s.byID[stored.ID] = &stored
	return nil
}

// GetByID implements store.UserStore.GetByID.
func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.byID[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

// GetByEmail implements store.UserStore.GetByEmail.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	email = strings.ToLower(strings.TrimSpace(email))
	for _, user := range s.byID {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, store.ErrUserNotFound
}

// LessonStore is an in-memory store.LessonStore.
type LessonStore struct {
	mu   sync.RWMutex
	byID map[uuid.UUID]*domain.Lesson
}

var _ store.LessonStore = (*LessonStore)(nil)

// NewLessonStore creates an empty in-memory lesson store.
func NewLessonStore() *LessonStore {
	return &LessonStore{byID: make(map[uuid.UUID]*domain.Lesson)}
}

// Add seeds a lesson. Test helper; the API has no lesson authoring surface.
func (s *LessonStore) Add(lesson *domain.Lesson) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *lesson
	s.byID[lesson.ID] = &copied
}

// GetByID implements store.LessonStore.GetByID.
func (s *LessonStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Lesson, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lesson, ok := s.byID[id]
	if !ok {
		return nil, store.ErrLessonNotFound
	}
	copied := *lesson
	return &copied, nil
}

// ListByLanguage implements store.LessonStore.ListByLanguage.
func (s *LessonStore) ListByLanguage(ctx context.Context, languageCode string) ([]*domain.Lesson, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var lessons []*domain.Lesson
	for _, lesson := range s.byID {
		if lesson.LanguageCode == languageCode {
			copied := *lesson
			lessons = append(lessons, &copied)
		}
	}
	sort.Slice(lessons, func(i, j int) bool { return lessons[i].Level < lessons[j].Level })
	return lessons, nil
}

// ExerciseStore is an in-memory store.ExerciseStore. ListDue consults a
// MemoryStore so that due filtering behaves like the SQL join it fakes.
type ExerciseStore struct {
	mu       sync.RWMutex
	byID     map[uuid.UUID]*domain.Exercise
	memories *MemoryStore
}

var _ store.ExerciseStore = (*ExerciseStore)(nil)

// NewExerciseStore creates an empty in-memory exercise store. The memory
// store may be nil if ListDue is not exercised.
func NewExerciseStore(memories *MemoryStore) *ExerciseStore {
	return &ExerciseStore{
		byID:     make(map[uuid.UUID]*domain.Exercise),
		memories: memories,
	}
}

// Add seeds an exercise. Test helper.
func (s *ExerciseStore) Add(exercise *domain.Exercise) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *exercise
	s.byID[exercise.ID] = &copied
}

// GetByID implements store.ExerciseStore.GetByID.
func (s *ExerciseStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Exercise, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	exercise, ok := s.byID[id]
	if !ok {
		return nil, store.ErrExerciseNotFound
	}
	copied := *exercise
	return &copied, nil
}

// ListByLesson implements store.ExerciseStore.ListByLesson.
func (s *ExerciseStore) ListByLesson(ctx context.Context, lessonID uuid.UUID) ([]*domain.Exercise, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var exercises []*domain.Exercise
	for _, exercise := range s.byID {
		if exercise.LessonID == lessonID {
			copied := *exercise
			exercises = append(exercises, &copied)
		}
	}
	sort.Slice(exercises, func(i, j int) bool {
		return exercises[i].ID.String() < exercises[j].ID.String()
	})
	return exercises, nil
}

// ListDue implements store.ExerciseStore.ListDue.
func (s *ExerciseStore) ListDue(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
	limit int,
) ([]*domain.Exercise, error) {
	if s.memories == nil {
		return nil, nil
	}

	due := s.memories.dueExerciseIDs(userID, now)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var exercises []*domain.Exercise
	for _, id := range due {
		if len(exercises) >= limit {
			break
		}
		if exercise, ok := s.byID[id]; ok {
			copied := *exercise
			exercises = append(exercises, &copied)
		}
	}
	return exercises, nil
}

// memoryKey identifies one (user, exercise) trace.
type memoryKey struct {
	userID     uuid.UUID
	exerciseID uuid.UUID
}

// MemoryStore is an in-memory store.ExerciseMemoryStore.
type MemoryStore struct {
	mu    sync.RWMutex
	byKey map[memoryKey]*domain.ExerciseMemory
}

var _ store.ExerciseMemoryStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory exercise memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byKey: make(map[memoryKey]*domain.ExerciseMemory)}
}

// Get implements store.ExerciseMemoryStore.Get.
func (s *MemoryStore) Get(ctx context.Context, userID, exerciseID uuid.UUID) (*domain.ExerciseMemory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	memory, ok := s.byKey[memoryKey{userID, exerciseID}]
	if !ok {
		return nil, store.ErrMemoryNotFound
	}
	copied := *memory
	return &copied, nil
}

// Upsert implements store.ExerciseMemoryStore.Upsert.
func (s *MemoryStore) Upsert(ctx context.Context, memory *domain.ExerciseMemory) error {
	if err := memory.Validate(); err != nil {
		return store.NewStoreError("exercise_memory", "upsert", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *memory
	s.byKey[memoryKey{memory.UserID, memory.ExerciseID}] = &copied
	return nil
}

// dueExerciseIDs returns the exercise IDs due for review for the user,
// ordered by next review time.
func (s *MemoryStore) dueExerciseIDs(userID uuid.UUID, now time.Time) []uuid.UUID {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var due []*domain.ExerciseMemory
	for _, memory := range s.byKey {
		if memory.UserID == userID && !memory.NextReviewAt.After(now) {
			due = append(due, memory)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].NextReviewAt.Before(due[j].NextReviewAt) })

	ids := make([]uuid.UUID, len(due))
	for i, memory := range due {
		ids[i] = memory.ExerciseID
	}
	return ids
}

// progressKey identifies one (user, lesson) progress record.
type progressKey struct {
	userID   uuid.UUID
	lessonID uuid.UUID
}

// ProgressStore is an in-memory store.LessonProgressStore.
type ProgressStore struct {
	mu    sync.RWMutex
	byKey map[progressKey]*domain.LessonProgress
}

var _ store.LessonProgressStore = (*ProgressStore)(nil)

// NewProgressStore creates an empty in-memory lesson progress store.
func NewProgressStore() *ProgressStore {
	return &ProgressStore{byKey: make(map[progressKey]*domain.LessonProgress)}
}

// Get implements store.LessonProgressStore.Get.
func (s *ProgressStore) Get(ctx context.Context, userID, lessonID uuid.UUID) (*domain.LessonProgress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	progress, ok := s.byKey[progressKey{userID, lessonID}]
	if !ok {
		return nil, store.ErrProgressNotFound
	}
	copied := *progress
	return &copied, nil
}

// Upsert implements store.LessonProgressStore.Upsert.
func (s *ProgressStore) Upsert(ctx context.Context, progress *domain.LessonProgress) error {
	if err := progress.Validate(); err != nil {
		return store.NewStoreError("lesson_progress", "upsert", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *progress
	s.byKey[progressKey{progress.UserID, progress.LessonID}] = &copied
	return nil
}
