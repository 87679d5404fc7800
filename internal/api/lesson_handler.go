package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mpalmer-dev/lingua-api/internal/domain"
	"github.com/mpalmer-dev/lingua-api/internal/store"
)

// defaultDueLimit caps the size of a practice queue response when the client
// does not ask for a specific limit.
const defaultDueLimit = 10

// maxDueLimit is the hard ceiling on the practice queue size.
const maxDueLimit = 100

// LessonHandler handles course content API requests: lessons, their
// exercises, and the per-user review queue.
type LessonHandler struct {
	lessonStore   store.LessonStore
	exerciseStore store.ExerciseStore
	timeFunc      func() time.Time // Injectable for testing
}

// NewLessonHandler creates a new LessonHandler with the given dependencies.
func NewLessonHandler(lessonStore store.LessonStore, exerciseStore store.ExerciseStore) *LessonHandler {
	return &LessonHandler{
		lessonStore:   lessonStore,
		exerciseStore: exerciseStore,
		timeFunc:      time.Now,
	}
}

// ListLessons handles GET /api/languages/{code}/lessons.
func (h *LessonHandler) ListLessons(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if len(code) != 2 {
		RespondWithError(w, r, http.StatusBadRequest, "Language code must be a two-letter ISO 639-1 code")
		return
	}

	lessons, err := h.lessonStore.ListByLanguage(r.Context(), code)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	RespondWithJSON(w, r, http.StatusOK, NewLessonListResponse(lessons))
}

// ListExercises handles GET /api/lessons/{id}/exercises. The lesson is looked
// up first so an unknown lesson yields 404 rather than an empty list.
func (h *LessonHandler) ListExercises(w http.ResponseWriter, r *http.Request) {
	lessonID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if _, err := h.lessonStore.GetByID(r.Context(), lessonID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	exercises, err := h.exerciseStore.ListByLesson(r.Context(), lessonID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	RespondWithJSON(w, r, http.StatusOK, NewExerciseListResponse(exercises))
}

// ListDue handles GET /api/practice/due for the authenticated user: the
// exercises whose next review time has arrived, soonest first.
func (h *LessonHandler) ListDue(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	limit := defaultDueLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			RespondWithError(w, r, http.StatusBadRequest, "Invalid limit parameter")
			return
		}
		if parsed > maxDueLimit {
			parsed = maxDueLimit
		}
		limit = parsed
	}

	exercises, err := h.exerciseStore.ListDue(r.Context(), userID, h.timeFunc().UTC(), limit)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	RespondWithJSON(w, r, http.StatusOK, NewExerciseListResponse(exercises))
}
