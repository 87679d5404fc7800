package api

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/mpalmer-dev/lingua-api/internal/domain"
	"github.com/mpalmer-dev/lingua-api/internal/service/answer"
)

// AnswerSubmitter abstracts the answer evaluation service for handlers and
// tests.
type AnswerSubmitter interface {
	Submit(ctx context.Context, userID, exerciseID uuid.UUID, answerText string) (*answer.Result, error)
}

// AnswerHandler handles answer submission API requests.
type AnswerHandler struct {
	answers   AnswerSubmitter
	validator *validator.Validate
}

// NewAnswerHandler creates a new AnswerHandler with the given dependencies.
func NewAnswerHandler(answers AnswerSubmitter) *AnswerHandler {
	return &AnswerHandler{
		answers:   answers,
		validator: validator.New(),
	}
}

// Submit handles POST /api/answers for the authenticated user.
func (h *AnswerHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	var req SubmitAnswerRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	result, err := h.answers.Submit(r.Context(), userID, req.ExerciseID, req.Answer)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	RespondWithJSON(w, r, http.StatusOK, SubmitAnswerResponse{
		Correct:      result.Correct,
		XPAwarded:    result.XPAwarded,
		NewStreak:    result.NewStreak,
		Explanation:  result.Explanation,
		NextReviewAt: result.NextReviewAt,
		IntervalDays: result.IntervalDays,
	})
}
