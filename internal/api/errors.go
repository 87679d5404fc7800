package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/mpalmer-dev/lingua-api/internal/api/shared"
	"github.com/mpalmer-dev/lingua-api/internal/domain"
	"github.com/mpalmer-dev/lingua-api/internal/service/answer"
	"github.com/mpalmer-dev/lingua-api/internal/service/auth"
	"github.com/mpalmer-dev/lingua-api/internal/store"
)

// Machine-readable error codes attached to error responses where the HTTP
// status alone is ambiguous.
const (
	// CodeSecurityBreach marks a 401 caused by refresh token reuse. The
	// client must drop all cached tokens and send the user back to login;
	// retrying the refresh is pointless because every session is revoked.
	CodeSecurityBreach = "security_breach"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMalformedToken),
		errors.Is(err, auth.ErrSessionNotFound),
		errors.Is(err, auth.ErrSecurityBreach),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	// Not found errors
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, answer.ErrExerciseNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrEmailExists):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID):
		return http.StatusBadRequest

	// Transient store failures: the client may retry, we do not.
	case errors.Is(err, store.ErrTransient):
		return http.StatusServiceUnavailable

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message based
// on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMalformedToken):
		return "Invalid token"

	case errors.Is(err, auth.ErrSecurityBreach):
		return "Session revoked due to suspected token theft"

	case errors.Is(err, auth.ErrSessionNotFound):
		return "Session not found or expired"

	case errors.Is(err, domain.ErrUnauthorized):
		return "Unauthorized"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrLessonNotFound):
		return "Lesson not found"

	case errors.Is(err, store.ErrExerciseNotFound),
		errors.Is(err, answer.ErrExerciseNotFound):
		return "Exercise not found"

	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"

	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation):
		return "Invalid request data"

	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid identifier"

	case errors.Is(err, store.ErrTransient):
		return "Service temporarily unavailable, please retry"

	default:
		return "An unexpected error occurred"
	}
}

// errorCodeFor returns the machine-readable code for errors that need one.
func errorCodeFor(err error) string {
	if errors.Is(err, auth.ErrSecurityBreach) {
		return CodeSecurityBreach
	}
	return ""
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	// Example format: "Key: 'LoginRequest.Email' Error:Field validation for
	// 'Email' failed on the 'required' tag"
	if strings.Contains(errMsg, "Field validation") {
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}

				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages.
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}

// HandleAPIError maps err onto a status, safe message and optional code, and
// writes the error response. An empty userMessage falls back to the mapped
// safe message.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, userMessage string) {
	status := MapErrorToStatusCode(err)
	if userMessage == "" {
		userMessage = GetSafeErrorMessage(err)
	}
	shared.RespondWithErrorCode(w, r, status, userMessage, errorCodeFor(err))
}
