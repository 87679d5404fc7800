package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the
	// store. This is the generic version of the entity-specific not found
	// errors (e.g. ErrUserNotFound, ErrExerciseNotFound).
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate
	// of a unique entity (e.g. a user with the same email).
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored. Check the wrapped error for specific validation details.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrTransient is returned when the store is temporarily unavailable or
	// an operation timed out. Safe to retry with backoff at the caller; the
	// core itself never retries.
	ErrTransient = errors.New("store temporarily unavailable")

	// ErrConflict is returned when a conditional update finds the record in
	// a state other than the one the condition requires. For refresh tokens
	// this is the signal that the token was already consumed.
	ErrConflict = errors.New("conditional update conflict")

	// Entity-specific "not found" errors.

	// ErrUserNotFound indicates that the requested user does not exist.
	ErrUserNotFound = fmt.Errorf("%w: user", ErrNotFound)

	// ErrLessonNotFound indicates that the requested lesson does not exist.
	ErrLessonNotFound = fmt.Errorf("%w: lesson", ErrNotFound)

	// ErrExerciseNotFound indicates that the requested exercise does not exist.
	ErrExerciseNotFound = fmt.Errorf("%w: exercise", ErrNotFound)

	// ErrTokenNotFound indicates that the requested refresh token does not exist.
	ErrTokenNotFound = fmt.Errorf("%w: refresh token", ErrNotFound)

	// ErrMemoryNotFound indicates that the requested exercise memory does not exist.
	ErrMemoryNotFound = fmt.Errorf("%w: exercise memory", ErrNotFound)

	// ErrProgressNotFound indicates that the requested lesson progress does not exist.
	ErrProgressNotFound = fmt.Errorf("%w: lesson progress", ErrNotFound)

	// Entity-specific "duplicate" errors.

	// ErrEmailExists indicates that a user with the given email already exists.
	ErrEmailExists = fmt.Errorf("%w: email", ErrDuplicate)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsTransientError checks if the error is worth retrying at the client layer.
func IsTransientError(err error) bool {
	return errors.Is(err, ErrTransient)
}

// StoreError is a custom error type for store-specific errors with additional
// context about the entity and operation that failed.
type StoreError struct {
	Entity    string // The entity type (e.g. "user", "refresh_token")
	Operation string // The operation that failed (e.g. "create", "consume")
	Err       error  // Original error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	return fmt.Sprintf("%s operation on %s failed: %v", e.Operation, e.Entity, e.Err)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError wrapping the given error.
func NewStoreError(entity, operation string, err error) *StoreError {
	return &StoreError{Entity: entity, Operation: operation, Err: err}
}
