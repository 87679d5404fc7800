package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/mpalmer-dev/lingua-api/internal/domain"
)

// RefreshTokenStore defines the interface for refresh token persistence.
//
// This store is the only component allowed to flip a token's used flag, and
// Consume is the only way to flip it. Implementations must make Consume a
// single atomic compare-and-swap keyed by the token value: two concurrent
// consumers of the same token must never both succeed.
type RefreshTokenStore interface {
	// Create saves a new unused refresh token record.
	Create(ctx context.Context, token *domain.RefreshToken) error

	// Get retrieves a refresh token record by its opaque token value.
	// Returns ErrTokenNotFound if no record matches.
	Get(ctx context.Context, token string) (*domain.RefreshToken, error)

	// Consume atomically marks the token used, succeeding only if the record
	// exists and was still unused. Returns the record as it was before the
	// flip. Returns ErrTokenNotFound if no record matches, or ErrConflict if
	// the record exists but was already used.
	Consume(ctx context.Context, token string) (*domain.RefreshToken, error)

	// DeleteAllForUser removes every refresh token belonging to the user,
	// used or not. Deleting for a user with no tokens is not an error.
	DeleteAllForUser(ctx context.Context, userID uuid.UUID) error
}
