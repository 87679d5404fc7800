package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// JWTService defines operations for managing JWT access tokens.
//
// Only short-lived access tokens are JWTs. Refresh tokens are opaque random
// handles managed by RefreshTokenService and never pass through here.
type JWTService interface {
	// GenerateToken creates a signed JWT access token for the user.
	// Returns the token string or an error if signing fails.
	GenerateToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateToken validates the provided access token string and extracts
	// the claims. Returns ErrExpiredToken when the token aged out,
	// ErrMalformedToken when the subject claim is absent or the token is
	// unparseable, and ErrInvalidToken on signature mismatch.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the validated claims extracted from an access token.
type Claims struct {
	// UserID is the unique identifier of the user the token was issued for.
	UserID uuid.UUID `json:"uid,omitempty"`

	// Standard registered JWT claims.
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
