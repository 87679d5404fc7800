package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// RefreshToken-specific validation errors.
var (
	ErrEmptyTokenValue   = errors.New("refresh token value cannot be empty")
	ErrTokenTooShort     = errors.New("refresh token value is too short")
	ErrEmptyTokenUserID  = errors.New("refresh token user ID cannot be empty")
	ErrZeroTokenCreation = errors.New("refresh token creation time cannot be zero")
)

// refreshTokenHexLength is the length of the hex encoding of a 256-bit token.
const refreshTokenHexLength = 64

// RefreshToken is one link in a user's session chain. The token value is an
// opaque random handle: it encodes nothing and is meaningful only as a
// database key.
//
// A token is single-use. Redeeming it flips Used, which can never be undone;
// a redeemed token showing up again is treated as evidence of theft and
// cascades into revocation of every session the owning user has.
type RefreshToken struct {
	Token     string    `json:"-"` // Never serialized; returned to clients only at issuance
	UserID    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	Used      bool      `json:"used"`
}

// NewRefreshToken creates an unused RefreshToken record for the given user.
// The token value is generated by the caller (see auth.generateTokenValue)
// so that the domain stays free of crypto concerns.
func NewRefreshToken(token string, userID uuid.UUID, now time.Time) (*RefreshToken, error) {
	rt := &RefreshToken{
		Token:     token,
		UserID:    userID,
		CreatedAt: now,
		Used:      false,
	}

	if err := rt.Validate(); err != nil {
		return nil, err
	}

	return rt, nil
}

// Validate checks if the RefreshToken has valid data.
func (t *RefreshToken) Validate() error {
	if t.Token == "" {
		return ErrEmptyTokenValue
	}
	if len(t.Token) < refreshTokenHexLength {
		return ErrTokenTooShort
	}
	if t.UserID == uuid.Nil {
		return ErrEmptyTokenUserID
	}
	if t.CreatedAt.IsZero() {
		return ErrZeroTokenCreation
	}
	return nil
}

// ExpiresAt returns the moment this token stops being redeemable.
func (t *RefreshToken) ExpiresAt(lifetime time.Duration) time.Time {
	return t.CreatedAt.Add(lifetime)
}
