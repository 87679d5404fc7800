package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mpalmer-dev/lingua-api/internal/config"
	"github.com/mpalmer-dev/lingua-api/internal/domain"
	"github.com/mpalmer-dev/lingua-api/internal/platform/logger"
	"github.com/mpalmer-dev/lingua-api/internal/store"
)

// refreshTokenBytes is the entropy of a refresh token value. 32 bytes gives
// 256 bits, hex-encoded to a 64-character opaque handle.
const refreshTokenBytes = 32

// RefreshTokenService issues, validates and rotates the opaque refresh
// tokens that anchor long-lived sessions.
//
// Rotation is one-time-use: redeeming a token consumes it and hands back a
// fresh one, so each session is a chain of single-use links. A consumed token
// showing up a second time means two parties hold the same link, i.e. the
// token leaked. The response is not recovery but detection: every session of
// the affected user is revoked before the error surfaces, so ignoring the
// error cannot bypass the revocation.
type RefreshTokenService struct {
	tokens   store.RefreshTokenStore
	lifetime time.Duration
	timeFunc func() time.Time // Injectable for testing
}

// NewRefreshTokenService creates a RefreshTokenService backed by the given
// token store.
func NewRefreshTokenService(tokens store.RefreshTokenStore, cfg config.AuthConfig) *RefreshTokenService {
	return &RefreshTokenService{
		tokens:   tokens,
		lifetime: time.Duration(cfg.RefreshTokenLifetimeDays) * 24 * time.Hour,
		timeFunc: time.Now,
	}
}

// Issue generates a fresh unguessable refresh token for the user, stores the
// unused record, and returns the opaque token string.
func (s *RefreshTokenService) Issue(ctx context.Context, userID uuid.UUID) (string, error) {
	value, err := generateTokenValue()
	if err != nil {
		return "", fmt.Errorf("failed to generate refresh token: %w", err)
	}

	record, err := domain.NewRefreshToken(value, userID, s.timeFunc().UTC())
	if err != nil {
		return "", fmt.Errorf("failed to build refresh token record: %w", err)
	}

	if err := s.tokens.Create(ctx, record); err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}

	return value, nil
}

// RotatedToken is the outcome of a successful rotation: the replacement
// token and the user the session belongs to, so callers can mint a matching
// access token without another store round trip.
type RotatedToken struct {
	Token  string
	UserID uuid.UUID
}

// Rotate redeems oldToken and returns a replacement for the same user.
//
// Returns ErrSessionNotFound when no live session matches (unknown token, or
// a token past its lifetime). Returns ErrSecurityBreach when the token was
// already consumed; by then every refresh token of the owning user has been
// deleted and the user must authenticate from scratch.
func (s *RefreshTokenService) Rotate(ctx context.Context, oldToken string) (*RotatedToken, error) {
	log := logger.FromContext(ctx)

	// Expiry is checked before the consume so an expired token is never
	// flipped to used. A client retrying a stale session gets the same
	// answer every time instead of tripping the reuse response and losing
	// its live sessions.
	record, err := s.tokens.Get(ctx, oldToken)
	if err != nil {
		if errors.Is(err, store.ErrTokenNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to look up refresh token: %w", err)
	}

	now := s.timeFunc().UTC()
	if now.After(record.ExpiresAt(s.lifetime)) {
		log.Debug("refresh token expired",
			"user_id", record.UserID,
			"created_at", record.CreatedAt)
		return nil, ErrSessionNotFound
	}

	// Single atomic check-and-flip against the store. Two concurrent
	// rotations of the same token can never both pass this gate.
	record, err = s.tokens.Consume(ctx, oldToken)
	switch {
	case err == nil:
		// Consumed; fall through to reissue.
	case errors.Is(err, store.ErrTokenNotFound):
		// Swept by a concurrent breach response between lookup and consume.
		return nil, ErrSessionNotFound
	case errors.Is(err, store.ErrConflict):
		return nil, s.handleReuse(ctx, oldToken)
	default:
		return nil, fmt.Errorf("failed to consume refresh token: %w", err)
	}

	newToken, err := s.Issue(ctx, record.UserID)
	if err != nil {
		return nil, err
	}

	log.Debug("refresh token rotated", "user_id", record.UserID)
	return &RotatedToken{Token: newToken, UserID: record.UserID}, nil
}

// RevokeAll terminates every session of the user by deleting all their
// refresh tokens. Used on breach detection and available for explicit
// logout-everywhere flows.
func (s *RefreshTokenService) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	if err := s.tokens.DeleteAllForUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to revoke sessions: %w", err)
	}
	return nil
}

// handleReuse runs the breach response for a token that was presented after
// having been consumed: revoke every session of the owning user, then report
// the breach. Always returns a non-nil error.
func (s *RefreshTokenService) handleReuse(ctx context.Context, token string) error {
	log := logger.FromContext(ctx)

	record, err := s.tokens.Get(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrTokenNotFound) {
			// A concurrent breach response already swept this user's
			// tokens. Revocation is done; report the breach.
			return ErrSecurityBreach
		}
		// Could not identify the owner, so the sweep cannot run. Do not
		// soften the signal: surface the breach with the store failure
		// attached so the caller still refuses the rotation.
		log.Error("breach detected but owner lookup failed", "error", err)
		return fmt.Errorf("%w: revocation incomplete: %v", ErrSecurityBreach, err)
	}

	if err := s.tokens.DeleteAllForUser(ctx, record.UserID); err != nil {
		log.Error("breach detected but revocation failed",
			"error", err,
			"user_id", record.UserID)
		return fmt.Errorf("%w: revocation incomplete: %v", ErrSecurityBreach, err)
	}

	log.Warn("refresh token reuse detected, all sessions revoked",
		"user_id", record.UserID)
	return ErrSecurityBreach
}

// generateTokenValue returns a hex-encoded 256-bit random handle. The value
// encodes nothing; it is only ever compared byte-for-byte against the store.
func generateTokenValue() (string, error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
