package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpalmer-dev/lingua-api/internal/config"
)

const testJWTSecret = "test-secret-key-that-is-long-enough!"

func newTestJWTService(t *testing.T) *hmacJWTService {
	t.Helper()
	svc, err := NewJWTService(config.AuthConfig{
		JWTSecret:                testJWTSecret,
		AccessTokenLifetimeMin:   15,
		RefreshTokenLifetimeDays: 7,
	})
	require.NoError(t, err)
	return svc.(*hmacJWTService)
}

func TestNewJWTServiceRejectsShortSecret(t *testing.T) {
	t.Parallel()

	_, err := NewJWTService(config.AuthConfig{
		JWTSecret:                "too-short",
		AccessTokenLifetimeMin:   15,
		RefreshTokenLifetimeDays: 7,
	})
	assert.Error(t, err)
}

func TestGenerateAndValidateToken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestJWTService(t)
	userID := uuid.New()

	token, err := svc.GenerateToken(ctx, userID)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(ctx, token)
	require.NoError(t, err)

	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, claims.IssuedAt.Add(15*time.Minute), claims.ExpiresAt, time.Second)
}

func TestValidateTokenExpired(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestJWTService(t)

	issued := time.Now().Add(-time.Hour)
	svc.timeFunc = func() time.Time { return issued }
	token, err := svc.GenerateToken(ctx, uuid.New())
	require.NoError(t, err)

	// An hour later the 15-minute token is well past expiry plus skew.
	svc.timeFunc = time.Now

	_, err = svc.ValidateToken(ctx, token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateTokenWithinClockSkew(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestJWTService(t)

	issued := time.Now().Add(-16 * time.Minute)
	svc.timeFunc = func() time.Time { return issued }
	token, err := svc.GenerateToken(ctx, uuid.New())
	require.NoError(t, err)

	// One minute past expiry but inside the two-minute leeway.
	svc.timeFunc = time.Now

	_, err = svc.ValidateToken(ctx, token)
	assert.NoError(t, err)
}

func TestValidateTokenWrongSignature(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestJWTService(t)

	other, err := NewJWTService(config.AuthConfig{
		JWTSecret:                "a-completely-different-secret-key-here!",
		AccessTokenLifetimeMin:   15,
		RefreshTokenLifetimeDays: 7,
	})
	require.NoError(t, err)

	token, err := other.GenerateToken(ctx, uuid.New())
	require.NoError(t, err)

	_, err = svc.ValidateToken(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenMalformed(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestJWTService(t)

	testCases := []struct {
		name  string
		token string
	}{
		{name: "not a JWT at all", token: "garbage"},
		{name: "empty string", token: ""},
		{name: "truncated JWT", token: "eyJhbGciOiJIUzI1NiJ9"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := svc.ValidateToken(ctx, tc.token)
			assert.ErrorIs(t, err, ErrMalformedToken)
		})
	}
}

func TestValidateTokenMissingSubject(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestJWTService(t)
	now := time.Now()

	// A well-signed token that identifies nobody.
	claims := jwtCustomClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(15 * time.Minute)),
			ID:        uuid.New().String(),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)

	_, err = svc.ValidateToken(ctx, token)
	assert.ErrorIs(t, err, ErrMalformedToken)
}

func TestValidateTokenRejectsWrongTokenType(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestJWTService(t)
	now := time.Now()
	userID := uuid.New()

	// Well-signed but not an access token.
	claims := jwtCustomClaims{
		UserID:    userID,
		TokenType: "refresh",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(15 * time.Minute)),
			ID:        uuid.New().String(),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)

	_, err = svc.ValidateToken(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenRejectsUnexpectedAlgorithm(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestJWTService(t)
	now := time.Now()

	claims := jwtCustomClaims{
		UserID: uuid.New(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(15 * time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)

	_, err = svc.ValidateToken(ctx, token)
	assert.Error(t, err)
}
