package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpalmer-dev/lingua-api/internal/api/shared"
	"github.com/mpalmer-dev/lingua-api/internal/config"
	"github.com/mpalmer-dev/lingua-api/internal/platform/memstore"
	"github.com/mpalmer-dev/lingua-api/internal/service/auth"
)

const testAccessLifetime = 15 * time.Minute

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:                "test-secret-key-that-is-long-enough!",
		AccessTokenLifetimeMin:   15,
		RefreshTokenLifetimeDays: 7,
	}
}

type authFixture struct {
	handler *AuthHandler
	users   *memstore.UserStore
	tokens  *memstore.TokenStore
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	cfg := testAuthConfig()
	hasher := auth.NewBcryptHasher()
	users := memstore.NewUserStore(hasher)
	tokens := memstore.NewTokenStore()

	jwtService, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	refreshService := auth.NewRefreshTokenService(tokens, cfg)

	return &authFixture{
		handler: NewAuthHandler(users, jwtService, refreshService, hasher, testAccessLifetime),
		users:   users,
		tokens:  tokens,
	}
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func decodeAuthResponse(t *testing.T, w *httptest.ResponseRecorder) AuthResponse {
	t.Helper()
	var resp AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestRegisterSuccess(t *testing.T) {
	t.Parallel()
	fix := newAuthFixture(t)

	w := postJSON(t, fix.handler.Register, "/api/auth/register", RegisterRequest{
		Email:    "learner@example.com",
		Password: "correct-horse-battery",
	})

	require.Equal(t, http.StatusCreated, w.Code)
	resp := decodeAuthResponse(t, w)
	assert.NotEqual(t, uuid.Nil, resp.UserID)
	assert.NotEmpty(t, resp.AccessToken)
	// Opaque refresh handle: 32 random bytes hex-encoded.
	assert.Len(t, resp.RefreshToken, 64)

	expiry, err := time.Parse(time.RFC3339, resp.ExpiresAt)
	require.NoError(t, err)
	assert.True(t, expiry.After(time.Now()))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	t.Parallel()
	fix := newAuthFixture(t)

	req := RegisterRequest{Email: "learner@example.com", Password: "correct-horse-battery"}
	w := postJSON(t, fix.handler.Register, "/api/auth/register", req)
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, fix.handler.Register, "/api/auth/register", req)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()
	fix := newAuthFixture(t)

	tests := []struct {
		name string
		req  RegisterRequest
	}{
		{"missing email", RegisterRequest{Password: "correct-horse-battery"}},
		{"malformed email", RegisterRequest{Email: "not-an-email", Password: "correct-horse-battery"}},
		{"short password", RegisterRequest{Email: "a@example.com", Password: "short"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := postJSON(t, fix.handler.Register, "/api/auth/register", tc.req)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestLoginSuccessAndFailure(t *testing.T) {
	t.Parallel()
	fix := newAuthFixture(t)

	w := postJSON(t, fix.handler.Register, "/api/auth/register", RegisterRequest{
		Email:    "learner@example.com",
		Password: "correct-horse-battery",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, fix.handler.Login, "/api/auth/login", LoginRequest{
		Email:    "learner@example.com",
		Password: "correct-horse-battery",
	})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeAuthResponse(t, w)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Len(t, resp.RefreshToken, 64)

	// Wrong password and unknown account are indistinguishable.
	wrongPass := postJSON(t, fix.handler.Login, "/api/auth/login", LoginRequest{
		Email:    "learner@example.com",
		Password: "not-the-password",
	})
	unknownUser := postJSON(t, fix.handler.Login, "/api/auth/login", LoginRequest{
		Email:    "stranger@example.com",
		Password: "correct-horse-battery",
	})
	assert.Equal(t, http.StatusUnauthorized, wrongPass.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownUser.Code)
	assert.JSONEq(t, wrongPass.Body.String(), unknownUser.Body.String())
}

func TestRefreshRotatesTokenPair(t *testing.T) {
	t.Parallel()
	fix := newAuthFixture(t)

	w := postJSON(t, fix.handler.Register, "/api/auth/register", RegisterRequest{
		Email:    "learner@example.com",
		Password: "correct-horse-battery",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	registered := decodeAuthResponse(t, w)

	w = postJSON(t, fix.handler.Refresh, "/api/auth/refresh", RefreshRequest{
		RefreshToken: registered.RefreshToken,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var refreshed RefreshResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &refreshed))
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.NotEqual(t, registered.RefreshToken, refreshed.RefreshToken)
}

func TestRefreshUnknownTokenUnauthorized(t *testing.T) {
	t.Parallel()
	fix := newAuthFixture(t)

	w := postJSON(t, fix.handler.Refresh, "/api/auth/refresh", RefreshRequest{
		RefreshToken: "not-a-known-token",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var resp shared.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Code)
}

func TestRefreshReuseSignalsBreach(t *testing.T) {
	t.Parallel()
	fix := newAuthFixture(t)

	w := postJSON(t, fix.handler.Register, "/api/auth/register", RegisterRequest{
		Email:    "learner@example.com",
		Password: "correct-horse-battery",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	registered := decodeAuthResponse(t, w)

	// Legitimate rotation consumes the original token.
	w = postJSON(t, fix.handler.Refresh, "/api/auth/refresh", RefreshRequest{
		RefreshToken: registered.RefreshToken,
	})
	require.Equal(t, http.StatusOK, w.Code)
	var refreshed RefreshResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &refreshed))

	// Replaying the consumed token is the breach signal.
	w = postJSON(t, fix.handler.Refresh, "/api/auth/refresh", RefreshRequest{
		RefreshToken: registered.RefreshToken,
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	var breach shared.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &breach))
	assert.Equal(t, CodeSecurityBreach, breach.Code)

	// The sweep killed every session, the freshly rotated token included.
	w = postJSON(t, fix.handler.Refresh, "/api/auth/refresh", RefreshRequest{
		RefreshToken: refreshed.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMeReturnsProfile(t *testing.T) {
	t.Parallel()
	fix := newAuthFixture(t)

	w := postJSON(t, fix.handler.Register, "/api/auth/register", RegisterRequest{
		Email:    "learner@example.com",
		Password: "correct-horse-battery",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	registered := decodeAuthResponse(t, w)

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	ctx := context.WithValue(req.Context(), shared.UserIDContextKey, registered.UserID)
	rec := httptest.NewRecorder()
	fix.handler.Me(rec, req.WithContext(ctx))

	require.Equal(t, http.StatusOK, rec.Code)
	var profile UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	assert.Equal(t, registered.UserID, profile.ID)
	assert.Equal(t, "learner@example.com", profile.Email)
	// The hash must never appear anywhere in the payload.
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestMeWithoutUserContextUnauthorized(t *testing.T) {
	t.Parallel()
	fix := newAuthFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	rec := httptest.NewRecorder()
	fix.handler.Me(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
