package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/mpalmer-dev/lingua-api/internal/domain"
	"github.com/mpalmer-dev/lingua-api/internal/service/auth"
	"github.com/mpalmer-dev/lingua-api/internal/store"
)

// RefreshTokenRotator abstracts the refresh token service for handlers and
// tests.
type RefreshTokenRotator interface {
	Issue(ctx context.Context, userID uuid.UUID) (string, error)
	Rotate(ctx context.Context, oldToken string) (*auth.RotatedToken, error)
}

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	userStore       store.UserStore
	jwtService      auth.JWTService
	refreshService  RefreshTokenRotator
	passwordHasher  auth.PasswordHasher
	accessLifetime  time.Duration
	validator       *validator.Validate
	timeFunc        func() time.Time // Injectable for testing
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	userStore store.UserStore,
	jwtService auth.JWTService,
	refreshService RefreshTokenRotator,
	passwordHasher auth.PasswordHasher,
	accessLifetime time.Duration,
) *AuthHandler {
	return &AuthHandler{
		userStore:      userStore,
		jwtService:     jwtService,
		refreshService: refreshService,
		passwordHasher: passwordHasher,
		accessLifetime: accessLifetime,
		validator:      validator.New(),
		timeFunc:       time.Now,
	}
}

// Register handles the /api/auth/register endpoint.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest

	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	user, err := domain.NewUser(req.Email, req.Password)
	if err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid user data: "+err.Error())
		return
	}

	if err := h.userStore.Create(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			RespondWithError(w, r, http.StatusConflict, "Email already exists")
			return
		}
		slog.Error("failed to create user", "error", err)
		HandleAPIError(w, r, err, "Failed to create user")
		return
	}

	h.respondWithTokenPair(w, r, user.ID, http.StatusCreated)
}

// Login handles the /api/auth/login endpoint.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	user, err := h.userStore.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			// Indistinguishable from a wrong password on purpose.
			RespondWithError(w, r, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		slog.Error("failed to get user by email", "error", err)
		HandleAPIError(w, r, err, "Failed to authenticate user")
		return
	}

	if err := h.passwordHasher.Compare(user.HashedPassword, req.Password); err != nil {
		RespondWithError(w, r, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	h.respondWithTokenPair(w, r, user.ID, http.StatusOK)
}

// Refresh handles the /api/auth/refresh endpoint. It rotates the presented
// refresh token and mints a matching access token. A consumed token showing
// up again triggers the breach response inside the service; here that
// surfaces as a 401 with the security_breach code.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest

	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	rotated, err := h.refreshService.Rotate(r.Context(), req.RefreshToken)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	accessToken, err := h.jwtService.GenerateToken(r.Context(), rotated.UserID)
	if err != nil {
		slog.Error("failed to generate access token", "error", err, "user_id", rotated.UserID)
		RespondWithError(w, r, http.StatusInternalServerError, "Failed to generate authentication token")
		return
	}

	RespondWithJSON(w, r, http.StatusOK, RefreshResponse{
		AccessToken:  accessToken,
		RefreshToken: rotated.Token,
		ExpiresAt:    h.accessExpiry(),
	})
}

// Me handles the /api/me endpoint for the authenticated user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	user, err := h.userStore.GetByID(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	RespondWithJSON(w, r, http.StatusOK, UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	})
}

// respondWithTokenPair issues a fresh access/refresh pair for the user and
// writes the auth response.
func (h *AuthHandler) respondWithTokenPair(
	w http.ResponseWriter,
	r *http.Request,
	userID uuid.UUID,
	status int,
) {
	accessToken, err := h.jwtService.GenerateToken(r.Context(), userID)
	if err != nil {
		slog.Error("failed to generate access token", "error", err, "user_id", userID)
		RespondWithError(w, r, http.StatusInternalServerError, "Failed to generate authentication token")
		return
	}

	refreshToken, err := h.refreshService.Issue(r.Context(), userID)
	if err != nil {
		slog.Error("failed to issue refresh token", "error", err, "user_id", userID)
		RespondWithError(w, r, http.StatusInternalServerError, "Failed to create session")
		return
	}

	RespondWithJSON(w, r, status, AuthResponse{
		UserID:       userID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    h.accessExpiry(),
	})
}

// accessExpiry formats the expiry timestamp of an access token minted now.
func (h *AuthHandler) accessExpiry() string {
	return h.timeFunc().UTC().Add(h.accessLifetime).Format(time.RFC3339)
}
