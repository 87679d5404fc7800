package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mpalmer-dev/lingua-api/internal/domain"
	"github.com/mpalmer-dev/lingua-api/internal/store"
)

// RefreshTokenStore implements the store.RefreshTokenStore interface using a
// PostgreSQL database as the storage backend.
type RefreshTokenStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewRefreshTokenStore creates a new PostgreSQL implementation of the
// RefreshTokenStore interface.
func NewRefreshTokenStore(db store.DBTX, logger *slog.Logger) *RefreshTokenStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &RefreshTokenStore{
		db:     db,
		logger: logger.With(slog.String("component", "refresh_token_store")),
	}
}

// Ensure RefreshTokenStore implements store.RefreshTokenStore.
var _ store.RefreshTokenStore = (*RefreshTokenStore)(nil)

// Create implements store.RefreshTokenStore.Create.
func (s *RefreshTokenStore) Create(ctx context.Context, token *domain.RefreshToken) error {
	if err := token.Validate(); err != nil {
		return store.NewStoreError("refresh_token", "create", err)
	}

	const query = `
		INSERT INTO refresh_tokens (token, user_id, created_at, used)
		VALUES ($1, $2, $3, $4)`

	_, err := s.db.ExecContext(ctx, query,
		token.Token, token.UserID, token.CreatedAt, token.Used)
	if err != nil {
		if isUniqueViolation(err) {
			// 256-bit collisions do not happen by chance; treat as a
			// programming error upstream.
			return store.ErrDuplicate
		}
		return wrapError("refresh_token", "create", err)
	}

	return nil
}

// Get implements store.RefreshTokenStore.Get.
func (s *RefreshTokenStore) Get(ctx context.Context, token string) (*domain.RefreshToken, error) {
	const query = `
		SELECT token, user_id, created_at, used
		FROM refresh_tokens
		WHERE token = $1`

	var record domain.RefreshToken
	err := s.db.QueryRowContext(ctx, query, token).
		Scan(&record.Token, &record.UserID, &record.CreatedAt, &record.Used)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTokenNotFound
		}
		return nil, wrapError("refresh_token", "get", err)
	}

	return &record, nil
}

// Consume implements store.RefreshTokenStore.Consume.
//
// The check-and-flip is a single conditional UPDATE keyed by the token
// value: the row is only touched while still unused, so of two concurrent
// consumers exactly one sees a row and the other falls through to the
// conflict check. There is no window in which both observe used = false.
func (s *RefreshTokenStore) Consume(ctx context.Context, token string) (*domain.RefreshToken, error) {
	const flip = `
		UPDATE refresh_tokens
		SET used = TRUE
		WHERE token = $1 AND NOT used
		RETURNING user_id, created_at`

	var record domain.RefreshToken
	record.Token = token

	err := s.db.QueryRowContext(ctx, flip, token).Scan(&record.UserID, &record.CreatedAt)
	if err == nil {
		// Returned state is the pre-flip record.
		record.Used = false
		return &record, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, wrapError("refresh_token", "consume", err)
	}

	// No unused row matched: either the token is unknown or it was already
	// consumed. Distinguish the two for the caller's breach handling.
	const probe = `SELECT used FROM refresh_tokens WHERE token = $1`

	var used bool
	err = s.db.QueryRowContext(ctx, probe, token).Scan(&used)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, store.ErrTokenNotFound
	case err != nil:
		return nil, wrapError("refresh_token", "consume", err)
	default:
		return nil, store.ErrConflict
	}
}

// DeleteAllForUser implements store.RefreshTokenStore.DeleteAllForUser.
func (s *RefreshTokenStore) DeleteAllForUser(ctx context.Context, userID uuid.UUID) error {
	const query = `DELETE FROM refresh_tokens WHERE user_id = $1`

	result, err := s.db.ExecContext(ctx, query, userID)
	if err != nil {
		return wrapError("refresh_token", "delete_all_for_user", err)
	}

	if count, err := result.RowsAffected(); err == nil {
		s.logger.InfoContext(ctx, "deleted refresh tokens for user",
			slog.String("user_id", userID.String()),
			slog.Int64("count", count))
	}
	return nil
}
