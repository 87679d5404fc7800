package postgres

import (
	"database/sql"
	"errors"
	"log/slog"

	"context"

	"github.com/google/uuid"

	"github.com/mpalmer-dev/lingua-api/internal/domain"
	"github.com/mpalmer-dev/lingua-api/internal/service/auth"
	"github.com/mpalmer-dev/lingua-api/internal/store"
)

// UserStore implements the store.UserStore interface using a PostgreSQL
// database as the storage backend. Password hashing happens here, on the way
// into storage, so plaintext passwords never travel further than this layer.
type UserStore struct {
	db     store.DBTX
	hasher auth.PasswordHasher
	logger *slog.Logger
}

// NewUserStore creates a new PostgreSQL implementation of the UserStore
// interface. It accepts a database connection or transaction that should be
// initialized and managed by the caller.
func NewUserStore(db store.DBTX, hasher auth.PasswordHasher, logger *slog.Logger) *UserStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if hasher == nil {
		panic("hasher cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &UserStore{
		db:     db,
		hasher: hasher,
		logger: logger.With(slog.String("component", "user_store")),
	}
}

// Ensure UserStore implements store.UserStore.
var _ store.UserStore = (*UserStore)(nil)

// Create implements store.UserStore.Create.
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	if err := user.Validate(); err != nil {
		return store.NewStoreError("user", "create", err)
	}

	hashedPassword := user.HashedPassword
	if user.Password != "" {
		hash, err := s.hasher.Hash(user.Password)
		if err != nil {
			return store.NewStoreError("user", "create", err)
		}
		hashedPassword = hash
	}

	const query = `
		INSERT INTO users (id, email, hashed_password, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := s.db.ExecContext(ctx, query,
		user.ID, user.Email, hashedPassword, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrEmailExists
		}
		return wrapError("user", "create", err)
	}

	// Reflect what was stored; the plaintext has served its purpose.
	user.HashedPassword = hashedPassword
	user.Password = ""
	return nil
}

// GetByID implements store.UserStore.GetByID.
func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	const query = `
		SELECT id, email, hashed_password, created_at, updated_at
		FROM users
		WHERE id = $1`

	return s.scanUser(s.db.QueryRowContext(ctx, query, id), "get_by_id")
}

// GetByEmail implements store.UserStore.GetByEmail.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `
		SELECT id, email, hashed_password, created_at, updated_at
		FROM users
		WHERE email = $1`

	return s.scanUser(s.db.QueryRowContext(ctx, query, email), "get_by_email")
}

// scanUser reads one user row, translating sql.ErrNoRows to ErrUserNotFound.
func (s *UserStore) scanUser(row *sql.Row, operation string) (*domain.User, error) {
	var user domain.User
	err := row.Scan(&user.ID, &user.Email, &user.HashedPassword, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		return nil, wrapError("user", operation, err)
	}
	return &user, nil
}
