package memstore

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/mpalmer-dev/lingua-api/internal/domain"
	"github.com/mpalmer-dev/lingua-api/internal/store"
)

// TokenStore is an in-memory store.RefreshTokenStore.
//
// Consume performs the check-and-flip under a single mutex hold, giving the
// same guarantee the real store gets from a conditional UPDATE: of any number
// of concurrent consumers of one token, exactly one wins.
type TokenStore struct {
	mu      sync.Mutex
	byToken map[string]*domain.RefreshToken
}

// Ensure interface compliance.
var _ store.RefreshTokenStore = (*TokenStore)(nil)

// NewTokenStore creates an empty in-memory refresh token store.
func NewTokenStore() *TokenStore {
	return &TokenStore{byToken: make(map[string]*domain.RefreshToken)}
}

// Create implements store.RefreshTokenStore.Create.
func (s *TokenStore) Create(ctx context.Context, token *domain.RefreshToken) error {
	if err := token.Validate(); err != nil {
		return store.NewStoreError("refresh_token", "create", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byToken[token.Token]; exists {
		return store.ErrDuplicate
	}

	copied := *token
	s.byToken[token.Token] = &copied
	return nil
}

// Get implements store.RefreshTokenStore.Get.
func (s *TokenStore) Get(ctx context.Context, token string) (*domain.RefreshToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.byToken[token]
	if !ok {
		return nil, store.ErrTokenNotFound
	}
	copied := *record
	return &copied, nil
}

// Consume implements store.RefreshTokenStore.Consume.
func (s *TokenStore) Consume(ctx context.Context, token string) (*domain.RefreshToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.byToken[token]
	if !ok {
		return nil, store.ErrTokenNotFound
	}
	if record.Used {
		return nil, store.ErrConflict
	}

	before := *record
	record.Used = true
	return &before, nil
}

// DeleteAllForUser implements store.RefreshTokenStore.DeleteAllForUser.
func (s *TokenStore) DeleteAllForUser(ctx context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for value, record := range s.byToken {
		if record.UserID == userID {
			delete(s.byToken, value)
		}
	}
	return nil
}

// CountForUser reports how many token records the user currently has.
// Test helper for asserting revocation sweeps.
func (s *TokenStore) CountForUser(userID uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, record := range s.byToken {
		if record.UserID == userID {
			count++
		}
	}
	return count
}
