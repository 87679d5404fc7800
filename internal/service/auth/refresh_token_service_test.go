package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpalmer-dev/lingua-api/internal/config"
	"github.com/mpalmer-dev/lingua-api/internal/platform/memstore"
)

func newRefreshService(tokens *memstore.TokenStore) *RefreshTokenService {
	return NewRefreshTokenService(tokens, config.AuthConfig{
		JWTSecret:                "test-secret-key-that-is-long-enough!",
		AccessTokenLifetimeMin:   15,
		RefreshTokenLifetimeDays: 7,
	})
}

func TestIssueCreatesUnusedOpaqueToken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tokens := memstore.NewTokenStore()
	svc := newRefreshService(tokens)
	userID := uuid.New()

	value, err := svc.Issue(ctx, userID)
	require.NoError(t, err)

	// 32 random bytes hex-encoded: 64 characters, no structure to parse.
	assert.Len(t, value, 64)

	record, err := tokens.Get(ctx, value)
	require.NoError(t, err)
	assert.Equal(t, userID, record.UserID)
	assert.False(t, record.Used)
}

func TestIssueGeneratesUniqueTokens(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newRefreshService(memstore.NewTokenStore())
	userID := uuid.New()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		value, err := svc.Issue(ctx, userID)
		require.NoError(t, err)
		assert.False(t, seen[value], "token value repeated")
		seen[value] = true
	}
}

func TestRotateReturnsNewTokenAndConsumesOld(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tokens := memstore.NewTokenStore()
	svc := newRefreshService(tokens)
	userID := uuid.New()

	oldToken, err := svc.Issue(ctx, userID)
	require.NoError(t, err)

	rotated, err := svc.Rotate(ctx, oldToken)
	require.NoError(t, err)
	assert.NotEqual(t, oldToken, rotated.Token)
	assert.Equal(t, userID, rotated.UserID)

	// The old link is consumed, the new one is live for the same user.
	oldRecord, err := tokens.Get(ctx, oldToken)
	require.NoError(t, err)
	assert.True(t, oldRecord.Used)

	newRecord, err := tokens.Get(ctx, rotated.Token)
	require.NoError(t, err)
	assert.False(t, newRecord.Used)
	assert.Equal(t, userID, newRecord.UserID)
}

func TestRotateUnknownTokenFailsWithSessionNotFound(t *testing.T) {
	t.Parallel()
	svc := newRefreshService(memstore.NewTokenStore())

	_, err := svc.Rotate(context.Background(), "no-such-token")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRotateReuseDetectsBreachAndRevokesAllSessions(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tokens := memstore.NewTokenStore()
	svc := newRefreshService(tokens)
	userID := uuid.New()

	// The user has sessions on several devices.
	stolen, err := svc.Issue(ctx, userID)
	require.NoError(t, err)
	_, err = svc.Issue(ctx, userID)
	require.NoError(t, err)

	// First rotation is legitimate and succeeds.
	_, err = svc.Rotate(ctx, stolen)
	require.NoError(t, err)

	// Second rotation with the same token is the replay.
	_, err = svc.Rotate(ctx, stolen)
	assert.ErrorIs(t, err, ErrSecurityBreach)

	// Fail safe: not one session survives, not even the freshly issued one.
	assert.Equal(t, 0, tokens.CountForUser(userID))
}

func TestRotateBreachDoesNotTouchOtherUsers(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tokens := memstore.NewTokenStore()
	svc := newRefreshService(tokens)
	victim := uuid.New()
	bystander := uuid.New()

	stolen, err := svc.Issue(ctx, victim)
	require.NoError(t, err)
	_, err = svc.Issue(ctx, bystander)
	require.NoError(t, err)

	_, err = svc.Rotate(ctx, stolen)
	require.NoError(t, err)
	_, err = svc.Rotate(ctx, stolen)
	require.ErrorIs(t, err, ErrSecurityBreach)

	assert.Equal(t, 0, tokens.CountForUser(victim))
	assert.Equal(t, 1, tokens.CountForUser(bystander))
}

// Two concurrent rotations of the same stolen token: exactly one may succeed,
// the other must observe the breach, and the token must never be consumed by
// both.
func TestRotateConcurrentUseOfSameToken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	for i := 0; i < 100; i++ {
		tokens := memstore.NewTokenStore()
		svc := newRefreshService(tokens)
		userID := uuid.New()

		token, err := svc.Issue(ctx, userID)
		require.NoError(t, err)

		var wg sync.WaitGroup
		results := make([]error, 2)
		for j := 0; j < 2; j++ {
			wg.Add(1)
			go func(slot int) {
				defer wg.Done()
				_, results[slot] = svc.Rotate(ctx, token)
			}(j)
		}
		wg.Wait()

		var successes, breaches int
		for _, err := range results {
			switch {
			case err == nil:
				successes++
			default:
				require.ErrorIs(t, err, ErrSecurityBreach)
				breaches++
			}
		}

		assert.Equal(t, 1, successes, "exactly one rotation may win")
		assert.Equal(t, 1, breaches, "the loser must observe the breach")

		// The stolen token must be dead either way: consumed by the winner
		// or swept by the loser's breach response. Whether the winner's
		// replacement survives depends on whether it was issued before or
		// after the sweep, so at most one live token may remain.
		if record, err := tokens.Get(ctx, token); err == nil {
			assert.True(t, record.Used, "stolen token must not stay redeemable")
		}
		assert.LessOrEqual(t, tokens.CountForUser(userID), 1)
	}
}

func TestRotateExpiredTokenFailsWithSessionNotFound(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tokens := memstore.NewTokenStore()
	svc := newRefreshService(tokens)
	userID := uuid.New()

	issuedAt := time.Now().UTC().Add(-8 * 24 * time.Hour)
	svc.timeFunc = func() time.Time { return issuedAt }

	token, err := svc.Issue(ctx, userID)
	require.NoError(t, err)

	// Eight days later the seven-day session has aged out.
	svc.timeFunc = time.Now

	_, err = svc.Rotate(ctx, token)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	// Expired tokens are never consumed, so the record stays unused.
	record, err := tokens.Get(ctx, token)
	require.NoError(t, err)
	assert.False(t, record.Used)
}

func TestRotateExpiredTokenRetryIsNotABreach(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tokens := memstore.NewTokenStore()
	svc := newRefreshService(tokens)
	userID := uuid.New()

	issuedAt := time.Now().UTC().Add(-8 * 24 * time.Hour)
	svc.timeFunc = func() time.Time { return issuedAt }

	stale, err := svc.Issue(ctx, userID)
	require.NoError(t, err)

	// The user also has a current session on another device.
	svc.timeFunc = time.Now
	live, err := svc.Issue(ctx, userID)
	require.NoError(t, err)

	// A client retrying the stale token gets the same answer every time;
	// a merely expired session must not trip the reuse response.
	for i := 0; i < 2; i++ {
		_, err = svc.Rotate(ctx, stale)
		assert.ErrorIs(t, err, ErrSessionNotFound)
		assert.NotErrorIs(t, err, ErrSecurityBreach)
	}

	// The live session survives.
	record, err := tokens.Get(ctx, live)
	require.NoError(t, err)
	assert.False(t, record.Used)
}

func TestRevokeAll(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tokens := memstore.NewTokenStore()
	svc := newRefreshService(tokens)
	userID := uuid.New()

	for i := 0; i < 3; i++ {
		_, err := svc.Issue(ctx, userID)
		require.NoError(t, err)
	}

	require.NoError(t, svc.RevokeAll(ctx, userID))
	assert.Equal(t, 0, tokens.CountForUser(userID))

	// Revoking again is a no-op, not an error.
	assert.NoError(t, svc.RevokeAll(ctx, userID))
}
