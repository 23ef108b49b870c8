package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManasMalla/devfest-vizag-2025/internal/repository"
	"github.com/ManasMalla/devfest-vizag-2025/internal/repository/memory"
)

func newLocalProvider(t *testing.T) (*LocalProvider, repository.UserRepository) {
	t.Helper()
	users := memory.New().Repositories().Users
	require.NoError(t, users.Upsert(context.Background(), &repository.DirectoryUser{UID: "u1", Email: "Asha@Example.com"}))
	return NewLocalProvider("secret", "devfest-hub", users), users
}

func TestLocalProviderRoundTrip(t *testing.T) {
	provider, _ := newLocalProvider(t)

	token, expiresAt, err := provider.IssueToken("u1", "asha@example.com", time.Hour)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	identity, err := provider.VerifyToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "u1", identity.UID)
	assert.Equal(t, "asha@example.com", identity.Email)
}

func TestLocalProviderRejects(t *testing.T) {
	ctx := context.Background()
	provider, users := newLocalProvider(t)

	t.Run("wrong secret", func(t *testing.T) {
		other := NewLocalProvider("other", "devfest-hub", users)
		token, _, err := other.IssueToken("u1", "", time.Hour)
		require.NoError(t, err)
		_, err = provider.VerifyToken(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := NewLocalProvider("secret", "someone-else", users)
		token, _, err := other.IssueToken("u1", "", time.Hour)
		require.NoError(t, err)
		_, err = provider.VerifyToken(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		past := NewLocalProvider("secret", "devfest-hub", users)
		past.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		token, _, err := past.IssueToken("u1", "", time.Hour)
		require.NoError(t, err)
		_, err = provider.VerifyToken(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unknown subject", func(t *testing.T) {
		token, _, err := provider.IssueToken("ghost", "", time.Hour)
		require.NoError(t, err)
		_, err = provider.VerifyToken(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := provider.VerifyToken(ctx, "not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestLocalProviderRevocation(t *testing.T) {
	ctx := context.Background()
	provider, users := newLocalProvider(t)

	issued := NewLocalProvider("secret", "devfest-hub", users)
	issued.now = func() time.Time { return time.Now().Add(-time.Minute) }
	token, _, err := issued.IssueToken("u1", "", time.Hour)
	require.NoError(t, err)

	require.NoError(t, users.RevokeTokens(ctx, "u1", time.Now()))
	_, err = provider.VerifyToken(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	require.NoError(t, users.Upsert(ctx, &repository.DirectoryUser{UID: "u1", Email: "asha@example.com", Disabled: true}))
	fresh, _, err := provider.IssueToken("u1", "", time.Hour)
	require.NoError(t, err)
	_, err = provider.VerifyToken(ctx, fresh)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLocalProviderLookups(t *testing.T) {
	ctx := context.Background()
	provider, _ := newLocalProvider(t)

	identity, err := provider.GetUserByEmail(ctx, "ASHA@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", identity.UID)

	_, err = provider.GetUser(ctx, "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = provider.GetUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
