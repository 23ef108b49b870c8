package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Nerzal/gocloak/v13"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingLogin struct {
	mu     sync.Mutex
	calls  int
	expiry int
	err    error
}

func (l *countingLogin) login(context.Context) (*gocloak.JWT, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls++
	if l.err != nil {
		return nil, l.err
	}
	return &gocloak.JWT{AccessToken: "token-" + string(rune('0'+l.calls)), ExpiresIn: l.expiry}, nil
}

func (l *countingLogin) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

func TestServiceTokenCacheReusesUntilNearExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 10, 1, 9, 0, 0, 0, time.UTC)
	login := &countingLogin{expiry: 300}
	cache := &serviceTokenCache{login: login.login, now: func() time.Time { return now }}

	first, err := cache.get(ctx)
	require.NoError(t, err)
	second, err := cache.get(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, login.count())

	now = now.Add(300*time.Second - serviceTokenRefreshMargin - time.Second)
	_, err = cache.get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, login.count())

	now = now.Add(2 * time.Second)
	renewed, err := cache.get(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, first, renewed)
	assert.Equal(t, 2, login.count())
}

func TestServiceTokenCacheSingleLoginUnderLoad(t *testing.T) {
	login := &countingLogin{expiry: 300}
	cache := &serviceTokenCache{login: login.login, now: time.Now}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := cache.get(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, login.count())
}

func TestServiceTokenCacheInvalidate(t *testing.T) {
	ctx := context.Background()
	login := &countingLogin{expiry: 300}
	cache := &serviceTokenCache{login: login.login, now: time.Now}

	stale, err := cache.get(ctx)
	require.NoError(t, err)
	cache.invalidate("some-other-token")
	_, err = cache.get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, login.count())

	cache.invalidate(stale)
	_, err = cache.get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, login.count())
}

func TestServiceTokenCacheLoginFailure(t *testing.T) {
	login := &countingLogin{err: errors.New("connection refused")}
	cache := &serviceTokenCache{login: login.login, now: time.Now}

	_, err := cache.get(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "keycloak service login")

	_, err = cache.get(context.Background())
	require.Error(t, err)
	assert.Equal(t, 2, login.count())
}
