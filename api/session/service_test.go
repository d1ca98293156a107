package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewService(client, DefaultTTL), mr
}

func TestCreateAndResolve(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	token, err := s.Create(ctx, 42)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	userID, err := s.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)
}

func TestTokensAreUnique(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	t1, err := s.Create(ctx, 1)
	require.NoError(t, err)
	t2, err := s.Create(ctx, 1)
	require.NoError(t, err)

	// re-login creates an independent session; the old one stays valid
	assert.NotEqual(t, t1, t2)
	u1, err := s.Resolve(ctx, t1)
	require.NoError(t, err)
	u2, err := s.Resolve(ctx, t2)
	require.NoError(t, err)
	assert.Equal(t, u1, u2)
}

func TestResolveUnknownToken(t *testing.T) {
	s, _ := newTestService(t)

	_, err := s.Resolve(context.Background(), "no-such-token")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRevoke(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	token, err := s.Create(ctx, 7)
	require.NoError(t, err)

	require.NoError(t, s.Revoke(ctx, token))
	_, err = s.Resolve(ctx, token)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	// revoking again is a no-op
	assert.NoError(t, s.Revoke(ctx, token))
}

func TestTTLExpiry(t *testing.T) {
	s, mr := newTestService(t)
	ctx := context.Background()

	token, err := s.Create(ctx, 9)
	require.NoError(t, err)

	mr.FastForward(DefaultTTL - time.Second)
	_, err = s.Resolve(ctx, token)
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)
	_, err = s.Resolve(ctx, token)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestResolveDoesNotExtendTTL(t *testing.T) {
	s, mr := newTestService(t)
	ctx := context.Background()

	token, err := s.Create(ctx, 5)
	require.NoError(t, err)

	// read halfway through the lifetime, then let the rest elapse
	mr.FastForward(DefaultTTL / 2)
	_, err = s.Resolve(ctx, token)
	require.NoError(t, err)

	mr.FastForward(DefaultTTL/2 + time.Second)
	_, err = s.Resolve(ctx, token)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestCount(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	for i := 0; i < 3; i++ {
		_, err := s.Create(ctx, uint(i+1))
		require.NoError(t, err)
	}

	n, err = s.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}

func TestStoreUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	s := NewService(client, DefaultTTL)

	token, err := s.Create(context.Background(), 3)
	require.NoError(t, err)

	mr.Close()

	// reads surface an error so callers can treat it as "no valid session"
	_, err = s.Resolve(context.Background(), token)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrSessionNotFound)

	// writes fail hard: no session is established
	_, err = s.Create(context.Background(), 4)
	assert.Error(t, err)
}
