// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Nursedemic Contributors

package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nursedemic/nursedemic/internal/session"
)

func newTestManager(t *testing.T, ttl time.Duration) (*session.RedisManager, *miniredis.Miniredis) {
	t.Helper()

	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	mgr, err := session.NewRedisManager(client, ttl)
	require.NoError(t, err)
	return mgr, srv
}

func TestNewRedisManager(t *testing.T) {
	t.Run("requires client", func(t *testing.T) {
		_, err := session.NewRedisManager(nil, time.Hour)
		assert.Error(t, err)
	})

	t.Run("non-positive ttl falls back to default", func(t *testing.T) {
		mgr, _ := newTestManager(t, 0)
		assert.Equal(t, session.DefaultTTL, mgr.TTL())
	})
}

func TestRedisManager_CreateResolve(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		mgr, _ := newTestManager(t, time.Hour)
		accountID := ulid.Make()

		token, err := mgr.Create(ctx, accountID)
		require.NoError(t, err)
		assert.Len(t, token, session.TokenBytes*2)

		got, err := mgr.Resolve(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, accountID, got)
	})

	t.Run("store never sees the plaintext token", func(t *testing.T) {
		mgr, srv := newTestManager(t, time.Hour)

		token, err := mgr.Create(ctx, ulid.Make())
		require.NoError(t, err)

		keys := srv.Keys()
		require.Len(t, keys, 1)
		assert.NotContains(t, keys[0], token)
		assert.Contains(t, keys[0], session.HashToken(token))
	})

	t.Run("unknown token", func(t *testing.T) {
		mgr, _ := newTestManager(t, time.Hour)

		_, err := mgr.Resolve(ctx, "deadbeef")
		assert.ErrorIs(t, err, session.ErrNoSession)
	})

	t.Run("empty token", func(t *testing.T) {
		mgr, _ := newTestManager(t, time.Hour)

		_, err := mgr.Resolve(ctx, "")
		assert.ErrorIs(t, err, session.ErrNoSession)
	})

	t.Run("expired token", func(t *testing.T) {
		mgr, srv := newTestManager(t, time.Minute)

		token, err := mgr.Create(ctx, ulid.Make())
		require.NoError(t, err)

		srv.FastForward(2 * time.Minute)

		_, err = mgr.Resolve(ctx, token)
		assert.ErrorIs(t, err, session.ErrNoSession)
	})

	t.Run("resolve does not extend the lifetime", func(t *testing.T) {
		mgr, srv := newTestManager(t, 10*time.Minute)

		token, err := mgr.Create(ctx, ulid.Make())
		require.NoError(t, err)

		srv.FastForward(6 * time.Minute)
		_, err = mgr.Resolve(ctx, token)
		require.NoError(t, err)

		srv.FastForward(6 * time.Minute)
		_, err = mgr.Resolve(ctx, token)
		assert.ErrorIs(t, err, session.ErrNoSession)
	})
}

func TestRedisManager_Destroy(t *testing.T) {
	ctx := context.Background()

	t.Run("destroyed token no longer resolves", func(t *testing.T) {
		mgr, _ := newTestManager(t, time.Hour)

		token, err := mgr.Create(ctx, ulid.Make())
		require.NoError(t, err)

		require.NoError(t, mgr.Destroy(ctx, token))

		_, err = mgr.Resolve(ctx, token)
		assert.ErrorIs(t, err, session.ErrNoSession)
	})

	t.Run("unknown token is a no-op", func(t *testing.T) {
		mgr, _ := newTestManager(t, time.Hour)
		assert.NoError(t, mgr.Destroy(ctx, "deadbeef"))
	})

	t.Run("empty token is a no-op", func(t *testing.T) {
		mgr, _ := newTestManager(t, time.Hour)
		assert.NoError(t, mgr.Destroy(ctx, ""))
	})
}
