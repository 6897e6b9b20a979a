// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Nursedemic Contributors

package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"
	"github.com/samber/oops"
)

const keyPrefix = "session:"

// payload is the stored session record. Expiry is delegated to the Redis
// key TTL, so Resolve never has to compare timestamps.
type payload struct {
	AccountID string    `json:"account_id"`
	IssuedAt  time.Time `json:"issued_at"`
}

// RedisManager implements Manager on a Redis keyspace. Every operation is a
// single round trip.
type RedisManager struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisManager creates a RedisManager. A non-positive ttl falls back to
// DefaultTTL.
func NewRedisManager(client *redis.Client, ttl time.Duration) (*RedisManager, error) {
	if client == nil {
		return nil, oops.Errorf("redis client is required")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisManager{client: client, ttl: ttl}, nil
}

// TTL returns the configured session lifetime.
func (m *RedisManager) TTL() time.Duration {
	return m.ttl
}

// Create issues a token bound to the account and stores the session.
func (m *RedisManager) Create(ctx context.Context, accountID ulid.ULID) (string, error) {
	token, tokenHash, err := GenerateToken()
	if err != nil {
		return "", err
	}

	data, err := json.Marshal(payload{
		AccountID: accountID.String(),
		IssuedAt:  time.Now().UTC(),
	})
	if err != nil {
		return "", oops.Code("SESSION_CREATE_FAILED").
			With("operation", "marshal session payload").
			Wrap(err)
	}

	if err := m.client.Set(ctx, keyPrefix+tokenHash, data, m.ttl).Err(); err != nil {
		return "", oops.Code("SESSION_CREATE_FAILED").
			With("operation", "store session").
			Wrap(err)
	}

	return token, nil
}

// Resolve returns the account bound to the token, or ErrNoSession if the
// token is unknown or its key has expired. The TTL is not extended.
func (m *RedisManager) Resolve(ctx context.Context, token string) (ulid.ULID, error) {
	if token == "" {
		return ulid.ULID{}, oops.Code("SESSION_INVALID").Wrap(ErrNoSession)
	}

	data, err := m.client.Get(ctx, keyPrefix+HashToken(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ulid.ULID{}, oops.Code("SESSION_INVALID").Wrap(ErrNoSession)
		}
		return ulid.ULID{}, oops.Code("SESSION_RESOLVE_FAILED").
			With("operation", "get session").
			Wrap(err)
	}

	var stored payload
	if err := json.Unmarshal(data, &stored); err != nil {
		return ulid.ULID{}, oops.Code("SESSION_RESOLVE_FAILED").
			With("operation", "unmarshal session payload").
			Wrap(err)
	}

	accountID, err := ulid.Parse(stored.AccountID)
	if err != nil {
		return ulid.ULID{}, oops.Code("SESSION_RESOLVE_FAILED").
			With("operation", "parse account id").
			Wrap(err)
	}

	return accountID, nil
}

// Destroy invalidates the token.
func (m *RedisManager) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := m.client.Del(ctx, keyPrefix+HashToken(token)).Err(); err != nil {
		return oops.Code("SESSION_DESTROY_FAILED").
			With("operation", "delete session").
			Wrap(err)
	}
	return nil
}
