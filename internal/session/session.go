// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Nursedemic Contributors

// Package session issues and resolves opaque server-side session tokens.
//
// A token is 32 random bytes, hex-encoded, handed to the client once. The
// store only ever sees the token's SHA-256 hash, so a store dump yields no
// usable credentials and the token cannot be derived from the account ID.
package session

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Token configuration.
const (
	TokenBytes = 32             // 32 bytes = 64 hex chars
	DefaultTTL = 24 * time.Hour // absolute lifetime; Resolve does not extend it
)

// ErrNoSession is returned by Resolve when the token is unknown, expired, or
// destroyed. Callers cannot distinguish the three.
var ErrNoSession = errors.New("no active session")

// Manager issues, resolves, and tears down sessions.
type Manager interface {
	// Create issues a token bound to the account and stores the session.
	Create(ctx context.Context, accountID ulid.ULID) (string, error)

	// Resolve returns the account bound to the token, or ErrNoSession.
	Resolve(ctx context.Context, token string) (ulid.ULID, error)

	// Destroy invalidates the token. Destroying an unknown token is not an
	// error; the observable outcome is the same.
	Destroy(ctx context.Context, token string) error
}

// GenerateToken creates a secure random token and its storage hash.
// Returns (plaintext_token, sha256_hash, error). The plaintext goes to the
// client; only the hash is stored.
func GenerateToken() (token, hash string, err error) {
	buf := make([]byte, TokenBytes)
	if _, err = rand.Read(buf); err != nil {
		return "", "", oops.Code("SESSION_TOKEN_GENERATE_FAILED").
			With("operation", "crypto/rand.Read").
			With("requested_bytes", TokenBytes).
			Wrap(err)
	}

	token = hex.EncodeToString(buf)
	hash = HashToken(token)

	return token, hash, nil
}

// HashToken computes the hex-encoded SHA-256 hash of a session token.
func HashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}
