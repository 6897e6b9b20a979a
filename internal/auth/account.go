// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Nursedemic Contributors

package auth

import (
	"context"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Role classifies an account. The set is open: registration accepts any
// non-empty value, but known roles normalize to the constants below so that
// downstream features can match on them.
type Role string

// Known roles.
const (
	RoleStudent  Role = "student"
	RoleNurse    Role = "nurse"
	RoleEducator Role = "educator"
	RoleAdmin    Role = "admin"
)

// NormalizeRole lowercases and trims a submitted role value.
func NormalizeRole(s string) Role {
	return Role(strings.ToLower(strings.TrimSpace(s)))
}

// Account represents a registered portal account.
type Account struct {
	ID           ulid.ULID
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	LastLoginAt  *time.Time // nil until the first successful login
}

// NewAccount creates a validated Account with a fresh ID and creation
// timestamp. The password hash must come from a PasswordHasher; this
// constructor never sees a plaintext secret.
func NewAccount(name, email, role, passwordHash string) (*Account, error) {
	if !ValidNonEmpty(name, MinNameLength) {
		return nil, oops.Code("AUTH_INVALID_NAME").
			With("min", MinNameLength).
			Errorf("name must be at least %d characters", MinNameLength)
	}
	if !ValidEmailShape(email) {
		return nil, oops.Code("AUTH_INVALID_EMAIL").Errorf("invalid email format")
	}
	if !ValidNonEmpty(role, 1) {
		return nil, oops.Code("AUTH_MISSING_FIELD").Errorf("role cannot be empty")
	}
	if passwordHash == "" {
		return nil, oops.Code("AUTH_INVALID_HASH").Errorf("password hash cannot be empty")
	}

	return &Account{
		ID:           ulid.Make(),
		Name:         strings.TrimSpace(name),
		Email:        strings.TrimSpace(email),
		PasswordHash: passwordHash,
		Role:         NormalizeRole(role),
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// AccountRepository manages account persistence.
type AccountRepository interface {
	// Create stores a new account. Returns ErrEmailTaken (wrapped) if the
	// email collides with an existing account; the store enforces this with
	// a unique constraint so the check-then-insert window is closed.
	Create(ctx context.Context, account *Account) error

	// GetByID retrieves an account by ID.
	GetByID(ctx context.Context, id ulid.ULID) (*Account, error)

	// GetByEmail retrieves an account by email (case-insensitive).
	GetByEmail(ctx context.Context, email string) (*Account, error)

	// UpdateLastLogin records a successful authentication time.
	UpdateLastLogin(ctx context.Context, id ulid.ULID, at time.Time) error

	// UpdatePasswordHash replaces only the stored hash, used when a legacy
	// hash is upgraded after a successful login.
	UpdatePasswordHash(ctx context.Context, id ulid.ULID, passwordHash string) error
}
