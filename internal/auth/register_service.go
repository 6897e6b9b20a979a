// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Nursedemic Contributors

package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// RegistrationInput carries the submitted registration form fields.
type RegistrationInput struct {
	Name            string
	Email           string
	Role            string
	Password        string
	PasswordConfirm string
}

// PublicAccount is the registration result. It carries only fields safe to
// return to the client; never the hash or any secret-derived value.
type PublicAccount struct {
	ID    ulid.ULID
	Email string
}

// RegistrationService orchestrates account creation:
// validate, check uniqueness, hash, persist.
type RegistrationService struct {
	accounts AccountRepository
	hasher   PasswordHasher
}

// NewRegistrationService creates a RegistrationService.
func NewRegistrationService(accounts AccountRepository, hasher PasswordHasher) (*RegistrationService, error) {
	if accounts == nil {
		return nil, oops.Errorf("accounts repository is required")
	}
	if hasher == nil {
		return nil, oops.Errorf("password hasher is required")
	}
	return &RegistrationService{accounts: accounts, hasher: hasher}, nil
}

// Register creates a new account. Checks run in a fixed order and
// short-circuit on the first failure; no store access happens before the
// pure validation passes. Registration does not establish a session.
func (s *RegistrationService) Register(ctx context.Context, in RegistrationInput) (*PublicAccount, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	role := strings.TrimSpace(in.Role)

	if name == "" || email == "" || role == "" || in.Password == "" {
		return nil, oops.Code("AUTH_MISSING_FIELD").Errorf("all fields are required")
	}
	if !ValidEmailShape(email) {
		return nil, oops.Code("AUTH_INVALID_EMAIL").Errorf("invalid email format")
	}
	if len(in.Password) < MinPasswordLength {
		return nil, oops.Code("AUTH_WEAK_PASSWORD").
			With("reason", "too_short").
			With("min", MinPasswordLength).
			Errorf("password must be at least %d characters", MinPasswordLength)
	}
	if !ValidPasswordStrength(in.Password) {
		return nil, oops.Code("AUTH_WEAK_PASSWORD").
			With("reason", "missing_classes").
			Errorf("password must contain uppercase, lowercase, and a number")
	}
	if in.Password != in.PasswordConfirm {
		return nil, oops.Code("AUTH_PASSWORD_MISMATCH").Errorf("passwords do not match")
	}
	if !ValidNonEmpty(name, MinNameLength) {
		return nil, oops.Code("AUTH_INVALID_NAME").
			With("min", MinNameLength).
			Errorf("name must be at least %d characters", MinNameLength)
	}

	// Pre-check. The unique constraint on the store is what actually
	// guarantees uniqueness; this lookup only produces a friendlier failure
	// for the common case.
	_, lookupErr := s.accounts.GetByEmail(ctx, email)
	if lookupErr == nil {
		return nil, oops.Code("AUTH_EMAIL_TAKEN").Errorf("email already registered")
	}
	if !errors.Is(lookupErr, ErrNotFound) {
		return nil, oops.Code(storeCode(lookupErr)).
			With("operation", "check email uniqueness").
			Wrap(lookupErr)
	}

	passwordHash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	account, err := NewAccount(name, email, role, passwordHash)
	if err != nil {
		return nil, err
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		// Two concurrent registrations can both pass the pre-check; the
		// store's unique index decides the winner.
		if errors.Is(err, ErrEmailTaken) {
			return nil, oops.Code("AUTH_EMAIL_TAKEN").Errorf("email already registered")
		}
		return nil, oops.Code(storeCode(err)).
			With("operation", "insert account").
			Wrap(err)
	}

	return &PublicAccount{ID: account.ID, Email: account.Email}, nil
}
