// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Nursedemic Contributors

package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/nursedemic/nursedemic/internal/session"
)

// Service provides authentication operations.
type Service struct {
	accounts AccountRepository
	sessions session.Manager
	hasher   PasswordHasher
}

// NewAuthService creates a new Service.
func NewAuthService(accounts AccountRepository, sessions session.Manager, hasher PasswordHasher) (*Service, error) {
	if accounts == nil {
		return nil, oops.Errorf("accounts repository is required")
	}
	if sessions == nil {
		return nil, oops.Errorf("session manager is required")
	}
	if hasher == nil {
		return nil, oops.Errorf("password hasher is required")
	}
	return &Service{accounts: accounts, sessions: sessions, hasher: hasher}, nil
}

// LoginResult is the public-safe outcome of a successful login.
type LoginResult struct {
	AccountID    ulid.ULID
	Name         string
	Role         Role
	SessionToken string
}

// dummyPasswordHash is used when an account doesn't exist to prevent timing
// attacks: verification still runs so response time stays consistent.
// This is NOT a real credential - it will never match any password.
//
//nolint:gosec // G101: intentionally fake hash for timing attack prevention, not a credential.
const dummyPasswordHash = "$argon2id$v=19$m=65536,t=1,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// Login authenticates an account and establishes a session. Unknown email
// and wrong password are indistinguishable in both the returned error and
// the time taken to produce it.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, oops.Code("AUTH_MISSING_FIELD").Errorf("email and password are required")
	}
	if !ValidEmailShape(email) {
		return nil, oops.Code("AUTH_INVALID_EMAIL").Errorf("invalid email format")
	}

	account, lookupErr := s.accounts.GetByEmail(ctx, email)

	// Pick the hash to verify against: real, or the dummy on a miss so the
	// argon2 work still happens.
	var targetHash string
	var accountExists bool

	if lookupErr != nil {
		if !errors.Is(lookupErr, ErrNotFound) {
			return nil, oops.Code(storeCode(lookupErr)).
				With("operation", "get account by email").
				Wrap(lookupErr)
		}
		targetHash = dummyPasswordHash
	} else {
		targetHash = account.PasswordHash
		accountExists = true
	}

	valid, verifyErr := s.hasher.Verify(password, targetHash)
	if verifyErr != nil {
		// A malformed stored hash must look exactly like a wrong password
		// from the outside.
		valid = false
	}

	if !accountExists || !valid {
		return nil, oops.Code("AUTH_INVALID_CREDENTIALS").Errorf("invalid email or password")
	}

	// Upgrade legacy hashes on successful verification. Best effort; login
	// succeeds regardless.
	if s.hasher.NeedsUpgrade(account.PasswordHash) {
		if newHash, hashErr := s.hasher.Hash(password); hashErr == nil {
			_ = s.accounts.UpdatePasswordHash(ctx, account.ID, newHash) //nolint:errcheck // Best effort
		}
	}

	now := time.Now().UTC()
	_ = s.accounts.UpdateLastLogin(ctx, account.ID, now) //nolint:errcheck // Best effort, login succeeds regardless

	token, err := s.sessions.Create(ctx, account.ID)
	if err != nil {
		return nil, oops.Code("AUTH_SESSION_CREATE_FAILED").
			With("operation", "create session").
			Wrap(err)
	}

	return &LoginResult{
		AccountID:    account.ID,
		Name:         account.Name,
		Role:         account.Role,
		SessionToken: token,
	}, nil
}

// Logout tears down the session bound to the token. Unknown tokens are a
// no-op.
func (s *Service) Logout(ctx context.Context, token string) error {
	if err := s.sessions.Destroy(ctx, token); err != nil {
		return oops.Code("AUTH_LOGOUT_FAILED").
			With("operation", "destroy session").
			Wrap(err)
	}
	return nil
}

// CurrentAccount resolves a session token to its account. Returns
// session.ErrNoSession (wrapped) if the token is unknown or expired, and
// ErrNotFound (wrapped) if the account behind a live session was removed.
func (s *Service) CurrentAccount(ctx context.Context, token string) (*Account, error) {
	accountID, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}

	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, oops.Code("SESSION_INVALID").
				With("account_id", accountID.String()).
				Wrap(err)
		}
		return nil, oops.Code(storeCode(err)).
			With("operation", "get account by id").
			Wrap(err)
	}
	return account, nil
}
