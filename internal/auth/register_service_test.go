// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Nursedemic Contributors

package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nursedemic/nursedemic/internal/auth"
	"github.com/nursedemic/nursedemic/internal/auth/mocks"
	"github.com/nursedemic/nursedemic/pkg/errutil"
)

func validInput() auth.RegistrationInput {
	return auth.RegistrationInput{
		Name:            "Jane Doe",
		Email:           "jane@x.com",
		Role:            "student",
		Password:        "Passw0rd!",
		PasswordConfirm: "Passw0rd!",
	}
}

func TestNewRegistrationService(t *testing.T) {
	t.Run("requires repository", func(t *testing.T) {
		_, err := auth.NewRegistrationService(nil, mocks.NewMockPasswordHasher(t))
		assert.Error(t, err)
	})

	t.Run("requires hasher", func(t *testing.T) {
		_, err := auth.NewRegistrationService(mocks.NewMockAccountRepository(t), nil)
		assert.Error(t, err)
	})
}

func TestRegistrationService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("registers a new account", func(t *testing.T) {
		accounts := mocks.NewMockAccountRepository(t)
		hasher := mocks.NewMockPasswordHasher(t)
		svc, err := auth.NewRegistrationService(accounts, hasher)
		require.NoError(t, err)

		accounts.On("GetByEmail", ctx, "jane@x.com").Return(nil, auth.ErrNotFound)
		hasher.On("Hash", "Passw0rd!").Return("$argon2id$fake", nil)
		accounts.On("Create", ctx, mock.MatchedBy(func(a *auth.Account) bool {
			return a.Email == "jane@x.com" &&
				a.Name == "Jane Doe" &&
				a.Role == auth.RoleStudent &&
				a.PasswordHash == "$argon2id$fake"
		})).Return(nil)

		result, err := svc.Register(ctx, validInput())
		require.NoError(t, err)

		assert.Equal(t, "jane@x.com", result.Email)
		assert.NotZero(t, result.ID)
	})

	t.Run("validation failures never touch the store", func(t *testing.T) {
		tests := []struct {
			name     string
			mutate   func(*auth.RegistrationInput)
			wantCode string
		}{
			{"missing name", func(in *auth.RegistrationInput) { in.Name = " " }, "AUTH_MISSING_FIELD"},
			{"missing email", func(in *auth.RegistrationInput) { in.Email = "" }, "AUTH_MISSING_FIELD"},
			{"missing role", func(in *auth.RegistrationInput) { in.Role = "" }, "AUTH_MISSING_FIELD"},
			{"missing password", func(in *auth.RegistrationInput) { in.Password = "" }, "AUTH_MISSING_FIELD"},
			{"malformed email", func(in *auth.RegistrationInput) { in.Email = "jane.x.com" }, "AUTH_INVALID_EMAIL"},
			{"short password", func(in *auth.RegistrationInput) {
				in.Password = "short1"
				in.PasswordConfirm = "short1"
			}, "AUTH_WEAK_PASSWORD"},
			{"weak password", func(in *auth.RegistrationInput) {
				in.Password = "allsmallletters"
				in.PasswordConfirm = "allsmallletters"
			}, "AUTH_WEAK_PASSWORD"},
			{"confirmation mismatch", func(in *auth.RegistrationInput) { in.PasswordConfirm = "Passw0rd?" }, "AUTH_PASSWORD_MISMATCH"},
			{"short name", func(in *auth.RegistrationInput) { in.Name = "Jo" }, "AUTH_INVALID_NAME"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				accounts := mocks.NewMockAccountRepository(t)
				hasher := mocks.NewMockPasswordHasher(t)
				svc, err := auth.NewRegistrationService(accounts, hasher)
				require.NoError(t, err)

				in := validInput()
				tt.mutate(&in)

				_, err = svc.Register(ctx, in)
				errutil.AssertErrorCode(t, err, tt.wantCode)
				accounts.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
				accounts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			})
		}
	})

	t.Run("distinguishes short from weak in context", func(t *testing.T) {
		accounts := mocks.NewMockAccountRepository(t)
		hasher := mocks.NewMockPasswordHasher(t)
		svc, err := auth.NewRegistrationService(accounts, hasher)
		require.NoError(t, err)

		in := validInput()
		in.Password, in.PasswordConfirm = "short1", "short1"
		_, err = svc.Register(ctx, in)
		errutil.AssertErrorContext(t, err, "reason", "too_short")

		in.Password, in.PasswordConfirm = "nouppercase1", "nouppercase1"
		_, err = svc.Register(ctx, in)
		errutil.AssertErrorContext(t, err, "reason", "missing_classes")
	})

	t.Run("rejects already registered email", func(t *testing.T) {
		accounts := mocks.NewMockAccountRepository(t)
		hasher := mocks.NewMockPasswordHasher(t)
		svc, err := auth.NewRegistrationService(accounts, hasher)
		require.NoError(t, err)

		existing := &auth.Account{Email: "jane@x.com"}
		accounts.On("GetByEmail", ctx, "jane@x.com").Return(existing, nil)

		_, err = svc.Register(ctx, validInput())
		errutil.AssertErrorCode(t, err, "AUTH_EMAIL_TAKEN")
		accounts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("maps unique constraint race to email taken", func(t *testing.T) {
		// Both concurrent registrations pass the pre-check; the store's
		// unique index rejects the loser.
		accounts := mocks.NewMockAccountRepository(t)
		hasher := mocks.NewMockPasswordHasher(t)
		svc, err := auth.NewRegistrationService(accounts, hasher)
		require.NoError(t, err)

		accounts.On("GetByEmail", ctx, "jane@x.com").Return(nil, auth.ErrNotFound)
		hasher.On("Hash", "Passw0rd!").Return("$argon2id$fake", nil)
		accounts.On("Create", ctx, mock.Anything).Return(auth.ErrEmailTaken)

		_, err = svc.Register(ctx, validInput())
		errutil.AssertErrorCode(t, err, "AUTH_EMAIL_TAKEN")
	})

	t.Run("surfaces store failure on uniqueness check", func(t *testing.T) {
		accounts := mocks.NewMockAccountRepository(t)
		hasher := mocks.NewMockPasswordHasher(t)
		svc, err := auth.NewRegistrationService(accounts, hasher)
		require.NoError(t, err)

		accounts.On("GetByEmail", ctx, "jane@x.com").Return(nil, assert.AnError)

		_, err = svc.Register(ctx, validInput())
		errutil.AssertErrorCode(t, err, "AUTH_STORE_FAILED")
	})

	t.Run("reports unreachable store distinctly", func(t *testing.T) {
		accounts := mocks.NewMockAccountRepository(t)
		hasher := mocks.NewMockPasswordHasher(t)
		svc, err := auth.NewRegistrationService(accounts, hasher)
		require.NoError(t, err)

		accounts.On("GetByEmail", ctx, "jane@x.com").Return(nil, context.DeadlineExceeded)

		_, err = svc.Register(ctx, validInput())
		errutil.AssertErrorCode(t, err, "STORE_UNAVAILABLE")
	})

	t.Run("surfaces hasher failure", func(t *testing.T) {
		accounts := mocks.NewMockAccountRepository(t)
		hasher := mocks.NewMockPasswordHasher(t)
		svc, err := auth.NewRegistrationService(accounts, hasher)
		require.NoError(t, err)

		accounts.On("GetByEmail", ctx, "jane@x.com").Return(nil, auth.ErrNotFound)
		hasher.On("Hash", "Passw0rd!").Return("", assert.AnError)

		_, err = svc.Register(ctx, validInput())
		errutil.AssertErrorCode(t, err, "AUTH_REGISTER_FAILED")
	})
}
