// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Nursedemic Contributors

// Package auth implements the account lifecycle for the Nursedemic portal.
//
// # Domain Types
//
// Account is the persisted identity record. Create one through NewAccount,
// which normalizes the role and stamps creation time; direct struct
// initialization bypasses validation and may create invalid state.
//
// # Services
//
// Two services coordinate the lifecycle:
//   - RegistrationService - validate, check uniqueness, hash, persist
//   - Service - login: validate, fetch, verify, establish a session
//
// Both receive their dependencies (AccountRepository, PasswordHasher,
// session.Manager) explicitly; there is no ambient store or session state.
// All failures are oops errors carrying a stable code; the HTTP layer
// translates codes into public messages and never leaks hashes or store
// errors to callers.
package auth
