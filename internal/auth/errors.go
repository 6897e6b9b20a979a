// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Nursedemic Contributors

package auth

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrEmailTaken is returned by AccountRepository.Create when the email
// collides with an existing account. The repository detects this from the
// store's unique constraint, so concurrent registrations cannot both insert.
var ErrEmailTaken = errors.New("email already registered")

// storeCode classifies a repository failure for the error taxonomy.
// Deadline and cancellation failures surface as STORE_UNAVAILABLE so the
// boundary can answer with a retryable message; everything else is an
// internal failure.
func storeCode(err error) string {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return "STORE_UNAVAILABLE"
	}
	return "AUTH_STORE_FAILED"
}
