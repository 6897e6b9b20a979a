// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Nursedemic Contributors

package auth

import (
	"regexp"
	"strings"
	"unicode"
)

// Validation thresholds.
const (
	// MinPasswordLength applies to registration.
	MinPasswordLength = 8

	// LoginMinPasswordLength is the threshold the legacy client enforced on
	// the login form. The server login path checks presence only; the
	// constant documents the asymmetry rather than enforcing it.
	LoginMinPasswordLength = 6

	// MinNameLength applies to the display name at registration.
	MinNameLength = 3
)

// emailShapeRegex matches local-part @ domain . tld with no whitespace and
// no second @. This is a shape check, not RFC 5322 and not a deliverability
// check.
var emailShapeRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmailShape reports whether s looks like an email address.
func ValidEmailShape(s string) bool {
	return emailShapeRegex.MatchString(s)
}

// ValidPasswordStrength reports whether s meets the registration strength
// rule: at least MinPasswordLength characters with at least one uppercase
// letter, one lowercase letter, and one digit.
func ValidPasswordStrength(s string) bool {
	if len(s) < MinPasswordLength {
		return false
	}
	var upper, lower, digit bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && lower && digit
}

// ValidNonEmpty reports whether s has at least minLen characters after
// trimming surrounding whitespace.
func ValidNonEmpty(s string, minLen int) bool {
	return len(strings.TrimSpace(s)) >= minLen
}
