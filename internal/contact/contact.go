// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Nursedemic Contributors

// Package contact handles contact-form submissions: validate, persist,
// then notify by email on a best-effort basis.
package contact

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/nursedemic/nursedemic/internal/auth"
)

// MinBodyLength is the shortest accepted message body.
const MinBodyLength = 10

// ErrNotFound is returned when a requested message does not exist.
var ErrNotFound = errors.New("not found")

// Message is a persisted contact-form submission.
type Message struct {
	ID        ulid.ULID
	Name      string
	Email     string
	Phone     string // optional
	Subject   string
	Body      string
	CreatedAt time.Time
}

// NewMessage creates a validated Message.
func NewMessage(name, email, phone, subject, body string) (*Message, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	subject = strings.TrimSpace(subject)
	body = strings.TrimSpace(body)

	if name == "" || email == "" || subject == "" || body == "" {
		return nil, oops.Code("CONTACT_MISSING_FIELD").Errorf("all required fields must be filled")
	}
	if !auth.ValidEmailShape(email) {
		return nil, oops.Code("CONTACT_INVALID_EMAIL").Errorf("invalid email format")
	}
	if len(body) < MinBodyLength {
		return nil, oops.Code("CONTACT_BODY_TOO_SHORT").
			With("min", MinBodyLength).
			Errorf("message must be at least %d characters long", MinBodyLength)
	}

	return &Message{
		ID:        ulid.Make(),
		Name:      name,
		Email:     email,
		Phone:     strings.TrimSpace(phone),
		Subject:   subject,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// MessageRepository manages contact message persistence.
type MessageRepository interface {
	// Create stores a new message.
	Create(ctx context.Context, msg *Message) error
}
