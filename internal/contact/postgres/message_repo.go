// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Nursedemic Contributors

// Package postgres implements the contact message repository on PostgreSQL.
package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"

	"github.com/nursedemic/nursedemic/internal/contact"
)

// DB is the subset of pgxpool.Pool the repository needs. pgxmock satisfies
// it too.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// MessageRepository implements contact.MessageRepository using PostgreSQL.
type MessageRepository struct {
	db DB
}

// NewMessageRepository creates a new MessageRepository.
func NewMessageRepository(db DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create stores a new contact message.
func (r *MessageRepository) Create(ctx context.Context, msg *contact.Message) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO contact_messages (
			id, name, email, phone, subject, body, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		msg.ID.String(),
		msg.Name,
		msg.Email,
		msg.Phone,
		msg.Subject,
		msg.Body,
		msg.CreatedAt,
	)
	if err != nil {
		return oops.Code("CONTACT_CREATE_FAILED").
			With("operation", "insert contact message").
			Wrap(err)
	}
	return nil
}
