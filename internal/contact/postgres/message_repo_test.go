// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Nursedemic Contributors

package postgres_test

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nursedemic/nursedemic/internal/contact"
	"github.com/nursedemic/nursedemic/internal/contact/postgres"
	"github.com/nursedemic/nursedemic/pkg/errutil"
)

func TestMessageRepository_Create(t *testing.T) {
	ctx := context.Background()

	newRepo := func(t *testing.T) (*postgres.MessageRepository, pgxmock.PgxPoolIface) {
		t.Helper()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		t.Cleanup(func() {
			assert.NoError(t, mock.ExpectationsWereMet())
			mock.Close()
		})
		return postgres.NewMessageRepository(mock), mock
	}

	newMsg := func(t *testing.T) *contact.Message {
		t.Helper()
		msg, err := contact.NewMessage("Jane Doe", "jane@x.com", "555-0100", "Rotations", "I would like to know more.")
		require.NoError(t, err)
		return msg
	}

	t.Run("inserts message", func(t *testing.T) {
		repo, mock := newRepo(t)
		msg := newMsg(t)

		mock.ExpectExec("INSERT INTO contact_messages").
			WithArgs(
				msg.ID.String(),
				msg.Name,
				msg.Email,
				msg.Phone,
				msg.Subject,
				msg.Body,
				msg.CreatedAt,
			).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		require.NoError(t, repo.Create(ctx, msg))
	})

	t.Run("wraps store failure", func(t *testing.T) {
		repo, mock := newRepo(t)
		msg := newMsg(t)

		mock.ExpectExec("INSERT INTO contact_messages").
			WithArgs(
				msg.ID.String(),
				msg.Name,
				msg.Email,
				msg.Phone,
				msg.Subject,
				msg.Body,
				msg.CreatedAt,
			).
			WillReturnError(assert.AnError)

		err := repo.Create(ctx, msg)
		errutil.AssertErrorCode(t, err, "CONTACT_CREATE_FAILED")
	})
}
