// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Nursedemic Contributors

package contact_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nursedemic/nursedemic/internal/contact"
	"github.com/nursedemic/nursedemic/pkg/errutil"
)

func TestNewMessage(t *testing.T) {
	t.Run("creates validated message", func(t *testing.T) {
		msg, err := contact.NewMessage(" Jane Doe ", "jane@x.com", " 555-0100 ", " Clinical rotations ", " I would like to know more about rotations. ")
		require.NoError(t, err)

		assert.NotZero(t, msg.ID)
		assert.Equal(t, "Jane Doe", msg.Name)
		assert.Equal(t, "jane@x.com", msg.Email)
		assert.Equal(t, "555-0100", msg.Phone)
		assert.Equal(t, "Clinical rotations", msg.Subject)
		assert.False(t, msg.CreatedAt.IsZero())
	})

	t.Run("phone is optional", func(t *testing.T) {
		msg, err := contact.NewMessage("Jane Doe", "jane@x.com", "", "Subject", "A long enough body here.")
		require.NoError(t, err)
		assert.Empty(t, msg.Phone)
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		tests := []struct {
			name     string
			msgName  string
			email    string
			subject  string
			body     string
			wantCode string
		}{
			{"missing name", "", "jane@x.com", "Subject", "A long enough body.", "CONTACT_MISSING_FIELD"},
			{"missing email", "Jane", "", "Subject", "A long enough body.", "CONTACT_MISSING_FIELD"},
			{"missing subject", "Jane", "jane@x.com", "  ", "A long enough body.", "CONTACT_MISSING_FIELD"},
			{"missing body", "Jane", "jane@x.com", "Subject", "", "CONTACT_MISSING_FIELD"},
			{"bad email", "Jane", "jane.x.com", "Subject", "A long enough body.", "CONTACT_INVALID_EMAIL"},
			{"short body", "Jane", "jane@x.com", "Subject", "Too short", "CONTACT_BODY_TOO_SHORT"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := contact.NewMessage(tt.msgName, tt.email, "", tt.subject, tt.body)
				errutil.AssertErrorCode(t, err, tt.wantCode)
			})
		}
	})
}
