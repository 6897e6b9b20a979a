// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Nursedemic Contributors

package contact

import (
	"context"
	"html/template"
	"log/slog"
	"strings"
	"time"

	"github.com/samber/oops"

	"github.com/nursedemic/nursedemic/internal/mail"
	"github.com/nursedemic/nursedemic/pkg/errutil"
)

// adminTemplate renders the notification sent to the portal admin. Fields
// pass through html/template so submitted text cannot inject markup.
var adminTemplate = template.Must(template.New("admin").Parse(`<html>
<body>
<h2>New Contact Form Submission</h2>
<p><strong>Name:</strong> {{.Name}}</p>
<p><strong>Email:</strong> {{.Email}}</p>
<p><strong>Phone:</strong> {{.Phone}}</p>
<p><strong>Subject:</strong> {{.Subject}}</p>
<p><strong>Message:</strong></p>
<p>{{.Body}}</p>
<p><strong>Date:</strong> {{.Date}}</p>
</body>
</html>`))

var confirmTemplate = template.Must(template.New("confirm").Parse(`<html>
<body>
<h2>Thank you for contacting us!</h2>
<p>Dear {{.Name}},</p>
<p>We have received your message and will respond within 24 hours.</p>
<p><strong>Your Message Details:</strong></p>
<p><strong>Subject:</strong> {{.Subject}}</p>
<p><strong>Received at:</strong> {{.Date}}</p>
<p>Best regards,<br>Nursedemic Team</p>
</body>
</html>`))

type mailData struct {
	Name    string
	Email   string
	Phone   string
	Subject string
	Body    string
	Date    string
}

// Service coordinates the contact flow.
type Service struct {
	messages   MessageRepository
	notifier   mail.Notifier
	adminEmail string
	logger     *slog.Logger
}

// NewService creates a contact Service.
func NewService(messages MessageRepository, notifier mail.Notifier, adminEmail string, logger *slog.Logger) (*Service, error) {
	if messages == nil {
		return nil, oops.Errorf("message repository is required")
	}
	if notifier == nil {
		return nil, oops.Errorf("mail notifier is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		messages:   messages,
		notifier:   notifier,
		adminEmail: adminEmail,
		logger:     logger,
	}, nil
}

// Submit validates and persists a submission, then notifies the admin and
// confirms to the sender. Mail failures are logged and swallowed; only
// validation and persistence failures reach the caller.
func (s *Service) Submit(ctx context.Context, name, email, phone, subject, body string) (*Message, error) {
	msg, err := NewMessage(name, email, phone, subject, body)
	if err != nil {
		return nil, err
	}

	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, oops.Code("CONTACT_SUBMIT_FAILED").
			With("operation", "insert contact message").
			Wrap(err)
	}

	s.notify(ctx, msg)

	return msg, nil
}

func (s *Service) notify(ctx context.Context, msg *Message) {
	data := mailData{
		Name:    msg.Name,
		Email:   msg.Email,
		Phone:   msg.Phone,
		Subject: msg.Subject,
		Body:    msg.Body,
		Date:    msg.CreatedAt.Format(time.DateTime),
	}

	if s.adminEmail != "" {
		if html, err := render(adminTemplate, data); err == nil {
			if sendErr := s.notifier.Send(ctx, s.adminEmail, "New Contact Form Submission - "+msg.Subject, html); sendErr != nil {
				errutil.LogError(s.logger, "admin contact notification failed", sendErr)
			}
		}
	}

	if html, err := render(confirmTemplate, data); err == nil {
		if sendErr := s.notifier.Send(ctx, msg.Email, "We received your message - Nursedemic", html); sendErr != nil {
			errutil.LogError(s.logger, "contact confirmation failed", sendErr)
		}
	}
}

func render(t *template.Template, data mailData) (string, error) {
	var sb strings.Builder
	if err := t.Execute(&sb, data); err != nil {
		return "", oops.Code("CONTACT_TEMPLATE_FAILED").Wrap(err)
	}
	return sb.String(), nil
}
