// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Nursedemic Contributors

// Package mail delivers notification emails. Delivery is best effort: the
// contact flow never fails because a message could not be sent.
package mail

import (
	"context"

	"github.com/samber/oops"
	gomail "github.com/wneessen/go-mail"
)

// Notifier sends a single HTML email.
type Notifier interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// SMTPNotifier implements Notifier over SMTP.
type SMTPNotifier struct {
	client *gomail.Client
	from   string
}

// SMTPConfig carries connection settings for the notifier.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// NewSMTPNotifier creates an SMTPNotifier. Credentials are optional for
// relays that accept unauthenticated submission.
func NewSMTPNotifier(cfg SMTPConfig) (*SMTPNotifier, error) {
	if cfg.Host == "" {
		return nil, oops.Code("MAIL_CONFIG_INVALID").Errorf("smtp host is required")
	}
	if cfg.From == "" {
		return nil, oops.Code("MAIL_CONFIG_INVALID").Errorf("from address is required")
	}

	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, oops.Code("MAIL_CLIENT_FAILED").
			With("host", cfg.Host).
			Wrap(err)
	}

	return &SMTPNotifier{client: client, from: cfg.From}, nil
}

// Send delivers one HTML email.
func (n *SMTPNotifier) Send(ctx context.Context, to, subject, htmlBody string) error {
	msg := gomail.NewMsg()
	if err := msg.From(n.from); err != nil {
		return oops.Code("MAIL_SEND_FAILED").With("operation", "set from").Wrap(err)
	}
	if err := msg.To(to); err != nil {
		return oops.Code("MAIL_SEND_FAILED").With("operation", "set recipient").Wrap(err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlBody)

	if err := n.client.DialAndSendWithContext(ctx, msg); err != nil {
		return oops.Code("MAIL_SEND_FAILED").
			With("operation", "dial and send").
			Wrap(err)
	}
	return nil
}

// NopNotifier discards every message. Used when mail delivery is disabled.
type NopNotifier struct{}

// Send discards the message.
func (NopNotifier) Send(_ context.Context, _, _, _ string) error {
	return nil
}
