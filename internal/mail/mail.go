// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package mail delivers the rendered digest over SMTP.
package mail

import (
	"context"
	"fmt"
	"log/slog"

	gomail "github.com/wneessen/go-mail"

	"github.com/pdiddy/paper-digest/pkg/types"
)

// Sender delivers one HTML message to the configured recipients. Failures
// wrap types.ErrDelivery.
type Sender interface {
	Send(ctx context.Context, subject, html string) error
}

// New returns an SMTP sender, or a no-op sender when cfg lacks a sender
// address or recipients.
func New(cfg types.MailConfig, logger *slog.Logger) Sender {
	if logger == nil {
		logger = slog.Default()
	}
	if !cfg.Enabled() {
		return Noop{Logger: logger}
	}
	return &SMTP{cfg: cfg, dial: dialSMTP, logger: logger}
}

// Noop logs and discards messages.
type Noop struct {
	Logger *slog.Logger
}

// Send reports success without sending.
func (n Noop) Send(_ context.Context, subject, _ string) error {
	n.Logger.Warn("email not sent: configure mail.sender and mail.recipients", "subject", subject)
	return nil
}

// client is the part of *gomail.Client the sender uses.
type client interface {
	DialAndSendWithContext(ctx context.Context, messages ...*gomail.Msg) error
}

type dialFunc func(cfg types.MailConfig) (client, error)

// SMTP sends through a STARTTLS submission server with PLAIN auth, logging
// in as the sender address.
type SMTP struct {
	cfg    types.MailConfig
	dial   dialFunc
	logger *slog.Logger
}

func dialSMTP(cfg types.MailConfig) (client, error) {
	return gomail.NewClient(cfg.Host,
		gomail.WithPort(cfg.Port),
		gomail.WithTLSPortPolicy(gomail.TLSMandatory),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(cfg.Sender),
		gomail.WithPassword(cfg.Password),
	)
}

// Send builds and delivers the message.
func (s *SMTP) Send(ctx context.Context, subject, html string) error {
	msg, err := buildMessage(s.cfg, subject, html)
	if err != nil {
		return err
	}

	c, err := s.dial(s.cfg)
	if err != nil {
		return fmt.Errorf("%w: creating SMTP client for %s: %w", types.ErrDelivery, s.cfg.Host, err)
	}
	if err := c.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("%w: sending via %s:%d: %w", types.ErrDelivery, s.cfg.Host, s.cfg.Port, err)
	}

	s.logger.Info("email sent", "subject", subject, "recipients", len(s.cfg.Recipients))
	return nil
}

func buildMessage(cfg types.MailConfig, subject, html string) (*gomail.Msg, error) {
	msg := gomail.NewMsg()
	if err := msg.From(cfg.Sender); err != nil {
		return nil, fmt.Errorf("%w: sender %q: %w", types.ErrDelivery, cfg.Sender, err)
	}
	if err := msg.To(cfg.Recipients...); err != nil {
		return nil, fmt.Errorf("%w: recipients: %w", types.ErrDelivery, err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, html)
	return msg, nil
}
