// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package mail

import (
	"context"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/olegiv/inkblog/internal/model"
	"github.com/olegiv/inkblog/internal/util"
)

// Notifier forwards contact-form submissions to the site owner.
type Notifier struct {
	from   string
	to     string
	sender Sender
	outbox *Outbox
	logger *slog.Logger
}

// NewNotifier creates a Notifier sending from the mail account to the
// fixed recipient. When outbox is non-nil messages are queued instead of
// being sent during the request.
func NewNotifier(from, to string, sender Sender, outbox *Outbox, logger *slog.Logger) *Notifier {
	return &Notifier{
		from:   from,
		to:     to,
		sender: sender,
		outbox: outbox,
		logger: logger,
	}
}

// Configured reports whether a mail account and recipient are set.
func (n *Notifier) Configured() bool {
	return n.from != "" && n.to != ""
}

// Queued reports whether messages go through the outbox.
func (n *Notifier) Queued() bool {
	return n.outbox != nil
}

// Send validates c and delivers it. userAgent describes the submitting
// client and is recorded with queued messages.
func (n *Notifier) Send(ctx context.Context, c ContactMessage, userAgent string) error {
	c = normalizeContact(c)
	if err := validateContact(c); err != nil {
		return err
	}

	if !n.Configured() {
		return deliveryError(StageConfig, ErrNotConfigured)
	}

	msg := Compose(n.from, n.to, c)
	client := SummarizeClient(userAgent)

	if n.outbox != nil {
		_, err := n.outbox.Enqueue(ctx, msg, client)
		return err
	}

	if err := n.sender.Send(ctx, msg); err != nil {
		n.logger.Warn("contact message not sent", "error", err, "message_id", msg.ID, "client", client)
		return err
	}

	n.logger.Info("contact message sent", "message_id", msg.ID, "client", client)
	return nil
}

func normalizeContact(c ContactMessage) ContactMessage {
	return ContactMessage{
		Name:    util.NormalizeText(c.Name),
		Email:   util.NormalizeEmail(c.Email),
		Phone:   strings.TrimSpace(c.Phone),
		Message: strings.TrimSpace(c.Message),
	}
}

func validateContact(c ContactMessage) error {
	verr := model.NewValidationError()

	if c.Name == "" {
		verr.Add("name", "Name is required")
	}
	if c.Email == "" {
		verr.Add("email", "Email is required")
	} else if addr, err := mail.ParseAddress(c.Email); err != nil || addr.Address != c.Email {
		verr.Add("email", "Invalid email format")
	}
	if c.Message == "" {
		verr.Add("message", "Message is required")
	}

	return verr.OrNil()
}
