// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package mail

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/time/rate"

	"github.com/olegiv/inkblog/internal/store"
	"github.com/olegiv/inkblog/internal/util"
)

// Outbox delivery settings
const (
	MaxAttempts     = 5               // Attempts before a message is dead
	InitialBackoff  = 1 * time.Minute // Delay after the first failure
	MaxBackoff      = 24 * time.Hour  // Upper bound for the retry delay
	DefaultSchedule = "@every 30s"    // How often the outbox is drained
	batchSize       = 20              // Messages fetched per run
	runTimeout      = 2 * time.Minute // Upper bound for one drain
)

// Outbox message statuses.
const (
	StatusPending = "pending"
	StatusSent    = "sent"
	StatusDead    = "dead"
)

// OutboxStats counts messages that still need attention.
type OutboxStats struct {
	Pending int64 `json:"pending"`
	Dead    int64 `json:"dead"`
}

// Outbox persists messages and delivers them in the background with
// at-least-once semantics.
type Outbox struct {
	queries  *store.Queries
	sender   Sender
	limiter  *rate.Limiter
	cron     *cron.Cron
	schedule string
	logger   *slog.Logger
	now      func() time.Time
}

// NewOutbox creates an Outbox that drains on schedule (a cron spec).
// Sends are throttled to one per second with a burst of three.
func NewOutbox(db *sql.DB, sender Sender, schedule string, logger *slog.Logger) *Outbox {
	if schedule == "" {
		schedule = DefaultSchedule
	}
	return &Outbox{
		queries:  store.New(db),
		sender:   sender,
		limiter:  rate.NewLimiter(rate.Every(time.Second), 3),
		cron:     cron.New(),
		schedule: schedule,
		logger:   logger,
		now:      time.Now,
	}
}

// Enqueue stores msg as pending and returns its row id. client is a short
// description of the submitting browser.
func (o *Outbox) Enqueue(ctx context.Context, msg Message, client string) (int64, error) {
	now := o.now().UTC()
	id, err := o.queries.EnqueueMail(ctx, store.EnqueueMailParams{
		MessageID:     msg.ID,
		Recipient:     msg.To,
		Subject:       msg.Subject,
		Sender:        msg.From,
		ReplyTo:       msg.ReplyTo,
		Body:          msg.Body,
		Client:        client,
		NextAttemptAt: now,
		CreatedAt:     now,
	})
	if err != nil {
		return 0, deliveryError(StageEnqueue, err)
	}

	o.logger.Info("contact message queued", "outbox_id", id, "message_id", msg.ID)
	return id, nil
}

// Start schedules the drain job.
func (o *Outbox) Start() error {
	_, err := o.cron.AddFunc(o.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()
		if _, err := o.ProcessDue(ctx); err != nil {
			o.logger.Error("failed to process mail outbox", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("scheduling outbox %q: %w", o.schedule, err)
	}

	o.cron.Start()
	o.logger.Info("mail outbox started", "schedule", o.schedule)
	return nil
}

// Stop waits for a running drain to finish and stops the schedule.
func (o *Outbox) Stop() {
	ctx := o.cron.Stop()
	<-ctx.Done()
	o.logger.Info("mail outbox stopped")
}

// ProcessDue delivers pending messages whose next attempt is due and
// returns how many were sent.
func (o *Outbox) ProcessDue(ctx context.Context) (int, error) {
	due, err := o.queries.ListDueMail(ctx, store.ListDueMailParams{
		NextAttemptAt: o.now().UTC(),
		Limit:         batchSize,
	})
	if err != nil {
		return 0, fmt.Errorf("listing due mail: %w", err)
	}

	sent := 0
	for _, row := range due {
		if err := o.limiter.Wait(ctx); err != nil {
			return sent, err
		}
		if o.deliver(ctx, row) {
			sent++
		}
	}
	return sent, nil
}

func (o *Outbox) deliver(ctx context.Context, row store.MailOutbox) bool {
	msg := Message{
		ID:      row.MessageID,
		From:    row.Sender,
		To:      row.Recipient,
		ReplyTo: row.ReplyTo,
		Subject: row.Subject,
		Body:    row.Body,
	}

	sendErr := o.sender.Send(ctx, msg)
	now := o.now().UTC()

	if sendErr == nil {
		err := o.queries.MarkMailSent(ctx, store.MarkMailSentParams{
			SentAt: sql.NullTime{Time: now, Valid: true},
			ID:     row.ID,
		})
		if err != nil {
			o.logger.Error("failed to mark mail sent", "error", err, "outbox_id", row.ID)
		} else {
			o.logger.Info("contact message delivered", "outbox_id", row.ID, "attempt", row.Attempts+1)
		}
		return true
	}

	attempts := row.Attempts + 1
	lastErr := util.NullStringFromValue(sendErr.Error())

	if attempts >= MaxAttempts {
		if err := o.queries.MarkMailDead(ctx, store.MarkMailDeadParams{LastError: lastErr, ID: row.ID}); err != nil {
			o.logger.Error("failed to mark mail dead", "error", err, "outbox_id", row.ID)
		} else {
			o.logger.Warn("contact message marked as dead",
				"outbox_id", row.ID,
				"attempts", attempts,
				"reason", sendErr.Error())
		}
		return false
	}

	backoff := calculateBackoff(attempts)
	next := now.Add(backoff)
	if err := o.queries.MarkMailRetry(ctx, store.MarkMailRetryParams{
		LastError:     lastErr,
		NextAttemptAt: next,
		ID:            row.ID,
	}); err != nil {
		o.logger.Error("failed to schedule mail retry", "error", err, "outbox_id", row.ID)
	} else {
		o.logger.Info("contact message scheduled for retry",
			"outbox_id", row.ID,
			"attempt", attempts,
			"next_attempt_at", next.Format(time.RFC3339),
			"backoff", backoff.String())
	}
	return false
}

// Stats counts pending and dead messages.
func (o *Outbox) Stats(ctx context.Context) (OutboxStats, error) {
	pending, err := o.queries.CountMailByStatus(ctx, StatusPending)
	if err != nil {
		return OutboxStats{}, fmt.Errorf("counting pending mail: %w", err)
	}
	dead, err := o.queries.CountMailByStatus(ctx, StatusDead)
	if err != nil {
		return OutboxStats{}, fmt.Errorf("counting dead mail: %w", err)
	}
	return OutboxStats{Pending: pending, Dead: dead}, nil
}

// calculateBackoff returns InitialBackoff * 2^(attempt-1), capped at MaxBackoff.
func calculateBackoff(attempt int64) time.Duration {
	if attempt <= 0 {
		attempt = 1
	}

	backoff := time.Duration(float64(InitialBackoff) * math.Pow(2, float64(attempt-1)))
	if backoff > MaxBackoff {
		backoff = MaxBackoff
	}
	return backoff
}
