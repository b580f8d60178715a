// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"time"
)

// Sender hands a message to a mail relay.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPConfig holds the relay and account settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Timeout  time.Duration
}

// SMTPSender delivers messages over SMTP with STARTTLS and PLAIN auth.
type SMTPSender struct {
	cfg       SMTPConfig
	tlsConfig *tls.Config
}

// NewSMTPSender creates an SMTPSender.
func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &SMTPSender{
		cfg: cfg,
		tlsConfig: &tls.Config{
			ServerName: cfg.Host,
			MinVersion: tls.VersionTLS12,
		},
	}
}

// Send delivers msg. Every failure is returned as a *DeliveryError.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if s.cfg.Username == "" {
		return deliveryError(StageConfig, ErrNotConfigured)
	}

	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	dialer := &net.Dialer{Timeout: s.cfg.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return deliveryError(StageDial, err)
	}

	deadline := time.Now().Add(s.cfg.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetDeadline(deadline)

	c, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		_ = conn.Close()
		return deliveryError(StageDial, err)
	}
	defer func() { _ = c.Close() }()

	if ok, _ := c.Extension("STARTTLS"); !ok {
		return deliveryError(StageTLS, fmt.Errorf("server %s does not offer STARTTLS", addr))
	}
	if err := c.StartTLS(s.tlsConfig); err != nil {
		return deliveryError(StageTLS, err)
	}

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	if err := c.Auth(auth); err != nil {
		return deliveryError(StageAuth, err)
	}

	if err := c.Mail(msg.From); err != nil {
		return deliveryError(StageSend, err)
	}
	if err := c.Rcpt(msg.To); err != nil {
		return deliveryError(StageSend, err)
	}
	w, err := c.Data()
	if err != nil {
		return deliveryError(StageSend, err)
	}
	if _, err := w.Write(msg.Bytes(time.Now())); err != nil {
		_ = w.Close()
		return deliveryError(StageSend, err)
	}
	if err := w.Close(); err != nil {
		return deliveryError(StageSend, err)
	}

	_ = c.Quit()
	return nil
}
