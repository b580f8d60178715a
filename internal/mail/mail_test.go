// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package mail

import (
	"bufio"
	"context"
	"errors"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/olegiv/inkblog/internal/model"
	"github.com/olegiv/inkblog/internal/testutil"
)

// fakeSender records messages and fails while err is set.
type fakeSender struct {
	mu   sync.Mutex
	sent []Message
	err  error
}

func (f *fakeSender) Send(_ context.Context, msg Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func validContact() ContactMessage {
	return ContactMessage{
		Name:    "Ann",
		Email:   "ann@x.com",
		Phone:   "555-0100",
		Message: "Hello there",
	}
}

func TestContactMessageBody(t *testing.T) {
	body := validContact().Body()
	want := "Name :- Ann\nEmail :- ann@x.com\nPhone Number :- 555-0100\nMessage :- Hello there\n"
	if body != want {
		t.Errorf("Body() = %q, want %q", body, want)
	}
}

func TestCompose(t *testing.T) {
	msg := Compose("blog@example.com", "owner@example.com", validContact())

	if msg.Subject != ContactSubject {
		t.Errorf("Subject = %q, want %q", msg.Subject, ContactSubject)
	}
	if msg.From != "blog@example.com" || msg.To != "owner@example.com" {
		t.Errorf("From/To = %q/%q", msg.From, msg.To)
	}
	if msg.ReplyTo != "ann@x.com" {
		t.Errorf("ReplyTo = %q, want ann@x.com", msg.ReplyTo)
	}
	if !strings.HasPrefix(msg.ID, "<") || !strings.HasSuffix(msg.ID, "@example.com>") {
		t.Errorf("ID = %q, want <uuid@example.com>", msg.ID)
	}

	other := Compose("blog@example.com", "owner@example.com", validContact())
	if other.ID == msg.ID {
		t.Error("message ids should be unique")
	}
}

func TestCompose_SkipsUnsafeReplyTo(t *testing.T) {
	c := validContact()
	c.Email = "ann@x.com\r\nBcc: victim@example.com"

	msg := Compose("blog@example.com", "owner@example.com", c)
	if msg.ReplyTo != "" {
		t.Errorf("ReplyTo = %q, want empty", msg.ReplyTo)
	}
}

func TestMessageBytes(t *testing.T) {
	msg := Message{
		ID:      "<id@example.com>",
		From:    "blog@example.com",
		To:      "owner@example.com",
		Subject: "User Message!\r\nBcc: x@example.com",
		Body:    "line one\nline two\n",
	}
	raw := string(msg.Bytes(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)))

	for _, want := range []string{
		"From: blog@example.com\r\n",
		"To: owner@example.com\r\n",
		"Subject: User Message!Bcc: x@example.com\r\n",
		"Message-ID: <id@example.com>\r\n",
		"Content-Type: text/plain; charset=UTF-8\r\n",
		"\r\n\r\nline one\r\nline two\r\n",
	} {
		if !strings.Contains(raw, want) {
			t.Errorf("message missing %q:\n%s", want, raw)
		}
	}
	if strings.Contains(raw, "\r\nBcc:") {
		t.Error("header injection was not stripped")
	}
}

func TestSummarizeClient(t *testing.T) {
	tests := []struct {
		name string
		ua   string
		want string
	}{
		{"empty", "", ""},
		{
			"firefox linux",
			"Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0",
			"Firefox 121.0 on Linux (desktop)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SummarizeClient(tt.ua); got != tt.want {
				t.Errorf("SummarizeClient() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNotifier_Direct(t *testing.T) {
	sender := &fakeSender{}
	n := NewNotifier("blog@example.com", "owner@example.com", sender, nil, testutil.TestLoggerSilent())

	if err := n.Send(context.Background(), validContact(), ""); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(sender.sent))
	}
	if !strings.Contains(sender.sent[0].Body, "Message :- Hello there") {
		t.Errorf("body = %q", sender.sent[0].Body)
	}
}

func TestNotifier_DirectFailure(t *testing.T) {
	sender := &fakeSender{err: &DeliveryError{Stage: StageAuth, Err: errors.New("535 bad credentials")}}
	n := NewNotifier("blog@example.com", "owner@example.com", sender, nil, testutil.TestLoggerSilent())

	err := n.Send(context.Background(), validContact(), "")
	var derr *DeliveryError
	if !errors.As(err, &derr) {
		t.Fatalf("expected DeliveryError, got %v", err)
	}
	if derr.Stage != StageAuth {
		t.Errorf("Stage = %q, want %q", derr.Stage, StageAuth)
	}
}

func TestNotifier_NotConfigured(t *testing.T) {
	n := NewNotifier("", "", &fakeSender{}, nil, testutil.TestLoggerSilent())

	err := n.Send(context.Background(), validContact(), "")
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("err = %v, want ErrNotConfigured", err)
	}
	var derr *DeliveryError
	if !errors.As(err, &derr) || derr.Stage != StageConfig {
		t.Errorf("err = %v, want DeliveryError at config stage", err)
	}
}

func TestNotifier_Validation(t *testing.T) {
	n := NewNotifier("blog@example.com", "owner@example.com", &fakeSender{}, nil, testutil.TestLoggerSilent())

	tests := []struct {
		name      string
		mutate    func(*ContactMessage)
		wantField string
	}{
		{"missing name", func(c *ContactMessage) { c.Name = "" }, "name"},
		{"missing email", func(c *ContactMessage) { c.Email = "" }, "email"},
		{"bad email", func(c *ContactMessage) { c.Email = "nope" }, "email"},
		{"missing message", func(c *ContactMessage) { c.Message = "  " }, "message"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validContact()
			tt.mutate(&c)

			err := n.Send(context.Background(), c, "")
			var verr *model.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if _, ok := verr.Fields[tt.wantField]; !ok {
				t.Errorf("missing field error %q in %v", tt.wantField, verr.Fields)
			}
		})
	}
}

func TestSMTPSender_DialFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	_ = ln.Close()

	s := NewSMTPSender(SMTPConfig{Host: "127.0.0.1", Port: port, Username: "blog", Password: "pw", Timeout: time.Second})
	err = s.Send(context.Background(), Compose("blog@example.com", "owner@example.com", validContact()))

	var derr *DeliveryError
	if !errors.As(err, &derr) {
		t.Fatalf("expected DeliveryError, got %v", err)
	}
	if derr.Stage != StageDial {
		t.Errorf("Stage = %q, want %q", derr.Stage, StageDial)
	}
}

func TestSMTPSender_RequiresSTARTTLS(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer func() { _ = ln.Close() }()

	// Minimal relay that never advertises STARTTLS.
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer func() { _ = conn.Close() }()

		r := bufio.NewReader(conn)
		_, _ = conn.Write([]byte("220 localhost ESMTP\r\n"))
		for {
			line, err := r.ReadString('\n')
			if err != nil {
				return
			}
			switch {
			case strings.HasPrefix(line, "EHLO"):
				_, _ = conn.Write([]byte("250-localhost\r\n250 AUTH PLAIN\r\n"))
			case strings.HasPrefix(line, "QUIT"):
				_, _ = conn.Write([]byte("221 bye\r\n"))
				return
			default:
				_, _ = conn.Write([]byte("502 not implemented\r\n"))
			}
		}
	}()

	port := ln.Addr().(*net.TCPAddr).Port
	s := NewSMTPSender(SMTPConfig{Host: "127.0.0.1", Port: port, Username: "blog", Password: "pw", Timeout: 2 * time.Second})
	err = s.Send(context.Background(), Compose("blog@example.com", "owner@example.com", validContact()))

	var derr *DeliveryError
	if !errors.As(err, &derr) {
		t.Fatalf("expected DeliveryError, got %v", err)
	}
	if derr.Stage != StageTLS {
		t.Errorf("Stage = %q, want %q", derr.Stage, StageTLS)
	}
}

func TestSMTPSender_NoAccount(t *testing.T) {
	s := NewSMTPSender(SMTPConfig{Host: "127.0.0.1", Port: 25})
	err := s.Send(context.Background(), Message{})
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("err = %v, want ErrNotConfigured", err)
	}
}
