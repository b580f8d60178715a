// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package mail delivers contact-form messages to the site owner, either
// directly over SMTP or through a persistent outbox drained in the
// background.
package mail

import (
	"bytes"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mileusna/useragent"
)

// ContactSubject is the subject of every contact message.
const ContactSubject = "User Message!"

// ContactMessage is what a visitor submits through the contact form.
type ContactMessage struct {
	Name    string
	Email   string
	Phone   string
	Message string
}

// Body renders the plain-text body sent to the owner.
func (c ContactMessage) Body() string {
	var b strings.Builder
	b.WriteString("Name :- " + c.Name + "\n")
	b.WriteString("Email :- " + c.Email + "\n")
	b.WriteString("Phone Number :- " + c.Phone + "\n")
	b.WriteString("Message :- " + c.Message + "\n")
	return b.String()
}

// Message is a composed email ready for delivery.
type Message struct {
	ID      string
	From    string
	To      string
	ReplyTo string
	Subject string
	Body    string
}

// Compose builds the message delivering c from the mail account to the
// fixed recipient.
func Compose(from, to string, c ContactMessage) Message {
	msg := Message{
		ID:      newMessageID(from),
		From:    from,
		To:      to,
		Subject: ContactSubject,
		Body:    c.Body(),
	}
	if addr, err := mail.ParseAddress(c.Email); err == nil && !strings.ContainsAny(c.Email, "\r\n") {
		msg.ReplyTo = addr.Address
	}
	return msg
}

// Bytes renders the message in RFC 5322 form with CRLF line endings.
func (m Message) Bytes(date time.Time) []byte {
	var buf bytes.Buffer
	header := func(k, v string) {
		fmt.Fprintf(&buf, "%s: %s\r\n", k, stripCRLF(v))
	}

	header("From", m.From)
	header("To", m.To)
	if m.ReplyTo != "" {
		header("Reply-To", m.ReplyTo)
	}
	header("Subject", m.Subject)
	header("Date", date.Format(time.RFC1123Z))
	header("Message-ID", m.ID)
	header("MIME-Version", "1.0")
	header("Content-Type", "text/plain; charset=UTF-8")
	header("Content-Transfer-Encoding", "8bit")
	buf.WriteString("\r\n")

	body := strings.ReplaceAll(m.Body, "\r\n", "\n")
	buf.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	return buf.Bytes()
}

// SummarizeClient reduces a User-Agent header to a short description such
// as "Firefox 121.0 on Linux (desktop)".
func SummarizeClient(uaString string) string {
	if strings.TrimSpace(uaString) == "" {
		return ""
	}

	ua := useragent.Parse(uaString)

	name := ua.Name
	if name == "" {
		name = "Unknown"
	}
	if ua.Version != "" {
		name += " " + ua.Version
	}
	os := ua.OS
	if os == "" {
		os = "Unknown"
	}

	device := "desktop"
	switch {
	case ua.Mobile:
		device = "mobile"
	case ua.Tablet:
		device = "tablet"
	case ua.Bot:
		device = "bot"
	}

	return fmt.Sprintf("%s on %s (%s)", name, os, device)
}

func newMessageID(from string) string {
	domain := "localhost"
	if _, d, ok := strings.Cut(from, "@"); ok && d != "" {
		domain = d
	}
	return "<" + uuid.NewString() + "@" + domain + ">"
}

func stripCRLF(s string) string {
	return strings.NewReplacer("\r", "", "\n", "").Replace(s)
}
