// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads the blog's settings from BLOG_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/robfig/cron/v3"

	"github.com/olegiv/inkblog/internal/model"
	"github.com/olegiv/inkblog/internal/store"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Environments.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DatabaseURL   string `env:"BLOG_DATABASE_URL" envDefault:"sqlite://./data/blog.db"`
	SessionSecret string `env:"BLOG_SESSION_SECRET,required"`
	ServerHost    string `env:"BLOG_SERVER_HOST" envDefault:"127.0.0.1"`
	ServerPort    int    `env:"BLOG_SERVER_PORT" envDefault:"5002"`
	Env           string `env:"BLOG_ENV" envDefault:"development"`
	LogLevel      string `env:"BLOG_LOG_LEVEL" envDefault:"info"`

	// Mail account used as sender and SMTP login
	MailUser         string        `env:"BLOG_MAIL_USER"`
	MailPassword     string        `env:"BLOG_MAIL_PASSWORD"`
	SMTPHost         string        `env:"BLOG_SMTP_HOST" envDefault:"smtp.gmail.com"`
	SMTPPort         int           `env:"BLOG_SMTP_PORT" envDefault:"587"`
	SMTPTimeout      time.Duration `env:"BLOG_SMTP_TIMEOUT" envDefault:"10s"`
	ContactRecipient string        `env:"BLOG_CONTACT_RECIPIENT"`

	// Queued delivery through the mail outbox
	MailQueue      bool   `env:"BLOG_MAIL_QUEUE" envDefault:"false"`
	OutboxSchedule string `env:"BLOG_OUTBOX_SCHEDULE" envDefault:"@every 30s"`

	// What happens to comments when their post is deleted: retain, cascade or reject
	CommentsOnPostDelete string `env:"BLOG_COMMENTS_ON_POST_DELETE" envDefault:"retain"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// MailConfigured returns true if a mail account is set.
func (c Config) MailConfigured() bool {
	return c.MailUser != "" && c.MailPassword != ""
}

// CommentPolicy returns the configured comment policy.
func (c Config) CommentPolicy() model.CommentPolicy {
	return model.CommentPolicy(c.CommentsOnPostDelete)
}

// Database parses DatabaseURL.
func (c Config) Database() (store.Source, error) {
	return store.ParseDatabaseURL(c.DatabaseURL)
}

// SlogLevel maps LogLevel to a slog.Level. Unknown values mean info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// MinSessionSecretLength is the minimum required length for the session secret.
// The secret doubles as the 32-byte CSRF key.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a validated Config.
func Load() (*Config, error) {
	return load(env.Options{})
}

// LoadFrom is Load reading from environ instead of the process environment.
func LoadFrom(environ map[string]string) (*Config, error) {
	return load(env.Options{Environment: environ})
}

func load(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if err := validateSessionSecret(c.SessionSecret); err != nil {
		return err
	}

	if c.Env != EnvDevelopment && c.Env != EnvProduction {
		return fmt.Errorf("BLOG_ENV must be %q or %q, got %q", EnvDevelopment, EnvProduction, c.Env)
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("BLOG_LOG_LEVEL must be debug, info, warn or error, got %q", c.LogLevel)
	}

	if c.ServerPort < 1 || c.ServerPort > 65535 {
		return fmt.Errorf("BLOG_SERVER_PORT out of range: %d", c.ServerPort)
	}

	if _, err := c.Database(); err != nil {
		return fmt.Errorf("BLOG_DATABASE_URL: %w", err)
	}

	if !c.CommentPolicy().Valid() {
		return fmt.Errorf("BLOG_COMMENTS_ON_POST_DELETE must be retain, cascade or reject, got %q", c.CommentsOnPostDelete)
	}

	if c.MailConfigured() && c.ContactRecipient == "" {
		return errors.New("BLOG_CONTACT_RECIPIENT is required when a mail account is configured")
	}

	if c.SMTPTimeout <= 0 {
		return fmt.Errorf("BLOG_SMTP_TIMEOUT must be positive, got %s", c.SMTPTimeout)
	}

	if c.MailQueue {
		if _, err := cron.ParseStandard(c.OutboxSchedule); err != nil {
			return fmt.Errorf("BLOG_OUTBOX_SCHEDULE: %w", err)
		}
	}

	return nil
}

func validateSessionSecret(secret string) error {
	if len(secret) < MinSessionSecretLength {
		return fmt.Errorf("BLOG_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(secret))
	}

	for _, weak := range knownWeakSecrets {
		if secret == weak {
			return errors.New("BLOG_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	if !hasMinimumEntropy(secret) {
		slog.Warn("BLOG_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	return nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
