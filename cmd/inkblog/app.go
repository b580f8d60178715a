// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/inkblog/internal/config"
	"github.com/olegiv/inkblog/internal/handler"
	"github.com/olegiv/inkblog/internal/mail"
	"github.com/olegiv/inkblog/internal/render"
	"github.com/olegiv/inkblog/internal/service"
	"github.com/olegiv/inkblog/internal/session"
	"github.com/olegiv/inkblog/internal/store"
	"github.com/olegiv/inkblog/web"
)

// appConfig carries what newApplication needs from start-up.
type appConfig struct {
	Config  *config.Config
	DB      *sql.DB
	Dialect store.Dialect
	DataDir string
	Version string
	Logger  *slog.Logger

	// Sender overrides the SMTP sender, used by tests.
	Sender mail.Sender
}

// application holds the wired dependencies of a running blog.
type application struct {
	cfg      *config.Config
	sessions *scs.SessionManager
	renderer *render.Renderer
	accounts *service.AccountService
	events   *service.EventService
	outbox   *mail.Outbox

	auth   *handler.AuthHandler
	posts  *handler.PostsHandler
	pages  *handler.PagesHandler
	health *handler.HealthHandler
}

func newApplication(ac appConfig) (*application, error) {
	cfg := ac.Config
	logger := ac.Logger

	sessionManager := session.New(ac.DB, ac.Dialect, cfg.IsDevelopment())

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return nil, fmt.Errorf("getting templates fs: %w", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sessionManager,
		IsDev:          cfg.IsDevelopment(),
	})
	if err != nil {
		return nil, fmt.Errorf("initializing renderer: %w", err)
	}

	events := service.NewEventService(ac.DB)
	accounts := service.NewAccountService(ac.DB, events, logger)
	posts := service.NewPostService(ac.DB, cfg.CommentPolicy(), events, logger)
	comments := service.NewCommentService(ac.DB, logger)

	sender := ac.Sender
	if sender == nil {
		sender = mail.NewSMTPSender(mail.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.MailUser,
			Password: cfg.MailPassword,
			Timeout:  cfg.SMTPTimeout,
		})
	}

	var outbox *mail.Outbox
	if cfg.MailQueue {
		outbox = mail.NewOutbox(ac.DB, sender, cfg.OutboxSchedule, logger)
	}
	notifier := mail.NewNotifier(cfg.MailUser, cfg.ContactRecipient, sender, outbox, logger)
	if !notifier.Configured() {
		logger.Warn("mail is not configured, the contact form will report failures")
	}

	contentFS, err := fs.Sub(web.Content, "content")
	if err != nil {
		return nil, fmt.Errorf("getting content fs: %w", err)
	}
	pagesHandler, err := handler.NewPagesHandler(renderer, notifier, contentFS)
	if err != nil {
		return nil, fmt.Errorf("initializing pages: %w", err)
	}

	return &application{
		cfg:      cfg,
		sessions: sessionManager,
		renderer: renderer,
		accounts: accounts,
		events:   events,
		outbox:   outbox,
		auth:     handler.NewAuthHandler(accounts, renderer, sessionManager),
		posts:    handler.NewPostsHandler(posts, comments, renderer),
		pages:    pagesHandler,
		health:   handler.NewHealthHandler(ac.DB, ac.DataDir, outbox, events, ac.Version),
	}, nil
}
