// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/olegiv/inkblog/internal/config"
	"github.com/olegiv/inkblog/internal/logging"
	"github.com/olegiv/inkblog/internal/store"
	"github.com/olegiv/inkblog/internal/version"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")
	migrateOnly := flag.Bool("migrate-only", false, "Apply database migrations and exit")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "inkblog - a small multi-user blog\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BLOG_SESSION_SECRET           Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BLOG_DATABASE_URL             sqlite://, sqlite3:// or mysql:// (default: sqlite://./data/blog.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BLOG_SERVER_HOST              Listen host (default: 127.0.0.1)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BLOG_SERVER_PORT              Listen port (default: 5002)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BLOG_ENV                      development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BLOG_MAIL_USER                SMTP account used as the From address\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BLOG_MAIL_PASSWORD            SMTP password\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BLOG_CONTACT_RECIPIENT        Where contact messages are delivered\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BLOG_MAIL_QUEUE               Queue contact mail in the outbox (default: false)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BLOG_COMMENTS_ON_POST_DELETE  retain|cascade|reject (default: retain)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	info := version.Info{Version: appVersion, GitCommit: appGitCommit, BuildTime: appBuildTime}
	if *showVersion {
		_, _ = fmt.Println(info.String())
		os.Exit(0)
	}

	if err := run(info, *migrateOnly); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(info version.Info, migrateOnly bool) error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})
	slog.SetDefault(slog.New(textHandler))

	src, err := cfg.Database()
	if err != nil {
		return fmt.Errorf("parsing database url: %w", err)
	}

	dataDir := ""
	if dbPath := src.SQLitePath(); dbPath != "" {
		dataDir = filepath.Dir(dbPath)
		if err := os.MkdirAll(dataDir, 0750); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}
	}

	slog.Info("initializing database", "driver", src.Driver, "dialect", src.Dialect)
	db, err := store.Open(src)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db, src.Dialect); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	if migrateOnly {
		slog.Info("migrations applied, exiting")
		return nil
	}

	// From here on WARN and ERROR records are also kept in the events table.
	logger := slog.New(logging.NewEventLogHandler(textHandler, db))
	slog.SetDefault(logger)

	app, err := newApplication(appConfig{
		Config:  cfg,
		DB:      db,
		Dialect: src.Dialect,
		DataDir: dataDir,
		Version: info.Short(),
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	if app.outbox != nil {
		if err := app.outbox.Start(); err != nil {
			return fmt.Errorf("starting mail outbox: %w", err)
		}
		defer app.outbox.Stop()
	}

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           app.routes(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", info.Short())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	}

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
