// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for identity loading,
// owner authorization, CSRF protection and security headers.
package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/inkblog/internal/auth"
	"github.com/olegiv/inkblog/internal/model"
	"github.com/olegiv/inkblog/internal/service"
	"github.com/olegiv/inkblog/internal/session"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// ContextKeyIdentity holds the request's model.Identity.
const ContextKeyIdentity ContextKey = "identity"

// UserLoader looks up accounts by id.
type UserLoader interface {
	GetUser(ctx context.Context, id int64) (model.User, error)
}

// LoadIdentity resolves the session's user id into a model.Identity and
// stores it in the request context. Requests without a valid session run
// as the anonymous identity.
func LoadIdentity(sm *scs.SessionManager, users UserLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := session.UserID(r.Context(), sm)
			if userID == 0 {
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.GetUser(r.Context(), userID)
			if err != nil {
				if errors.Is(err, model.ErrNotFound) {
					// The account behind the session no longer exists.
					_ = sm.Destroy(r.Context())
				} else {
					slog.Error("failed to load session user", "user_id", userID, "error", err)
				}
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), user.Identity())))
		})
	}
}

// WithIdentity returns a copy of ctx carrying identity.
func WithIdentity(ctx context.Context, identity model.Identity) context.Context {
	return context.WithValue(ctx, ContextKeyIdentity, identity)
}

// GetIdentity returns the identity of the current request, or the
// anonymous identity when nobody is logged in.
func GetIdentity(r *http.Request) model.Identity {
	identity, ok := r.Context().Value(ContextKeyIdentity).(model.Identity)
	if !ok {
		return model.Anonymous()
	}
	return identity
}

// RequireOwner rejects everyone but the site owner with a bare 403.
// Denials are written to the event log by eventService when it is non-nil,
// otherwise they are logged as warnings.
func RequireOwner(eventService *service.EventService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := GetIdentity(r)
			if auth.IsOwner(identity) {
				next.ServeHTTP(w, r)
				return
			}

			// One events row per denial: when the event service records it,
			// the log line stays below the level EventLogHandler persists.
			level := slog.LevelWarn
			if eventService != nil {
				level = slog.LevelInfo
			}
			slog.Log(r.Context(), level, "access denied",
				"status", http.StatusForbidden,
				"method", r.Method,
				"path", r.URL.Path,
				"user_id", identity.ID,
				"remote_addr", r.RemoteAddr,
			)

			if eventService != nil {
				_ = eventService.LogWarning(r.Context(), model.EventCategoryAuth, "Access denied", map[string]any{
					"method":  r.Method,
					"path":    r.URL.Path,
					"status":  http.StatusForbidden,
					"user_id": identity.ID,
				})
			}

			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		})
	}
}
