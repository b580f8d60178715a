// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/inkblog/internal/handler"
	"github.com/olegiv/inkblog/internal/middleware"
	"github.com/olegiv/inkblog/web"
)

// staticMaxAge is the Cache-Control max-age for /static assets.
const staticMaxAge = 3600

// routes builds the HTTP handler for the whole site.
func (app *application) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(chimw.RedirectSlashes)

	secCfg := middleware.DefaultSecurityHeadersConfig(app.cfg.IsDevelopment())
	secCfg.ExcludePaths = []string{"/health"}
	r.Use(middleware.SecurityHeaders(secCfg))

	// Health checks skip CSRF; /health loads the session to show details to the owner.
	r.Method(http.MethodGet, "/health", app.withSession(app.health.Health))
	r.Get("/health/live", app.health.Liveness)
	r.Get("/health/ready", app.health.Readiness)

	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		// web.Static always embeds static/.
		panic(err)
	}
	r.With(middleware.StaticCache(staticMaxAge)).
		Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(staticFS)))

	r.Group(func(r chi.Router) {
		r.Use(app.sessions.LoadAndSave)
		r.Use(middleware.CSRF(middleware.DefaultCSRFConfig(
			[]byte(app.cfg.SessionSecret)[:32], app.cfg.IsDevelopment(), app.cfg.ServerPort)))
		r.Use(middleware.LoadIdentity(app.sessions, app.accounts))

		r.Get(handler.RouteRoot, app.posts.Index)
		r.Get(handler.RouteRegister, app.auth.RegisterForm)
		r.Post(handler.RouteRegister, app.auth.Register)
		r.Get(handler.RouteLogin, app.auth.LoginForm)
		r.Post(handler.RouteLogin, app.auth.Login)
		r.Get(handler.RouteLogout, app.auth.Logout)
		r.Get(handler.RoutePostID, app.posts.Show)
		r.Post(handler.RoutePostID, app.posts.AddComment)
		r.Get(handler.RouteAbout, app.pages.About)
		r.Get(handler.RouteContact, app.pages.ContactForm)
		r.Post(handler.RouteContact, app.pages.Contact)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireOwner(app.events))
			r.Get(handler.RouteNewPost, app.posts.NewForm)
			r.Post(handler.RouteNewPost, app.posts.Create)
			r.Get(handler.RouteEditPostID, app.posts.EditForm)
			r.Post(handler.RouteEditPostID, app.posts.Update)
			r.Get(handler.RouteDeletePostID, app.posts.Delete)
			r.Head(handler.RouteDeletePostID, handler.GetOnly)
		})

		r.NotFound(handler.NotFound(app.renderer))
	})

	return r
}

// withSession loads the session and identity for a single handler so that
// /health can show details to the owner.
func (app *application) withSession(h http.HandlerFunc) http.Handler {
	return app.sessions.LoadAndSave(middleware.LoadIdentity(app.sessions, app.accounts)(h))
}
