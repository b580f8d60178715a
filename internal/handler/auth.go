// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/inkblog/internal/model"
	"github.com/olegiv/inkblog/internal/render"
	"github.com/olegiv/inkblog/internal/service"
	"github.com/olegiv/inkblog/internal/session"
)

// AuthHandler handles registration, login and logout.
type AuthHandler struct {
	accounts       *service.AccountService
	renderer       *render.Renderer
	sessionManager *scs.SessionManager
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(accounts *service.AccountService, renderer *render.Renderer, sm *scs.SessionManager) *AuthHandler {
	return &AuthHandler{
		accounts:       accounts,
		renderer:       renderer,
		sessionManager: sm,
	}
}

// loginForm is what the login page echoes back.
type loginForm struct {
	Email string
}

// RegisterForm renders the registration page.
func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	h.renderRegister(w, r, http.StatusOK, service.RegisterInput{}, nil)
}

// Register creates an account and logs it in.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteRegister) {
		return
	}

	in := service.RegisterInput{
		Name:     r.FormValue("name"),
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
	}

	user, err := h.accounts.Register(r.Context(), in)
	if err != nil {
		if fields, ok := validationErrors(err); ok {
			h.renderRegister(w, r, http.StatusUnprocessableEntity, in, fields)
			return
		}
		if errors.Is(err, model.ErrDuplicateEmail) {
			h.renderRegister(w, r, http.StatusConflict, in, map[string]string{"email": msgDuplicateEmail})
			return
		}
		logAndInternalError(w, "failed to register user", "email", in.Email, "error", err)
		return
	}

	if err := session.Login(r.Context(), h.sessionManager, user.ID); err != nil {
		logAndInternalError(w, "session renewal error", "user_id", user.ID, "error", err)
		return
	}

	slog.Info("user logged in", "user_id", user.ID, "email", user.Email)
	flashSuccess(w, r, h.renderer, redirectRoot, "Welcome, "+user.Name+"!")
}

func (h *AuthHandler) renderRegister(w http.ResponseWriter, r *http.Request, status int, in service.RegisterInput, errs map[string]string) {
	in.Password = ""
	renderPage(w, r, h.renderer, status, pageRegister, render.TemplateData{
		Title:    "Register",
		Subtitle: "Start Contributing to the Blog!",
		Form:     in,
		Errors:   errs,
	})
}

// LoginForm renders the login page.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, h.renderer, http.StatusOK, pageLogin, render.TemplateData{
		Title:    "Log In",
		Subtitle: "Welcome Back!",
		Form:     loginForm{},
	})
}

// Login checks the credentials and binds the user to the session.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectLogin) {
		return
	}

	email := r.FormValue("email")
	password := r.FormValue("password")

	if email == "" || password == "" {
		flashError(w, r, h.renderer, redirectLogin, msgInvalidCredentials)
		return
	}

	user, err := h.accounts.Login(r.Context(), email, password)
	if err != nil {
		if errors.Is(err, model.ErrInvalidCredentials) {
			flashError(w, r, h.renderer, redirectLogin, msgInvalidCredentials)
			return
		}
		logAndInternalError(w, "database error during login", "error", err)
		return
	}

	// Regenerate session ID to prevent session fixation
	if err := session.Login(r.Context(), h.sessionManager, user.ID); err != nil {
		logAndInternalError(w, "session renewal error", "user_id", user.ID, "error", err)
		return
	}

	slog.Info("user logged in", "user_id", user.ID, "email", user.Email)
	http.Redirect(w, r, redirectRoot, http.StatusSeeOther)
}

// Logout destroys the session. Logging out without a session is harmless.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := session.Logout(r.Context(), h.sessionManager); err != nil {
		logAndInternalError(w, "failed to destroy session", "error", err)
		return
	}
	flashSuccess(w, r, h.renderer, redirectRoot, msgLoggedOut)
}
