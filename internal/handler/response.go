// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler implements the blog's HTTP handlers.
package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/inkblog/internal/model"
	"github.com/olegiv/inkblog/internal/render"
	"github.com/olegiv/inkblog/internal/util"
)

// ErrorPageData is passed to the error page.
type ErrorPageData struct {
	Status  int
	Message string
}

// flashAndRedirect sets a flash message and redirects to the given URL.
// Uses http.StatusSeeOther (303) for POST redirects.
func flashAndRedirect(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message, messageType string) {
	renderer.SetFlash(r, message, messageType)
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// flashError sets an error flash message and redirects to the given URL.
func flashError(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message string) {
	flashAndRedirect(w, r, renderer, url, message, render.FlashError)
}

// flashSuccess sets a success flash message and redirects to the given URL.
func flashSuccess(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message string) {
	flashAndRedirect(w, r, renderer, url, message, render.FlashSuccess)
}

// parseFormOrRedirect parses the request form and redirects with an error message on failure.
// Returns true if parsing succeeded, false if it failed (and redirect was performed).
func parseFormOrRedirect(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, redirectURL string) bool {
	if err := r.ParseForm(); err != nil {
		flashError(w, r, renderer, redirectURL, msgInvalidForm)
		return false
	}
	return true
}

// logAndHTTPError logs an error and writes an HTTP error response.
func logAndHTTPError(w http.ResponseWriter, message string, statusCode int, logMsg string, args ...any) {
	slog.Error(logMsg, args...)
	http.Error(w, message, statusCode)
}

// logAndInternalError logs an error and writes a 500 Internal Server Error response.
func logAndInternalError(w http.ResponseWriter, logMsg string, args ...any) {
	logAndHTTPError(w, "Internal Server Error", http.StatusInternalServerError, logMsg, args...)
}

// renderPage renders a page template with the given status, falling back
// to a plain 500 when the template fails.
func renderPage(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, status int, name string, data render.TemplateData) {
	if err := renderer.RenderStatus(w, r, status, name, data); err != nil {
		logAndInternalError(w, "failed to render page", "template", name, "error", err)
	}
}

// renderNotFound renders the generic 404 page.
func renderNotFound(w http.ResponseWriter, r *http.Request, renderer *render.Renderer) {
	renderPage(w, r, renderer, http.StatusNotFound, pageError, render.TemplateData{
		Title: "Page Not Found",
		Data: ErrorPageData{
			Status:  http.StatusNotFound,
			Message: "The page you are looking for does not exist.",
		},
	})
}

// NotFound is the router's fallback for unknown paths.
func NotFound(renderer *render.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderNotFound(w, r, renderer)
	}
}

// GetOnly answers with 405 on routes whose GET changes state, so that HEAD
// is not served by the GET handler.
func GetOnly(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Allow", http.MethodGet)
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}

// forbidden writes a bare 403.
func forbidden(w http.ResponseWriter) {
	http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
}

// handleServiceError maps the errors every handler treats the same way:
// NotFound renders the 404 page, Forbidden writes a bare 403 and anything
// else is logged as a 500.
func handleServiceError(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, err error, logMsg string, args ...any) {
	switch {
	case errors.Is(err, model.ErrNotFound):
		renderNotFound(w, r, renderer)
	case errors.Is(err, model.ErrForbidden):
		forbidden(w)
	default:
		logAndInternalError(w, logMsg, append(args, "error", err)...)
	}
}

// validationErrors returns the field messages of a ValidationError.
func validationErrors(err error) (map[string]string, bool) {
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		return verr.Fields, true
	}
	return nil, false
}

// idParam parses the {id} URL parameter. Ids that are not positive
// integers render the 404 page.
func idParam(w http.ResponseWriter, r *http.Request, renderer *render.Renderer) (int64, bool) {
	id, ok := util.ParseID(chi.URLParam(r, "id"))
	if !ok {
		renderNotFound(w, r, renderer)
		return 0, false
	}
	return id, true
}
