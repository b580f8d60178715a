// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/olegiv/inkblog/internal/mail"
	"github.com/olegiv/inkblog/internal/render"
)

// PagesHandler serves the about page and the contact form.
type PagesHandler struct {
	renderer *render.Renderer
	notifier *mail.Notifier
	about    template.HTML
}

// NewPagesHandler creates a PagesHandler. The about page is rendered once
// from about.md in content.
func NewPagesHandler(renderer *render.Renderer, notifier *mail.Notifier, content fs.FS) (*PagesHandler, error) {
	src, err := fs.ReadFile(content, "about.md")
	if err != nil {
		return nil, fmt.Errorf("reading about page: %w", err)
	}

	about, err := renderer.Markdown(src)
	if err != nil {
		return nil, fmt.Errorf("rendering about page: %w", err)
	}

	return &PagesHandler{
		renderer: renderer,
		notifier: notifier,
		about:    about,
	}, nil
}

// ContactPageData is the state of the contact page.
type ContactPageData struct {
	Sent bool
	// Queued marks a sent message that waits in the outbox.
	Queued bool
	Failed bool
}

// About renders the about page.
func (h *PagesHandler) About(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, h.renderer, http.StatusOK, pageAbout, render.TemplateData{
		Title:    "About Me",
		Subtitle: "This is what I do.",
		Data:     h.about,
	})
}

// ContactForm renders an empty contact form.
func (h *PagesHandler) ContactForm(w http.ResponseWriter, r *http.Request) {
	h.renderContact(w, r, http.StatusOK, mail.ContactMessage{}, ContactPageData{}, nil)
}

// Contact sends the submitted message to the site owner. Delivery
// failures render the form again with a "message not sent" notice.
func (h *PagesHandler) Contact(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteContact) {
		return
	}

	msg := mail.ContactMessage{
		Name:    r.FormValue("name"),
		Email:   r.FormValue("email"),
		Phone:   r.FormValue("phone"),
		Message: r.FormValue("message"),
	}

	err := h.notifier.Send(r.Context(), msg, r.UserAgent())
	if err == nil {
		h.renderContact(w, r, http.StatusOK, mail.ContactMessage{}, ContactPageData{Sent: true, Queued: h.notifier.Queued()}, nil)
		return
	}

	if fields, ok := validationErrors(err); ok {
		h.renderContact(w, r, http.StatusUnprocessableEntity, msg, ContactPageData{}, fields)
		return
	}

	var derr *mail.DeliveryError
	if errors.As(err, &derr) {
		slog.Warn("contact message not delivered", "stage", derr.Stage, "error", derr.Err)
		h.renderContact(w, r, http.StatusBadGateway, msg, ContactPageData{Failed: true}, nil)
		return
	}

	logAndInternalError(w, "failed to send contact message", "error", err)
}

func (h *PagesHandler) renderContact(w http.ResponseWriter, r *http.Request, status int, msg mail.ContactMessage, data ContactPageData, errs map[string]string) {
	title := "Contact Me"
	subtitle := "Have questions? I have answers."
	switch {
	case data.Queued:
		title = "Your message is on its way"
		subtitle = ""
	case data.Sent:
		title = "Successfully sent your message"
		subtitle = ""
	}

	renderPage(w, r, h.renderer, status, pageContact, render.TemplateData{
		Title:    title,
		Subtitle: subtitle,
		Data:     data,
		Form:     msg,
		Errors:   errs,
	})
}
