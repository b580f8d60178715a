// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"net/mail"
	"strings"

	"github.com/olegiv/inkblog/internal/model"
	"github.com/olegiv/inkblog/internal/util"
)

// RegisterInput holds the fields of the registration form.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

func (in *RegisterInput) normalize() {
	in.Name = util.NormalizeText(in.Name)
	in.Email = util.NormalizeEmail(in.Email)
}

func (in RegisterInput) validate() error {
	verr := model.NewValidationError()

	if in.Name == "" {
		verr.Add("name", "Name is required")
	} else if util.TooLong(in.Name, model.MaxFieldLength) {
		verr.Add("name", "Name is too long")
	}

	validateEmail(verr, in.Email)

	if in.Password == "" {
		verr.Add("password", "Password is required")
	}

	return verr.OrNil()
}

func normalizePostInput(in model.PostInput) model.PostInput {
	return model.PostInput{
		Title:    util.NormalizeText(in.Title),
		Subtitle: util.NormalizeText(in.Subtitle),
		ImgURL:   strings.TrimSpace(in.ImgURL),
		Body:     strings.TrimSpace(in.Body),
	}
}

func validatePostInput(in model.PostInput) error {
	verr := model.NewValidationError()

	requireShort(verr, "title", "Title", in.Title)
	requireShort(verr, "subtitle", "Subtitle", in.Subtitle)

	if in.ImgURL == "" {
		verr.Add("img_url", "Image URL is required")
	} else if util.TooLong(in.ImgURL, model.MaxFieldLength) {
		verr.Add("img_url", "Image URL is too long")
	} else if err := util.ValidateHTTPURL(in.ImgURL); err != nil {
		verr.Add("img_url", "Image URL must be a valid http(s) URL")
	}

	if in.Body == "" {
		verr.Add("body", "Content is required")
	}

	return verr.OrNil()
}

func validateEmail(verr *model.ValidationError, email string) {
	if email == "" {
		verr.Add("email", "Email is required")
		return
	}
	if util.TooLong(email, model.MaxFieldLength) {
		verr.Add("email", "Email is too long")
		return
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		verr.Add("email", "Invalid email format")
	}
}

func requireShort(verr *model.ValidationError, field, label, value string) {
	if value == "" {
		verr.Add(field, label+" is required")
	} else if util.TooLong(value, model.MaxFieldLength) {
		verr.Add(field, label+" is too long")
	}
}
