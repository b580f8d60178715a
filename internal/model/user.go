// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the domain types shared by the blog's services,
// handlers and templates: users, posts, comments, identities and errors.
package model

import "time"

// User roles.
const (
	RoleOwner  = "owner"
	RoleReader = "reader"
)

// OwnerID is the id of the account that becomes the site owner.
// The first registered account always gets it.
const OwnerID int64 = 1

// User represents a registered account.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsOwner returns true if the user holds the owner role.
func (u *User) IsOwner() bool {
	return u.Role == RoleOwner
}

// Identity returns the request-scoped identity for the user.
func (u *User) Identity() Identity {
	return Identity{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}
