// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Identity is the user on whose behalf a request runs.
// The zero value is the anonymous identity.
type Identity struct {
	ID    int64
	Name  string
	Email string
	Role  string
}

// Anonymous returns the identity of a visitor who is not logged in.
func Anonymous() Identity {
	return Identity{}
}

// IsAuthenticated reports whether the identity belongs to a logged-in user.
func (i Identity) IsAuthenticated() bool {
	return i.ID > 0
}
