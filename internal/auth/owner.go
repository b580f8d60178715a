// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import "github.com/olegiv/inkblog/internal/model"

// IsOwner reports whether identity may create, edit and delete posts.
func IsOwner(identity model.Identity) bool {
	return identity.IsAuthenticated() && identity.Role == model.RoleOwner
}

// RequireOwner returns model.ErrForbidden unless identity is the owner.
func RequireOwner(identity model.Identity) error {
	if !IsOwner(identity) {
		return model.ErrForbidden
	}
	return nil
}
