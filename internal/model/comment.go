// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Comment is a reader's comment on a post. PostID is advisory: the post
// it refers to may have been deleted.
type Comment struct {
	ID        int64     `json:"id"`
	PostID    int64     `json:"post_id"`
	Name      string    `json:"name"`
	Body      string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentPolicy decides what happens to a post's comments when the post
// is deleted.
type CommentPolicy string

// Comment policies.
const (
	CommentsRetain  CommentPolicy = "retain"
	CommentsCascade CommentPolicy = "cascade"
	CommentsReject  CommentPolicy = "reject"
)

// Valid reports whether p is a known policy.
func (p CommentPolicy) Valid() bool {
	switch p {
	case CommentsRetain, CommentsCascade, CommentsReject:
		return true
	}
	return false
}
