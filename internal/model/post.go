// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// PostDateLayout is the layout used for a post's display date.
const PostDateLayout = "January 02, 2006"

// Field length limit shared by every short post and user column.
const MaxFieldLength = 250

// Post is a blog post. Author is the display name of whoever wrote
// or last edited it.
type Post struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Date     string `json:"date"`
	Body     string `json:"body"`
	Author   string `json:"author"`
	ImgURL   string `json:"img_url"`
}

// PostInput holds the user-editable fields of a post.
type PostInput struct {
	Title    string
	Subtitle string
	ImgURL   string
	Body     string
}

// PostInputFrom returns the editable fields of an existing post,
// used to pre-fill the edit form.
func PostInputFrom(p Post) PostInput {
	return PostInput{
		Title:    p.Title,
		Subtitle: p.Subtitle,
		ImgURL:   p.ImgURL,
		Body:     p.Body,
	}
}
