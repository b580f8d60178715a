// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/olegiv/inkblog/internal/middleware"
	"github.com/olegiv/inkblog/internal/model"
	"github.com/olegiv/inkblog/internal/render"
	"github.com/olegiv/inkblog/internal/service"
)

// PostsHandler serves the post list, single posts with their comments and
// the owner's post editor.
type PostsHandler struct {
	posts    *service.PostService
	comments *service.CommentService
	renderer *render.Renderer
}

// NewPostsHandler creates a new PostsHandler.
func NewPostsHandler(posts *service.PostService, comments *service.CommentService, renderer *render.Renderer) *PostsHandler {
	return &PostsHandler{
		posts:    posts,
		comments: comments,
		renderer: renderer,
	}
}

// PostPageData is the data of the single post page.
type PostPageData struct {
	Post     model.Post
	Comments []model.Comment
}

// commentForm is what the comment form echoes back.
type commentForm struct {
	Body string
}

// Index lists every post.
func (h *PostsHandler) Index(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.ListAll(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to list posts", "error", err)
		return
	}

	renderPage(w, r, h.renderer, http.StatusOK, pageIndex, render.TemplateData{
		Title:    "Inkblog",
		Subtitle: "A collection of random musings.",
		Data:     posts,
	})
}

// Show renders a post with its comments.
func (h *PostsHandler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, h.renderer)
	if !ok {
		return
	}
	h.renderPost(w, r, http.StatusOK, id, commentForm{}, nil)
}

// AddComment stores a comment by the logged-in user on a post.
func (h *PostsHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, h.renderer)
	if !ok {
		return
	}

	identity := middleware.GetIdentity(r)
	if !identity.IsAuthenticated() {
		flashError(w, r, h.renderer, redirectLogin, msgLoginToComment)
		return
	}

	postURL := fmt.Sprintf(redirectPostID, id)
	if !parseFormOrRedirect(w, r, h.renderer, postURL) {
		return
	}

	// Comments on unknown posts are not stored.
	if _, err := h.posts.GetByID(r.Context(), id); err != nil {
		handleServiceError(w, r, h.renderer, err, "failed to get post", "post_id", id)
		return
	}

	form := commentForm{Body: r.FormValue("comment")}
	if _, err := h.comments.Create(r.Context(), id, identity.Name, form.Body); err != nil {
		if fields, ok := validationErrors(err); ok {
			h.renderPost(w, r, http.StatusUnprocessableEntity, id, form, fields)
			return
		}
		logAndInternalError(w, "failed to create comment", "post_id", id, "user_id", identity.ID, "error", err)
		return
	}

	http.Redirect(w, r, postURL, http.StatusSeeOther)
}

func (h *PostsHandler) renderPost(w http.ResponseWriter, r *http.Request, status int, id int64, form commentForm, errs map[string]string) {
	post, err := h.posts.GetByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, h.renderer, err, "failed to get post", "post_id", id)
		return
	}

	comments, err := h.comments.ListForPost(r.Context(), id)
	if err != nil {
		logAndInternalError(w, "failed to list comments", "post_id", id, "error", err)
		return
	}

	renderPage(w, r, h.renderer, status, pagePost, render.TemplateData{
		Title:  post.Title,
		Data:   PostPageData{Post: post, Comments: comments},
		Form:   form,
		Errors: errs,
	})
}

// NewForm renders an empty post editor.
func (h *PostsHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	h.renderEditor(w, r, http.StatusOK, "New Post", model.PostInput{}, nil)
}

// Create stores a new post and redirects to the post list.
func (h *PostsHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteNewPost) {
		return
	}

	in := postInputFromForm(r)
	if _, err := h.posts.Create(r.Context(), middleware.GetIdentity(r), in); err != nil {
		h.handleEditorError(w, r, "New Post", in, err)
		return
	}

	http.Redirect(w, r, redirectRoot, http.StatusSeeOther)
}

// EditForm renders the post editor pre-filled with the post.
func (h *PostsHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, h.renderer)
	if !ok {
		return
	}

	post, err := h.posts.GetByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, h.renderer, err, "failed to get post", "post_id", id)
		return
	}

	h.renderEditor(w, r, http.StatusOK, "Edit Post", model.PostInputFrom(post), nil)
}

// Update rewrites a post and redirects to it.
func (h *PostsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, h.renderer)
	if !ok {
		return
	}

	if !parseFormOrRedirect(w, r, h.renderer, fmt.Sprintf(RouteEditPost+"/%d", id)) {
		return
	}

	in := postInputFromForm(r)
	if err := h.posts.Update(r.Context(), middleware.GetIdentity(r), id, in); err != nil {
		h.handleEditorError(w, r, "Edit Post", in, err)
		return
	}

	http.Redirect(w, r, fmt.Sprintf(redirectPostID, id), http.StatusSeeOther)
}

// Delete removes a post and redirects to the post list.
func (h *PostsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, h.renderer)
	if !ok {
		return
	}

	if err := h.posts.Delete(r.Context(), middleware.GetIdentity(r), id); err != nil {
		if errors.Is(err, model.ErrPostHasComments) {
			renderPage(w, r, h.renderer, http.StatusConflict, pageError, render.TemplateData{
				Title: "Post Not Deleted",
				Data: ErrorPageData{
					Status:  http.StatusConflict,
					Message: "This post still has comments and cannot be deleted.",
				},
			})
			return
		}
		handleServiceError(w, r, h.renderer, err, "failed to delete post", "post_id", id)
		return
	}

	http.Redirect(w, r, redirectRoot, http.StatusSeeOther)
}

func (h *PostsHandler) handleEditorError(w http.ResponseWriter, r *http.Request, title string, in model.PostInput, err error) {
	if fields, ok := validationErrors(err); ok {
		h.renderEditor(w, r, http.StatusUnprocessableEntity, title, in, fields)
		return
	}
	if errors.Is(err, model.ErrDuplicateTitle) {
		h.renderEditor(w, r, http.StatusConflict, title, in, map[string]string{"title": msgDuplicateTitle})
		return
	}
	handleServiceError(w, r, h.renderer, err, "failed to save post")
}

func (h *PostsHandler) renderEditor(w http.ResponseWriter, r *http.Request, status int, title string, in model.PostInput, errs map[string]string) {
	renderPage(w, r, h.renderer, status, pageMakePost, render.TemplateData{
		Title:  title,
		Form:   in,
		Errors: errs,
	})
}

func postInputFromForm(r *http.Request) model.PostInput {
	return model.PostInput{
		Title:    r.FormValue("title"),
		Subtitle: r.FormValue("subtitle"),
		ImgURL:   r.FormValue("img_url"),
		Body:     r.FormValue("body"),
	}
}
