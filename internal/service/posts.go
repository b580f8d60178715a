// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/inkblog/internal/auth"
	"github.com/olegiv/inkblog/internal/model"
	"github.com/olegiv/inkblog/internal/store"
	"github.com/olegiv/inkblog/internal/util"
)

// PostService manages blog posts. Every mutation requires the owner.
type PostService struct {
	db      *sql.DB
	queries *store.Queries
	policy  model.CommentPolicy
	events  *EventService
	logger  *slog.Logger
	now     func() time.Time
}

// NewPostService creates a PostService. policy decides what happens to a
// post's comments when the post is deleted.
func NewPostService(db *sql.DB, policy model.CommentPolicy, events *EventService, logger *slog.Logger) *PostService {
	if !policy.Valid() {
		policy = model.CommentsRetain
	}
	return &PostService{
		db:      db,
		queries: store.New(db),
		policy:  policy,
		events:  events,
		logger:  logger,
		now:     time.Now,
	}
}

// ListAll returns every post in storage order.
func (s *PostService) ListAll(ctx context.Context) ([]model.Post, error) {
	rows, err := s.queries.ListPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing posts: %w", err)
	}

	posts := make([]model.Post, 0, len(rows))
	for _, r := range rows {
		posts = append(posts, postFromRow(r))
	}
	return posts, nil
}

// GetByID returns the post with the given id or model.ErrNotFound.
func (s *PostService) GetByID(ctx context.Context, id int64) (model.Post, error) {
	row, err := s.queries.GetPostByID(ctx, id)
	if err != nil {
		if store.IsNotFound(err) {
			return model.Post{}, model.ErrNotFound
		}
		return model.Post{}, fmt.Errorf("getting post: %w", err)
	}
	return postFromRow(row), nil
}

// Create stores a new post written by actor and returns its id.
func (s *PostService) Create(ctx context.Context, actor model.Identity, in model.PostInput) (int64, error) {
	if err := auth.RequireOwner(actor); err != nil {
		return 0, err
	}

	in = normalizePostInput(in)
	if err := validatePostInput(in); err != nil {
		return 0, err
	}

	if taken, err := s.titleTaken(ctx, in.Title, 0); err != nil {
		return 0, err
	} else if taken {
		return 0, model.ErrDuplicateTitle
	}

	id, err := s.queries.CreatePost(ctx, store.CreatePostParams{
		Title:    in.Title,
		Subtitle: in.Subtitle,
		Date:     s.now().Format(model.PostDateLayout),
		Body:     in.Body,
		Author:   actor.Name,
		ImgUrl:   in.ImgURL,
	})
	if err != nil {
		if store.IsUniqueViolation(err) {
			return 0, model.ErrDuplicateTitle
		}
		return 0, fmt.Errorf("creating post: %w", err)
	}

	s.logger.Info("post created", "post_id", id, "user_id", actor.ID)
	_ = s.events.LogInfo(ctx, model.EventCategoryPost, "Post created", map[string]any{
		"post_id": id,
		"title":   in.Title,
	})

	return id, nil
}

// Update rewrites the editable fields of a post. The author becomes the
// editor's display name and the original date is kept.
func (s *PostService) Update(ctx context.Context, actor model.Identity, id int64, in model.PostInput) error {
	if err := auth.RequireOwner(actor); err != nil {
		return err
	}

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	in = normalizePostInput(in)
	if err := validatePostInput(in); err != nil {
		return err
	}

	if taken, err := s.titleTaken(ctx, in.Title, id); err != nil {
		return err
	} else if taken {
		return model.ErrDuplicateTitle
	}

	n, err := s.queries.UpdatePost(ctx, store.UpdatePostParams{
		Title:    in.Title,
		Subtitle: in.Subtitle,
		Date:     existing.Date,
		Body:     in.Body,
		Author:   actor.Name,
		ImgUrl:   in.ImgURL,
		ID:       id,
	})
	if err != nil {
		if store.IsUniqueViolation(err) {
			return model.ErrDuplicateTitle
		}
		return fmt.Errorf("updating post: %w", err)
	}
	if n == 0 {
		return model.ErrNotFound
	}

	s.logger.Info("post updated", "post_id", id, "user_id", actor.ID)
	_ = s.events.LogInfo(ctx, model.EventCategoryPost, "Post updated", map[string]any{
		"post_id": id,
	})

	return nil
}

// Delete removes a post. Its comments are kept, deleted with it or block
// the deletion depending on the configured policy.
func (s *PostService) Delete(ctx context.Context, actor model.Identity, id int64) error {
	if err := auth.RequireOwner(actor); err != nil {
		return err
	}

	var removedComments int64
	err := store.RunInTx(ctx, s.db, func(q *store.Queries) error {
		if _, err := q.GetPostByID(ctx, id); err != nil {
			if store.IsNotFound(err) {
				return model.ErrNotFound
			}
			return fmt.Errorf("getting post: %w", err)
		}

		ref := util.NullInt64FromValue(id)
		switch s.policy {
		case model.CommentsReject:
			count, err := q.CountCommentsByPost(ctx, ref)
			if err != nil {
				return fmt.Errorf("counting comments: %w", err)
			}
			if count > 0 {
				return model.ErrPostHasComments
			}
		case model.CommentsCascade:
			n, err := q.DeleteCommentsByPost(ctx, ref)
			if err != nil {
				return fmt.Errorf("deleting comments: %w", err)
			}
			removedComments = n
		}

		if _, err := q.DeletePost(ctx, id); err != nil {
			return fmt.Errorf("deleting post: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("post deleted", "post_id", id, "user_id", actor.ID, "comments_removed", removedComments)
	_ = s.events.LogInfo(ctx, model.EventCategoryPost, "Post deleted", map[string]any{
		"post_id":          id,
		"policy":           string(s.policy),
		"comments_removed": removedComments,
	})

	return nil
}

// titleTaken reports whether another post than exceptID uses title.
func (s *PostService) titleTaken(ctx context.Context, title string, exceptID int64) (bool, error) {
	row, err := s.queries.GetPostByTitle(ctx, title)
	if err != nil {
		if store.IsNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("checking title: %w", err)
	}
	return row.ID != exceptID, nil
}

func postFromRow(r store.BlogPost) model.Post {
	return model.Post{
		ID:       r.ID,
		Title:    r.Title,
		Subtitle: r.Subtitle,
		Date:     r.Date,
		Body:     r.Body,
		Author:   r.Author,
		ImgURL:   r.ImgUrl,
	}
}
