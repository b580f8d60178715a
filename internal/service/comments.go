// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/olegiv/inkblog/internal/model"
	"github.com/olegiv/inkblog/internal/store"
	"github.com/olegiv/inkblog/internal/util"
)

// CommentService stores and lists comments. It does not check that the
// post exists; callers decide who may comment.
type CommentService struct {
	queries *store.Queries
	logger  *slog.Logger
}

// NewCommentService creates a CommentService.
func NewCommentService(db *sql.DB, logger *slog.Logger) *CommentService {
	return &CommentService{
		queries: store.New(db),
		logger:  logger,
	}
}

// ListForPost returns the comments for postID in insertion order.
func (s *CommentService) ListForPost(ctx context.Context, postID int64) ([]model.Comment, error) {
	rows, err := s.queries.ListCommentsByPost(ctx, util.NullInt64FromValue(postID))
	if err != nil {
		return nil, fmt.Errorf("listing comments: %w", err)
	}

	comments := make([]model.Comment, 0, len(rows))
	for _, r := range rows {
		comments = append(comments, commentFromRow(r))
	}
	return comments, nil
}

// Create adds a comment by authorName to postID.
func (s *CommentService) Create(ctx context.Context, postID int64, authorName, body string) (model.Comment, error) {
	body = strings.TrimSpace(body)
	authorName = util.NormalizeText(authorName)

	verr := model.NewValidationError()
	if body == "" {
		verr.Add("comment", "Comment is required")
	}
	if authorName == "" {
		verr.Add("name", "Name is required")
	}
	if err := verr.OrNil(); err != nil {
		return model.Comment{}, err
	}

	c := model.Comment{
		PostID:    postID,
		Name:      authorName,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}

	id, err := s.queries.CreateComment(ctx, store.CreateCommentParams{
		PostID:    util.NullInt64FromValue(postID),
		Name:      c.Name,
		Comment:   c.Body,
		CreatedAt: c.CreatedAt,
	})
	if err != nil {
		return model.Comment{}, fmt.Errorf("creating comment: %w", err)
	}
	c.ID = id

	s.logger.Debug("comment created", "comment_id", id, "post_id", postID)
	return c, nil
}

func commentFromRow(r store.Comment) model.Comment {
	return model.Comment{
		ID:        r.ID,
		PostID:    r.PostID.Int64,
		Name:      r.Name,
		Body:      r.Comment,
		CreatedAt: r.CreatedAt,
	}
}
