// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"database/sql"
	"testing"

	"github.com/olegiv/inkblog/internal/auth"
	"github.com/olegiv/inkblog/internal/model"
	"github.com/olegiv/inkblog/internal/testutil"
)

// fastHasher keeps PBKDF2 cheap in tests.
var fastHasher = auth.Hasher{Iterations: 1000, SaltLength: auth.DefaultSaltLength}

type testServices struct {
	db       *sql.DB
	events   *EventService
	accounts *AccountService
	posts    *PostService
	comments *CommentService
}

func newTestServices(t *testing.T, policy model.CommentPolicy) *testServices {
	t.Helper()

	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)

	logger := testutil.TestLoggerSilent()
	events := NewEventService(db)

	return &testServices{
		db:       db,
		events:   events,
		accounts: NewAccountService(db, events, logger).WithHasher(fastHasher),
		posts:    NewPostService(db, policy, events, logger),
		comments: NewCommentService(db, logger),
	}
}

func validPost(title string) model.PostInput {
	return model.PostInput{
		Title:    title,
		Subtitle: "A subtitle",
		ImgURL:   "https://images.example.com/cover.jpg",
		Body:     "<p>Hello world</p>",
	}
}

var (
	ownerIdentity  = model.Identity{ID: 1, Name: "Ann", Email: "ann@x.com", Role: model.RoleOwner}
	readerIdentity = model.Identity{ID: 2, Name: "Bob", Email: "bob@x.com", Role: model.RoleReader}
)
