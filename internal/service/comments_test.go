package service

import (
	"context"
	"errors"
	"testing"

	"github.com/olegiv/inkblog/internal/model"
)

func TestCommentCreateAndList(t *testing.T) {
	svc := newTestServices(t, model.CommentsRetain)
	ctx := context.Background()

	// Comments do not require the post to exist.
	for _, body := range []string{"first", "second", "third"} {
		if _, err := svc.comments.Create(ctx, 7, "Bob", body); err != nil {
			t.Fatalf("Create(%q): %v", body, err)
		}
	}
	if _, err := svc.comments.Create(ctx, 8, "Bob", "elsewhere"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	comments, err := svc.comments.ListForPost(ctx, 7)
	if err != nil {
		t.Fatalf("ListForPost: %v", err)
	}
	if len(comments) != 3 {
		t.Fatalf("len(comments) = %d, want 3", len(comments))
	}
	for i, want := range []string{"first", "second", "third"} {
		if comments[i].Body != want {
			t.Errorf("comments[%d].Body = %q, want %q", i, comments[i].Body, want)
		}
		if comments[i].PostID != 7 {
			t.Errorf("comments[%d].PostID = %d, want 7", i, comments[i].PostID)
		}
	}
}

func TestCommentCreate_Validation(t *testing.T) {
	svc := newTestServices(t, model.CommentsRetain)
	ctx := context.Background()

	tests := []struct {
		name      string
		author    string
		body      string
		wantField string
	}{
		{"empty body", "Bob", "   ", "comment"},
		{"empty author", "", "hi", "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.comments.Create(ctx, 1, tt.author, tt.body)
			var verr *model.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if _, ok := verr.Fields[tt.wantField]; !ok {
				t.Errorf("missing field error %q in %v", tt.wantField, verr.Fields)
			}
		})
	}
}

func TestCommentListForPost_Empty(t *testing.T) {
	svc := newTestServices(t, model.CommentsRetain)

	comments, err := svc.comments.ListForPost(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListForPost: %v", err)
	}
	if len(comments) != 0 {
		t.Errorf("len(comments) = %d, want 0", len(comments))
	}
}
