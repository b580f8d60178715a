package logging

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/olegiv/inkblog/internal/model"
	"github.com/olegiv/inkblog/internal/store"
	"github.com/olegiv/inkblog/internal/testutil"
)

type discardHandler struct{}

func (h discardHandler) Enabled(context.Context, slog.Level) bool  { return true }
func (h discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return h }
func (h discardHandler) WithGroup(string) slog.Handler             { return h }

func recentEvents(t *testing.T, db *sql.DB) []store.Event {
	t.Helper()
	events, err := store.New(db).ListRecentEvents(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListRecentEvents: %v", err)
	}
	return events
}

func TestEventLogHandler_PersistsError(t *testing.T) {
	db := testutil.TestMemoryDB(t)
	logger := slog.New(NewEventLogHandler(discardHandler{}, db))

	logger.Error("smtp delivery failed", "host", "smtp.example.com", "port", 587, "error", errors.New("timeout"))

	events := recentEvents(t, db)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	e := events[0]
	if e.Level != model.EventLevelError {
		t.Errorf("Level = %q, want %q", e.Level, model.EventLevelError)
	}
	if e.Category != model.EventCategoryMail {
		t.Errorf("Category = %q, want %q", e.Category, model.EventCategoryMail)
	}
	if e.Message != "smtp delivery failed" {
		t.Errorf("Message = %q", e.Message)
	}

	var meta map[string]any
	if err := json.Unmarshal([]byte(e.Metadata), &meta); err != nil {
		t.Fatalf("metadata is not JSON: %v (%s)", err, e.Metadata)
	}
	if meta["host"] != "smtp.example.com" || meta["port"] != float64(587) || meta["error"] != "timeout" {
		t.Errorf("metadata = %v", meta)
	}
}

func TestEventLogHandler_SkipsBelowLevel(t *testing.T) {
	db := testutil.TestMemoryDB(t)
	logger := slog.New(NewEventLogHandler(discardHandler{}, db))

	logger.Info("post created", "id", 1)
	logger.Debug("noise")

	if events := recentEvents(t, db); len(events) != 0 {
		t.Fatalf("got %d events, want 0", len(events))
	}
}

func TestEventLogHandler_CustomLevel(t *testing.T) {
	db := testutil.TestMemoryDB(t)
	logger := slog.New(NewEventLogHandlerWithLevel(discardHandler{}, db, slog.LevelInfo))

	logger.Info("user logged in")

	events := recentEvents(t, db)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].Level != model.EventLevelInfo || events[0].Category != model.EventCategoryAuth {
		t.Errorf("event = %+v", events[0])
	}
}

func TestEventLogHandler_ExplicitCategoryAndAttrs(t *testing.T) {
	db := testutil.TestMemoryDB(t)
	logger := slog.New(NewEventLogHandler(discardHandler{}, db)).
		With("request_id", "abc").
		WithGroup("req")

	logger.Warn("something odd", CategoryKey, model.EventCategoryPost, "path", "/post/1")

	events := recentEvents(t, db)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].Category != model.EventCategoryPost {
		t.Errorf("Category = %q", events[0].Category)
	}

	var meta map[string]any
	if err := json.Unmarshal([]byte(events[0].Metadata), &meta); err != nil {
		t.Fatalf("metadata is not JSON: %v", err)
	}
	if meta["request_id"] != "abc" || meta["req.path"] != "/post/1" {
		t.Errorf("metadata = %v", meta)
	}
	if _, ok := meta[CategoryKey]; ok {
		t.Error("category should not be repeated in metadata")
	}
}

func TestEventCategory(t *testing.T) {
	tests := map[string]string{
		"login failed":          model.EventCategoryAuth,
		"CSRF check failed":     model.EventCategoryAuth,
		"contact mail dropped":  model.EventCategoryMail,
		"comment insert failed": model.EventCategoryPost,
		"disk almost full":      model.EventCategorySystem,
	}
	for msg, want := range tests {
		if got := eventCategory(msg, nil); got != want {
			t.Errorf("eventCategory(%q) = %q, want %q", msg, got, want)
		}
	}
}
