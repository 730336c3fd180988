package dedup

import (
	"context"
	"testing"
	"time"

	"rss_channel_bot/internal/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := storage.NewSQLite(":memory:")
	if err != nil {
		t.Fatalf("new sqlite: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return New(s)
}

func TestIsNewThenRecord(t *testing.T) {
	ctx := context.Background()
	d := newTestStore(t)

	isNew, err := d.IsNew(ctx, "https://f.example.com/rss", "e-1")
	if err != nil {
		t.Fatalf("is new: %v", err)
	}
	if !isNew {
		t.Fatal("unrecorded entry should be new")
	}

	if err := d.Record(ctx, "https://f.example.com/rss", "e-1", time.Now().UTC()); err != nil {
		t.Fatalf("record: %v", err)
	}

	isNew, err = d.IsNew(ctx, "https://f.example.com/rss", "e-1")
	if err != nil {
		t.Fatalf("is new after record: %v", err)
	}
	if isNew {
		t.Error("recorded entry should not be new")
	}
}

func TestRecordIdempotent(t *testing.T) {
	ctx := context.Background()
	d := newTestStore(t)

	at := time.Now().UTC()
	if err := d.Record(ctx, "https://f.example.com/rss", "e-1", at); err != nil {
		t.Fatalf("first record: %v", err)
	}
	if err := d.Record(ctx, "https://f.example.com/rss", "e-1", at.Add(time.Hour)); err != nil {
		t.Fatalf("second record should be a no-op, got %v", err)
	}
}

func TestScopedPerFeed(t *testing.T) {
	ctx := context.Background()
	d := newTestStore(t)

	if err := d.Record(ctx, "https://a.example.com/rss", "e-1", time.Now().UTC()); err != nil {
		t.Fatalf("record: %v", err)
	}

	isNew, err := d.IsNew(ctx, "https://b.example.com/rss", "e-1")
	if err != nil {
		t.Fatalf("is new: %v", err)
	}
	if !isNew {
		t.Error("the same entry ID under another feed should still be new")
	}
}
