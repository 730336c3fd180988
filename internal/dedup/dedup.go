// Package dedup tracks which entries have already been delivered.
package dedup

import (
	"context"
	"time"

	"rss_channel_bot/internal/model"
	"rss_channel_bot/internal/storage"
)

// Store answers membership queries against the delivered-entry log and
// records new deliveries. It persists through the storage layer, so entries
// delivered before a restart still read as seen.
type Store struct {
	store storage.Storage
}

// New creates a Store backed by the given storage.
func New(store storage.Storage) *Store {
	return &Store{store: store}
}

// IsNew reports whether the (feedURL, entryID) pair has not been delivered yet.
func (s *Store) IsNew(ctx context.Context, feedURL, entryID string) (bool, error) {
	seen, err := s.store.IsSeen(ctx, feedURL, entryID)
	if err != nil {
		return false, err
	}
	return !seen, nil
}

// Record marks the pair as delivered. Recording an already recorded pair is
// a no-op, which makes delivery retries safe.
func (s *Store) Record(ctx context.Context, feedURL, entryID string, deliveredAt time.Time) error {
	return s.store.MarkSeen(ctx, model.SeenRecord{
		FeedURL:     feedURL,
		EntryID:     entryID,
		DeliveredAt: deliveredAt,
	})
}
