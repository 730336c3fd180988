// Package registry holds the configured feed set and is the source of truth
// for what the poller iterates.
package registry

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"rss_channel_bot/internal/model"
	"rss_channel_bot/internal/storage"
)

// Registry errors surfaced to the command layer.
var (
	ErrDuplicateFeed = errors.New("feed already exists")
	ErrFeedNotFound  = errors.New("feed not found")
)

// Registry is the ordered set of configured feeds. Mutations are written
// through to storage; reads are served from memory so a poll cycle can take
// a snapshot without touching the database.
type Registry struct {
	mu    sync.RWMutex
	store storage.Storage
	feeds []model.Feed
}

// Load builds a Registry from the feeds persisted in storage.
func Load(ctx context.Context, store storage.Storage) (*Registry, error) {
	feeds, err := store.ListFeeds(ctx)
	if err != nil {
		return nil, fmt.Errorf("load feeds: %w", err)
	}
	return &Registry{store: store, feeds: feeds}, nil
}

// Add registers a new feed. Returns ErrDuplicateFeed if the URL is already
// present.
func (r *Registry) Add(ctx context.Context, url, name string) (model.Feed, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, f := range r.feeds {
		if f.URL == url {
			return model.Feed{}, ErrDuplicateFeed
		}
	}

	feed := model.Feed{URL: url, Name: name}
	if err := r.store.CreateFeed(ctx, &feed); err != nil {
		return model.Feed{}, fmt.Errorf("persist feed: %w", err)
	}
	r.feeds = append(r.feeds, feed)
	return feed, nil
}

// Remove deletes the feed with the given URL along with its seen entries.
// Returns ErrFeedNotFound if the URL is not registered.
func (r *Registry) Remove(ctx context.Context, url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := -1
	for i, f := range r.feeds {
		if f.URL == url {
			idx = i
			break
		}
	}
	if idx == -1 {
		return ErrFeedNotFound
	}

	if err := r.store.DeleteFeed(ctx, url); err != nil {
		if errors.Is(err, storage.ErrFeedNotFound) {
			// Memory and storage disagree; drop the stale in-memory row.
			r.feeds = append(r.feeds[:idx], r.feeds[idx+1:]...)
			return ErrFeedNotFound
		}
		return fmt.Errorf("delete feed: %w", err)
	}
	r.feeds = append(r.feeds[:idx], r.feeds[idx+1:]...)
	return nil
}

// Snapshot returns a copy of the feed list in insertion order. The copy is
// stable under concurrent Add/Remove calls, so an in-progress poll cycle is
// unaffected by mutations until its next cycle.
func (r *Registry) Snapshot() []model.Feed {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Feed, len(r.feeds))
	copy(out, r.feeds)
	return out
}

// Len reports the number of registered feeds.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.feeds)
}
