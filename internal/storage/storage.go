// Package storage defines the persistence interface and its implementations.
package storage

import (
	"context"
	"time"

	"rss_channel_bot/internal/model"
)

// Storage is the interface for all persistence operations.
type Storage interface {
	CreateFeed(ctx context.Context, feed *model.Feed) error
	GetFeedByURL(ctx context.Context, url string) (*model.Feed, error)
	ListFeeds(ctx context.Context) ([]model.Feed, error)
	UpdateFeedLastCheck(ctx context.Context, url string, at time.Time) error
	DeleteFeed(ctx context.Context, url string) error

	MarkSeen(ctx context.Context, rec model.SeenRecord) error
	IsSeen(ctx context.Context, feedURL, entryID string) (bool, error)

	Close() error
}
