// Package model defines the domain types used across the application.
package model

import "time"

// Feed represents a configured RSS source.
type Feed struct {
	ID          int64
	URL         string
	Name        string
	LastCheckAt *time.Time
	CreatedAt   time.Time
}

// Entry is a single fetched feed item. Entries are transient; they only
// outlive a poll cycle once recorded as delivered.
type Entry struct {
	FeedURL   string
	ID        string
	Title     string
	Body      string
	Link      string
	Published *time.Time
}

// SeenRecord is the proof that an entry was already delivered.
// At most one record exists per (FeedURL, EntryID) pair.
type SeenRecord struct {
	FeedURL     string
	EntryID     string
	DeliveredAt time.Time
}

// PollStatus classifies the outcome of polling a single feed.
type PollStatus string

// Possible per-feed poll statuses.
const (
	StatusOK            PollStatus = "ok"
	StatusFetchError    PollStatus = "fetch_error"
	StatusParseError    PollStatus = "parse_error"
	StatusDeliveryError PollStatus = "delivery_error"
)

// PollOutcome summarizes one feed's result within a poll cycle.
type PollOutcome struct {
	FeedURL    string
	Status     PollStatus
	NewEntries int
	Delivered  int
	Err        error
}
