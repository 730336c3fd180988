// Package fetcher downloads and parses RSS feeds into normalized entries.
package fetcher

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"rss_channel_bot/internal/model"
)

const maxBodyBytes = 5 * 1024 * 1024

// ErrorKind classifies a fetch failure.
type ErrorKind string

// Fetch failure kinds.
const (
	KindTimeout ErrorKind = "timeout"
	KindFetch   ErrorKind = "fetch_error"
	KindParse   ErrorKind = "parse_error"
)

// Error is the failure value returned by Fetch. All fetch failure modes are
// surfaced through it; Fetch never panics on malformed input.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPClient is the interface for performing HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Fetcher downloads and parses RSS feeds.
type Fetcher struct {
	client  HTTPClient
	timeout time.Duration
}

// New creates a Fetcher with the given HTTP client and per-fetch timeout.
func New(client HTTPClient, timeout time.Duration) *Fetcher {
	return &Fetcher{
		client:  client,
		timeout: timeout,
	}
}

// Fetch downloads the feed at feed.URL and returns its entries. Failures are
// returned as *Error with the kind set to timeout, fetch_error or parse_error.
func (f *Fetcher) Fetch(ctx context.Context, feed model.Feed) ([]model.Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feed.URL, nil)
	if err != nil {
		return nil, &Error{Kind: KindFetch, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("User-Agent", "RSSChannelBot/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &Error{Kind: classifyTransport(err), Err: fmt.Errorf("http get: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{Kind: KindFetch, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &Error{Kind: classifyTransport(err), Err: fmt.Errorf("read body: %w", err)}
	}

	parsed, err := gofeed.NewParser().ParseString(string(body))
	if err != nil {
		return nil, &Error{Kind: KindParse, Err: fmt.Errorf("parse feed: %w", err)}
	}

	entries := make([]model.Entry, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		body := item.Content
		if body == "" {
			body = item.Description
		}
		entries = append(entries, model.Entry{
			FeedURL:   feed.URL,
			ID:        EntryID(item),
			Title:     item.Title,
			Body:      body,
			Link:      item.Link,
			Published: item.PublishedParsed,
		})
	}
	return entries, nil
}

// EntryID returns the stable identifier for an RSS item. If the feed supplies
// no GUID, a SHA-256 hash of link+title is used, so the same logical entry
// always yields the same ID across fetches. Items with no GUID, link or title
// have no stable identity and yield an empty ID.
func EntryID(item *gofeed.Item) string {
	if item.GUID != "" {
		return item.GUID
	}
	if item.Link == "" && item.Title == "" {
		return ""
	}
	h := sha256.Sum256([]byte(item.Link + "|" + item.Title))
	return fmt.Sprintf("sha256:%x", h[:16])
}

func classifyTransport(err error) ErrorKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}
	return KindFetch
}
