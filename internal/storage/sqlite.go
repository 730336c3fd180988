package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver registration.

	"rss_channel_bot/internal/model"
	"rss_channel_bot/migrations"
)

const timeLayout = "2006-01-02T15:04:05Z"

// ErrFeedNotFound is returned when a feed lookup matches no row.
var ErrFeedNotFound = errors.New("feed not found")

// SQLite implements Storage backed by a SQLite database.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at dsn and runs pending migrations.
func NewSQLite(dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// CreateFeed inserts a new feed and populates its ID and CreatedAt.
func (s *SQLite) CreateFeed(ctx context.Context, feed *model.Feed) error {
	now := time.Now().UTC().Format(timeLayout)
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO feeds (url, name, created_at) VALUES (?, ?, ?)`,
		feed.URL, feed.Name, now,
	)
	if err != nil {
		return fmt.Errorf("insert feed: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	feed.ID = id
	feed.CreatedAt, _ = time.Parse(timeLayout, now)
	return nil
}

// GetFeedByURL returns the feed with the given URL, or ErrFeedNotFound.
func (s *SQLite) GetFeedByURL(ctx context.Context, url string) (*model.Feed, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, url, name, last_check_at, created_at FROM feeds WHERE url = ?`, url,
	)
	feed, err := scanFeed(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFeedNotFound
	}
	return feed, err
}

// ListFeeds returns all feeds in insertion order.
func (s *SQLite) ListFeeds(ctx context.Context) ([]model.Feed, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, url, name, last_check_at, created_at FROM feeds ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("query feeds: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var feeds []model.Feed
	for rows.Next() {
		f, err := scanFeed(rows)
		if err != nil {
			return nil, err
		}
		feeds = append(feeds, *f)
	}
	return feeds, rows.Err()
}

// UpdateFeedLastCheck records when a feed was last polled.
func (s *SQLite) UpdateFeedLastCheck(ctx context.Context, url string, at time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE feeds SET last_check_at = ? WHERE url = ?`,
		at.UTC().Format(timeLayout), url,
	)
	if err != nil {
		return fmt.Errorf("update last check: %w", err)
	}
	return nil
}

// DeleteFeed removes a feed and its seen entries.
func (s *SQLite) DeleteFeed(ctx context.Context, url string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM seen_entries WHERE feed_url = ?`, url); err != nil {
		return fmt.Errorf("delete seen_entries: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM feeds WHERE url = ?`, url)
	if err != nil {
		return fmt.Errorf("delete feed: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrFeedNotFound
	}
	return tx.Commit()
}

// MarkSeen records that an entry has been delivered. Recording an already
// recorded pair is a no-op.
func (s *SQLite) MarkSeen(ctx context.Context, rec model.SeenRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO seen_entries (feed_url, entry_id, delivered_at) VALUES (?, ?, ?)`,
		rec.FeedURL, rec.EntryID, rec.DeliveredAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("mark seen: %w", err)
	}
	return nil
}

// IsSeen checks whether an entry has already been delivered.
func (s *SQLite) IsSeen(ctx context.Context, feedURL, entryID string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM seen_entries WHERE feed_url = ? AND entry_id = ?`,
		feedURL, entryID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check seen: %w", err)
	}
	return count > 0, nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanFeed(row scannable) (*model.Feed, error) {
	var f model.Feed
	var lastCheck, created sql.NullString
	err := row.Scan(&f.ID, &f.URL, &f.Name, &lastCheck, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan feed: %w", err)
	}
	if lastCheck.Valid {
		t, _ := time.Parse(timeLayout, lastCheck.String)
		f.LastCheckAt = &t
	}
	if created.Valid {
		f.CreatedAt, _ = time.Parse(timeLayout, created.String)
	}
	return &f, nil
}
