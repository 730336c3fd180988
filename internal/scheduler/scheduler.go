// Package scheduler drives the recurring poll cycle over all configured
// feeds.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"rss_channel_bot/internal/dedup"
	"rss_channel_bot/internal/delivery"
	"rss_channel_bot/internal/fetcher"
	"rss_channel_bot/internal/model"
	"rss_channel_bot/internal/normalize"
	"rss_channel_bot/internal/registry"
	"rss_channel_bot/internal/storage"
)

// Scheduler repeatedly polls every registered feed, delivers entries not yet
// seen and records them after a confirmed send. One broken feed never halts
// the others.
type Scheduler struct {
	registry *registry.Registry
	dedup    *dedup.Store
	fetcher  *fetcher.Fetcher
	channel  delivery.Channel
	store    storage.Storage
	log      *slog.Logger

	interval time.Duration
	workers  int
	grace    time.Duration
}

// New creates a Scheduler with default interval, concurrency and shutdown
// grace period.
func New(reg *registry.Registry, ded *dedup.Store, f *fetcher.Fetcher, ch delivery.Channel, store storage.Storage, log *slog.Logger) *Scheduler {
	return &Scheduler{
		registry: reg,
		dedup:    ded,
		fetcher:  f,
		channel:  ch,
		store:    store,
		log:      log,
		interval: 15 * time.Minute,
		workers:  4,
		grace:    10 * time.Second,
	}
}

// SetInterval overrides the poll interval.
func (s *Scheduler) SetInterval(d time.Duration) {
	s.interval = d
}

// SetMaxConcurrent bounds how many feeds are polled simultaneously.
func (s *Scheduler) SetMaxConcurrent(n int) {
	if n > 0 {
		s.workers = n
	}
}

// SetGracePeriod bounds how long in-flight work may continue after shutdown.
func (s *Scheduler) SetGracePeriod(d time.Duration) {
	s.grace = d
}

// Run starts the poll loop, blocking until ctx is cancelled. The ticker
// keeps a fixed-start cadence: an overlong cycle is followed by the next
// tick immediately, without stacking skipped runs. On cancellation no new
// feed is started, and in-flight pipelines get a bounded grace period
// before being abandoned.
func (s *Scheduler) Run(ctx context.Context) {
	workCtx, cancelWork := context.WithCancel(context.WithoutCancel(ctx))
	defer cancelWork()
	go func() {
		<-ctx.Done()
		timer := time.NewTimer(s.grace)
		defer timer.Stop()
		<-timer.C
		cancelWork()
	}()

	s.runCycle(ctx, workCtx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runCycle(ctx, workCtx)
		}
	}
}

// runCycle polls a snapshot of the feed list taken at cycle start; feeds
// added or removed mid-cycle only affect the next cycle. Per-feed pipelines
// run concurrently up to the worker bound.
func (s *Scheduler) runCycle(ctx, workCtx context.Context) {
	feeds := s.registry.Snapshot()
	if len(feeds) == 0 {
		return
	}
	start := time.Now()

	outcomes := make([]model.PollOutcome, len(feeds))
	g := new(errgroup.Group)
	g.SetLimit(s.workers)

	for i, feed := range feeds {
		if ctx.Err() != nil {
			break
		}
		i, feed := i, feed
		g.Go(func() error {
			outcomes[i] = s.processFeed(workCtx, feed)
			return nil
		})
	}
	_ = g.Wait()

	counts := make(map[model.PollStatus]int)
	delivered := 0
	for _, o := range outcomes {
		if o.Status == "" {
			continue // not started before shutdown
		}
		counts[o.Status]++
		delivered += o.Delivered
	}
	s.log.Info("poll cycle complete",
		"feeds", len(feeds),
		"ok", counts[model.StatusOK],
		"fetch_errors", counts[model.StatusFetchError],
		"parse_errors", counts[model.StatusParseError],
		"delivery_errors", counts[model.StatusDeliveryError],
		"delivered", delivered,
		"took", time.Since(start),
	)
}

// processFeed runs one feed's pipeline: fetch, classify new entries, format,
// deliver, record. The steps are strictly sequential so an entry is only
// recorded after its delivery was confirmed. All failures are contained in
// the returned outcome.
func (s *Scheduler) processFeed(ctx context.Context, feed model.Feed) model.PollOutcome {
	out := model.PollOutcome{FeedURL: feed.URL, Status: model.StatusOK}

	entries, err := s.fetcher.Fetch(ctx, feed)
	if err != nil {
		out.Status = model.StatusFetchError
		var fe *fetcher.Error
		if errors.As(err, &fe) && fe.Kind == fetcher.KindParse {
			out.Status = model.StatusParseError
		}
		out.Err = err
		s.log.Error("fetch feed", "url", feed.URL, "error", err)
		s.updateLastCheck(ctx, feed)
		return out
	}

	var fresh []model.Entry
	for _, e := range entries {
		if e.ID == "" {
			s.log.Warn("entry without stable identity skipped", "url", feed.URL)
			continue
		}
		isNew, err := s.dedup.IsNew(ctx, feed.URL, e.ID)
		if err != nil {
			s.log.Error("check seen", "url", feed.URL, "entry", e.ID, "error", err)
			continue
		}
		if isNew {
			fresh = append(fresh, e)
		}
	}
	sortByPublished(fresh)
	out.NewEntries = len(fresh)

	for _, e := range fresh {
		msg := normalize.Message(feed.Name, e)
		if err := s.channel.Send(ctx, msg); err != nil {
			// Unconfirmed deliveries stay unrecorded, so they are retried
			// next cycle. A duplicate send is a lesser failure than a
			// silently dropped entry.
			out.Status = model.StatusDeliveryError
			out.Err = err
			s.log.Error("deliver entry", "url", feed.URL, "entry", e.ID, "error", err)
			break
		}
		if err := s.dedup.Record(ctx, feed.URL, e.ID, time.Now().UTC()); err != nil {
			s.log.Error("record delivery", "url", feed.URL, "entry", e.ID, "error", err)
		}
		out.Delivered++
	}

	if out.Delivered > 0 {
		s.log.Info("delivered entries", "url", feed.URL, "name", feed.Name, "count", out.Delivered)
	}

	s.updateLastCheck(ctx, feed)
	return out
}

// sortByPublished orders a batch ascending by published time, guarding
// against feeds that list newest first. Entries without a timestamp sort
// after timed ones and keep their source order among themselves.
func sortByPublished(entries []model.Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		pi, pj := entries[i].Published, entries[j].Published
		if pi == nil {
			return false
		}
		if pj == nil {
			return true
		}
		return pi.Before(*pj)
	})
}

func (s *Scheduler) updateLastCheck(ctx context.Context, feed model.Feed) {
	if err := s.store.UpdateFeedLastCheck(ctx, feed.URL, time.Now().UTC()); err != nil {
		s.log.Error("update last check", "url", feed.URL, "error", err)
	}
}
