package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"rss_channel_bot/internal/bot"
	"rss_channel_bot/internal/config"
	"rss_channel_bot/internal/dedup"
	"rss_channel_bot/internal/delivery"
	"rss_channel_bot/internal/fetcher"
	"rss_channel_bot/internal/registry"
	"rss_channel_bot/internal/scheduler"
	"rss_channel_bot/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	log := newLogger(cfg.LogLevel)

	if dir := filepath.Dir(cfg.DatabasePath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			log.Error("create data directory", "path", dir, "error", err)
			os.Exit(1)
		}
	}

	store, err := storage.NewSQLite(cfg.DatabasePath)
	if err != nil {
		log.Error("open database", "path", cfg.DatabasePath, "error", err)
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	reg, err := registry.Load(ctx, store)
	if err != nil {
		log.Error("load feed registry", "error", err)
		os.Exit(1)
	}

	f := fetcher.New(http.DefaultClient, cfg.FetchTimeout)

	b, err := bot.New(cfg.TelegramBotToken, reg, f, cfg, log)
	if err != nil {
		log.Error("create bot", "error", err)
		os.Exit(1)
	}

	channel := delivery.NewTelegram(b.API(), cfg.TelegramChannel, log)

	sched := scheduler.New(reg, dedup.New(store), f, channel, store, log)
	sched.SetInterval(cfg.PollInterval)
	sched.SetMaxConcurrent(cfg.MaxConcurrent)

	log.Info("starting bot", "feeds", reg.Len(), "interval", cfg.PollInterval)

	schedDone := make(chan struct{})
	go func() {
		sched.Run(ctx)
		close(schedDone)
	}()

	b.Run(ctx)

	// The scheduler gives in-flight deliveries a grace period on shutdown;
	// exiting before it returns would cut that short.
	<-schedDone

	log.Info("bot stopped")
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
