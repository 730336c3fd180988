// Package config handles application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the application configuration.
type Config struct {
	TelegramBotToken string
	TelegramChannel  string
	BotPassword      string
	DatabasePath     string
	LogLevel         string
	PollInterval     time.Duration
	FetchTimeout     time.Duration
	MaxConcurrent    int
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	channel := os.Getenv("TELEGRAM_CHANNEL")
	if channel == "" {
		return nil, fmt.Errorf("TELEGRAM_CHANNEL is required")
	}

	password := os.Getenv("BOT_PASSWORD")
	if password == "" {
		return nil, fmt.Errorf("BOT_PASSWORD is required")
	}

	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dbPath = "./data/bot.db"
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	pollInterval, err := durationEnv("POLL_INTERVAL", 15*time.Minute)
	if err != nil {
		return nil, err
	}

	fetchTimeout, err := durationEnv("FETCH_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}

	maxConcurrent := 4
	if raw := os.Getenv("MAX_CONCURRENT_FETCHES"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("MAX_CONCURRENT_FETCHES must be a positive integer, got %q", raw)
		}
		maxConcurrent = n
	}

	return &Config{
		TelegramBotToken: token,
		TelegramChannel:  channel,
		BotPassword:      password,
		DatabasePath:     dbPath,
		LogLevel:         logLevel,
		PollInterval:     pollInterval,
		FetchTimeout:     fetchTimeout,
		MaxConcurrent:    maxConcurrent,
	}, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q in %s: %w", raw, key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %q", key, raw)
	}
	return d, nil
}
