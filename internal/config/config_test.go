package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

var allKeys = []string{
	"TELEGRAM_BOT_TOKEN", "TELEGRAM_CHANNEL", "BOT_PASSWORD",
	"DATABASE_PATH", "LOG_LEVEL", "POLL_INTERVAL", "FETCH_TIMEOUT",
	"MAX_CONCURRENT_FETCHES",
}

func TestLoad(t *testing.T) {
	base := map[string]string{
		"TELEGRAM_BOT_TOKEN": "tok",
		"TELEGRAM_CHANNEL":   "@news",
		"BOT_PASSWORD":       "hunter2",
	}

	tests := []struct {
		name    string
		env     map[string]string
		want    *Config
		wantErr bool
	}{
		{
			name:    "missing token",
			env:     map[string]string{"TELEGRAM_CHANNEL": "@news", "BOT_PASSWORD": "x"},
			wantErr: true,
		},
		{
			name:    "missing channel",
			env:     map[string]string{"TELEGRAM_BOT_TOKEN": "tok", "BOT_PASSWORD": "x"},
			wantErr: true,
		},
		{
			name:    "missing password",
			env:     map[string]string{"TELEGRAM_BOT_TOKEN": "tok", "TELEGRAM_CHANNEL": "@news"},
			wantErr: true,
		},
		{
			name: "required only, defaults applied",
			env:  base,
			want: &Config{
				TelegramBotToken: "tok",
				TelegramChannel:  "@news",
				BotPassword:      "hunter2",
				DatabasePath:     "./data/bot.db",
				LogLevel:         "info",
				PollInterval:     15 * time.Minute,
				FetchTimeout:     30 * time.Second,
				MaxConcurrent:    4,
			},
		},
		{
			name: "all values set",
			env: map[string]string{
				"TELEGRAM_BOT_TOKEN":     "tok",
				"TELEGRAM_CHANNEL":       "-1001234",
				"BOT_PASSWORD":           "pw",
				"DATABASE_PATH":          "/tmp/bot.db",
				"LOG_LEVEL":              "debug",
				"POLL_INTERVAL":          "5m",
				"FETCH_TIMEOUT":          "10s",
				"MAX_CONCURRENT_FETCHES": "8",
			},
			want: &Config{
				TelegramBotToken: "tok",
				TelegramChannel:  "-1001234",
				BotPassword:      "pw",
				DatabasePath:     "/tmp/bot.db",
				LogLevel:         "debug",
				PollInterval:     5 * time.Minute,
				FetchTimeout:     10 * time.Second,
				MaxConcurrent:    8,
			},
		},
		{
			name:    "invalid poll interval",
			env:     merge(base, map[string]string{"POLL_INTERVAL": "soon"}),
			wantErr: true,
		},
		{
			name:    "negative poll interval",
			env:     merge(base, map[string]string{"POLL_INTERVAL": "-1m"}),
			wantErr: true,
		},
		{
			name:    "invalid worker count",
			env:     merge(base, map[string]string{"MAX_CONCURRENT_FETCHES": "0"}),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range allKeys {
				t.Setenv(k, "")
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			got, err := Load()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Load mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func merge(a, b map[string]string) map[string]string {
	out := make(map[string]string, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}
