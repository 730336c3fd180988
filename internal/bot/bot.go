// Package bot implements the Telegram command surface for managing the feed
// list, gated behind a shared password.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"rss_channel_bot/internal/config"
	"rss_channel_bot/internal/fetcher"
	"rss_channel_bot/internal/registry"
)

type telegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Bot handles user commands arriving over Telegram long polling.
type Bot struct {
	api      telegramAPI
	registry *registry.Registry
	fetcher  *fetcher.Fetcher
	sessions *Sessions
	password string
	log      *slog.Logger
}

// New creates a Bot with the given Telegram token, registry and config.
func New(token string, reg *registry.Registry, f *fetcher.Fetcher, cfg *config.Config, log *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	return &Bot{
		api:      api,
		registry: reg,
		fetcher:  f,
		sessions: NewSessions(),
		password: cfg.BotPassword,
		log:      log,
	}, nil
}

// API exposes the underlying Telegram client so a delivery channel can share
// the same connection.
func (b *Bot) API() interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
} {
	return b.api
}

// Run starts the bot's long-polling loop, blocking until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update := <-updates:
			if update.Message == nil || !update.Message.IsCommand() {
				continue
			}
			b.handleCommand(ctx, update.Message)
		}
	}
}

func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.DisableWebPagePreview = true
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send reply", "chat_id", chatID, "error", err)
	}
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	cmd := msg.Command()
	args := strings.TrimSpace(msg.CommandArguments())
	chatID := msg.Chat.ID
	userID := msg.From.ID

	b.log.Debug("command", "cmd", cmd, "chat_id", chatID, "user_id", userID)

	switch cmd {
	case "start":
		b.handleStart(chatID)
	case "help":
		b.handleHelp(chatID)
	case "login":
		b.handleLogin(chatID, userID, args)
	case "logout":
		b.handleLogout(chatID, userID)
	case "addfeed":
		if !b.requireLogin(chatID, userID) {
			return
		}
		b.handleAddFeed(ctx, chatID, args)
	case "removefeed":
		if !b.requireLogin(chatID, userID) {
			return
		}
		b.handleRemoveFeed(ctx, chatID, args)
	case "listfeeds":
		if !b.requireLogin(chatID, userID) {
			return
		}
		b.handleListFeeds(chatID)
	default:
		b.reply(chatID, "Unknown command. Use /help for a list of commands.")
	}
}

// requireLogin is the auth gate in front of every feed-management command.
func (b *Bot) requireLogin(chatID, userID int64) bool {
	if b.sessions.Active(userID) {
		return true
	}
	b.reply(chatID, "This command requires you to be logged in. Use /login <password>.")
	return false
}
