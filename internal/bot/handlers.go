package bot

import (
	"context"
	"errors"
	"fmt"

	"rss_channel_bot/internal/model"
	"rss_channel_bot/internal/registry"
)

func (b *Bot) handleStart(chatID int64) {
	b.reply(chatID, `Hi! I forward new RSS posts to the channel.

Available commands:
/login <password> — log in to use the bot
/logout — log out
/addfeed <url> <name> — add a new RSS feed (requires login)
/removefeed <url> — remove an RSS feed (requires login)
/listfeeds — list all configured feeds (requires login)`)
}

func (b *Bot) handleHelp(chatID int64) {
	b.reply(chatID, `Feed management (requires /login):
/addfeed <url> <name> — add a new RSS feed
/removefeed <url> — remove an RSS feed
/listfeeds — list all configured feeds

Session:
/login <password> — log in
/logout — log out`)
}

func (b *Bot) handleLogin(chatID, userID int64, args string) {
	if args == "" {
		b.reply(chatID, "Please provide the password. Usage: /login <password>")
		return
	}
	if !checkPassword(args, b.password) {
		b.log.Warn("failed login attempt", "user_id", userID)
		b.reply(chatID, "Incorrect password.")
		return
	}
	b.sessions.Login(userID)
	b.reply(chatID, "You are now logged in.")
}

func (b *Bot) handleLogout(chatID, userID int64) {
	if b.sessions.Logout(userID) {
		b.reply(chatID, "You have been logged out.")
		return
	}
	b.reply(chatID, "You are not currently logged in.")
}

func (b *Bot) handleAddFeed(ctx context.Context, chatID int64, args string) {
	url, name, err := ParseAddFeedArgs(args)
	if err != nil {
		b.reply(chatID, err.Error())
		return
	}

	// Validate before registering: a feed that cannot be fetched now would
	// only ever produce poll errors.
	if _, err := b.fetcher.Fetch(ctx, model.Feed{URL: url}); err != nil {
		b.reply(chatID, fmt.Sprintf("Invalid RSS feed URL or feed not accessible: %v", err))
		return
	}

	feed, err := b.registry.Add(ctx, url, name)
	if err != nil {
		if errors.Is(err, registry.ErrDuplicateFeed) {
			b.reply(chatID, fmt.Sprintf("Feed %s is already registered.", url))
			return
		}
		b.reply(chatID, fmt.Sprintf("Failed to save feed: %v", err))
		return
	}

	b.reply(chatID, fmt.Sprintf("Successfully added feed: %s", feed.Name))
}

func (b *Bot) handleRemoveFeed(ctx context.Context, chatID int64, args string) {
	url, err := ParseURLArg(args)
	if err != nil {
		b.reply(chatID, "Please provide the URL of the feed to remove.\nUsage: /removefeed <url>")
		return
	}

	if err := b.registry.Remove(ctx, url); err != nil {
		if errors.Is(err, registry.ErrFeedNotFound) {
			b.reply(chatID, "Feed not found. Use /listfeeds to see available feeds.")
			return
		}
		b.reply(chatID, fmt.Sprintf("Failed to remove feed: %v", err))
		return
	}

	b.reply(chatID, fmt.Sprintf("Successfully removed feed: %s", url))
}

func (b *Bot) handleListFeeds(chatID int64) {
	b.reply(chatID, FormatFeedList(b.registry.Snapshot()))
}
