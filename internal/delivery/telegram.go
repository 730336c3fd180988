package delivery

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"
)

const maxSendRetries = 3

type telegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram delivers messages to a single Telegram channel, identified either
// by numeric chat ID or @username. Sends are rate limited and transient
// failures are retried a bounded number of times with exponential backoff.
type Telegram struct {
	api         telegramAPI
	chatID      int64
	channelName string
	limiter     *rate.Limiter
	retryWait   time.Duration
	log         *slog.Logger
}

// NewTelegram creates a channel for the given target ("@name" or a numeric
// chat ID).
func NewTelegram(api telegramAPI, channel string, log *slog.Logger) *Telegram {
	t := &Telegram{
		api:       api,
		limiter:   rate.NewLimiter(rate.Every(time.Second), 5),
		retryWait: 500 * time.Millisecond,
		log:       log,
	}
	if id, err := strconv.ParseInt(channel, 10, 64); err == nil {
		t.chatID = id
	} else {
		t.channelName = channel
		if !strings.HasPrefix(t.channelName, "@") {
			t.channelName = "@" + t.channelName
		}
	}
	return t
}

// Send delivers one message. The returned error is always a *Error whose
// kind tells the caller whether the failure was transient (retries already
// exhausted) or permanent (never retried).
func (t *Telegram) Send(ctx context.Context, text string) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return &Error{Kind: Transient, Err: err}
	}

	op := func() error {
		if err := ctx.Err(); err != nil {
			return backoff.Permanent(err)
		}
		_, err := t.api.Send(t.message(text))
		if err == nil {
			return nil
		}
		if classify(err) == Permanent {
			return backoff.Permanent(err)
		}
		t.log.Warn("transient send failure, retrying", "error", err)
		return err
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = t.retryWait
	bo.MaxInterval = 10 * time.Second

	err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(bo, maxSendRetries), ctx))
	if err != nil {
		return &Error{Kind: classify(err), Err: err}
	}
	return nil
}

func (t *Telegram) message(text string) tgbotapi.MessageConfig {
	var msg tgbotapi.MessageConfig
	if t.channelName != "" {
		msg = tgbotapi.NewMessageToChannel(t.channelName, text)
	} else {
		msg = tgbotapi.NewMessage(t.chatID, text)
	}
	msg.DisableWebPagePreview = true
	return msg
}

// classify maps a Telegram API error onto the transient/permanent taxonomy.
// Rate limits, server-side errors and plain network failures are retryable;
// client errors such as a missing channel or revoked rights are not.
func classify(err error) ErrorKind {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return Transient
	}
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusTooManyRequests:
			return Transient
		case apiErr.Code >= 500:
			return Transient
		default:
			return Permanent
		}
	}
	// Transport-level failure, no API verdict.
	return Transient
}
