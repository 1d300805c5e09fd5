package telegram

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Vovarama1992/telegram-gpt-relay/internal/config"
)

// SendError wraps a failed Bot API call.
type SendError struct {
	Target string
	Err    error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("telegram send to %s: %v", e.Target, e.Err)
}

func (e *SendError) Unwrap() error { return e.Err }

// redactedError hides the bot token that the library embeds in request URLs.
type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }

func (e *redactedError) Unwrap() error { return e.err }

func redact(token string, err error) error {
	if err == nil || token == "" {
		return err
	}
	msg := err.Error()
	if !strings.Contains(msg, token) {
		return err
	}
	return &redactedError{msg: strings.ReplaceAll(msg, token, "<redacted>"), err: err}
}

type TelegramOutbound struct {
	api   *tgbotapi.BotAPI
	token string
	log   logrus.FieldLogger
}

// NewTelegramOutbound connects to the Bot API. The library resolves the
// bot identity with getMe, so a bad token fails here.
func NewTelegramOutbound(opts config.TelegramOptions, logger logrus.FieldLogger) (*TelegramOutbound, error) {
	log := logger.WithField("component", "telegram")
	if err := tgbotapi.SetLogger(log); err != nil {
		return nil, err
	}

	api, err := tgbotapi.NewBotAPIWithClient(opts.Token, opts.APIEndpoint, &http.Client{Timeout: opts.Timeout})
	if err != nil {
		return nil, fmt.Errorf("connect to telegram: %w", redact(opts.Token, err))
	}
	api.Debug = false

	return &TelegramOutbound{api: api, token: opts.Token, log: log}, nil
}

func (t *TelegramOutbound) SendToChat(ctx context.Context, chatID int64, replyTo int, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if replyTo != 0 {
		msg.ReplyToMessageID = replyTo
		msg.AllowSendingWithoutReply = true
	}
	return t.send(ctx, strconv.FormatInt(chatID, 10), msg)
}

// SendToChannel accepts either a numeric chat id or an @username.
func (t *TelegramOutbound) SendToChannel(ctx context.Context, channel string, text string) error {
	channel = strings.TrimSpace(channel)
	if id, err := strconv.ParseInt(channel, 10, 64); err == nil {
		return t.send(ctx, channel, tgbotapi.NewMessage(id, text))
	}
	if !strings.HasPrefix(channel, "@") {
		channel = "@" + channel
	}
	return t.send(ctx, channel, tgbotapi.NewMessageToChannel(channel, text))
}

func (t *TelegramOutbound) send(ctx context.Context, target string, msg tgbotapi.MessageConfig) error {
	if err := ctx.Err(); err != nil {
		return &SendError{Target: target, Err: err}
	}
	if _, err := t.api.Send(msg); err != nil {
		return &SendError{Target: target, Err: redact(t.token, err)}
	}
	return nil
}

func (t *TelegramOutbound) Self(ctx context.Context) (Identity, error) {
	if err := ctx.Err(); err != nil {
		return Identity{}, err
	}
	me, err := t.api.GetMe()
	if err != nil {
		return Identity{}, fmt.Errorf("getMe: %w", redact(t.token, err))
	}
	return Identity{ID: me.ID, UserName: me.UserName, FirstName: me.FirstName}, nil
}

func (t *TelegramOutbound) DeleteWebhook(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := t.api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		return fmt.Errorf("deleteWebhook: %w", redact(t.token, err))
	}
	return nil
}

func (t *TelegramOutbound) SetWebhook(ctx context.Context, url string, maxConnections int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	wh, err := tgbotapi.NewWebhook(url)
	if err != nil {
		return fmt.Errorf("webhook url %q: %w", url, err)
	}
	wh.MaxConnections = maxConnections
	if _, err := t.api.Request(wh); err != nil {
		return fmt.Errorf("setWebhook: %w", redact(t.token, err))
	}
	return nil
}

func (t *TelegramOutbound) WebhookInfo(ctx context.Context) (tgbotapi.WebhookInfo, error) {
	if err := ctx.Err(); err != nil {
		return tgbotapi.WebhookInfo{}, err
	}
	info, err := t.api.GetWebhookInfo()
	if err != nil {
		return tgbotapi.WebhookInfo{}, fmt.Errorf("getWebhookInfo: %w", redact(t.token, err))
	}
	return info, nil
}
