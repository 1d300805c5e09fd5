package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// InboundUpdate is the normalized form of one webhook delivery.
type InboundUpdate struct {
	UpdateID  int
	ChatID    int64
	MessageID int
	UserID    int64
	UserName  string
	Text      string
}

func (u InboundUpdate) HasText() bool {
	return u.ChatID != 0 && u.Text != ""
}

type Identity struct {
	ID        int64
	UserName  string
	FirstName string
}

type Outbound interface {
	SendToChat(ctx context.Context, chatID int64, replyTo int, text string) error
	SendToChannel(ctx context.Context, channel string, text string) error
}

// Platform is everything the relay needs from the Bot API.
type Platform interface {
	Outbound
	Self(ctx context.Context) (Identity, error)
	DeleteWebhook(ctx context.Context) error
	SetWebhook(ctx context.Context, url string, maxConnections int) error
	WebhookInfo(ctx context.Context) (tgbotapi.WebhookInfo, error)
}

type Outcome string

const (
	OutcomeIgnored    Outcome = "ignored"
	OutcomeReplied    Outcome = "replied"
	OutcomeFallback   Outcome = "fallback"
	OutcomeSendFailed Outcome = "send_failed"
)

// Service handles one update end to end. It never returns an error: every
// failure is turned into the failure notice or logged.
type Service interface {
	HandleIncoming(ctx context.Context, u InboundUpdate) Outcome
}
