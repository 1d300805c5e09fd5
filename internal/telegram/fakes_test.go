package telegram

import (
	"context"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Vovarama1992/telegram-gpt-relay/internal/ai"
)

type sent struct {
	ChatID  int64
	Channel string
	ReplyTo int
	Text    string
}

type fakePlatform struct {
	mu    sync.Mutex
	sends []sent
	calls []string

	sendErrs    []error // consumed one per send, nil entries succeed
	panicOnSend bool
	selfErr     error
	deleteErr   error
	setErr      error
	infoErr     error
	webhookURL  string
	maxConns    int
}

func (f *fakePlatform) nextSendErr() error {
	if len(f.sendErrs) == 0 {
		return nil
	}
	err := f.sendErrs[0]
	f.sendErrs = f.sendErrs[1:]
	return err
}

func (f *fakePlatform) SendToChat(_ context.Context, chatID int64, replyTo int, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "sendToChat")
	if f.panicOnSend {
		f.panicOnSend = false
		panic("send exploded")
	}
	if err := f.nextSendErr(); err != nil {
		return err
	}
	f.sends = append(f.sends, sent{ChatID: chatID, ReplyTo: replyTo, Text: text})
	return nil
}

func (f *fakePlatform) SendToChannel(_ context.Context, channel string, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "sendToChannel")
	if err := f.nextSendErr(); err != nil {
		return err
	}
	f.sends = append(f.sends, sent{Channel: channel, Text: text})
	return nil
}

func (f *fakePlatform) Self(context.Context) (Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "self")
	return Identity{ID: 42, UserName: "relay_bot", FirstName: "Relay"}, f.selfErr
}

func (f *fakePlatform) DeleteWebhook(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "deleteWebhook")
	return f.deleteErr
}

func (f *fakePlatform) SetWebhook(_ context.Context, url string, maxConnections int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "setWebhook")
	f.webhookURL = url
	f.maxConns = maxConnections
	return f.setErr
}

func (f *fakePlatform) WebhookInfo(context.Context) (tgbotapi.WebhookInfo, error) {
	if f.infoErr != nil {
		return tgbotapi.WebhookInfo{}, f.infoErr
	}
	return tgbotapi.WebhookInfo{URL: f.webhookURL, PendingUpdateCount: 2, MaxConnections: f.maxConns}, nil
}

func (f *fakePlatform) Sent() []sent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sent(nil), f.sends...)
}

type fakeCompleter struct {
	mu     sync.Mutex
	result ai.Completion
	panics bool
	texts  []string
	users  []string
}

func (f *fakeCompleter) Complete(_ context.Context, text string, userID string) ai.Completion {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts = append(f.texts, text)
	f.users = append(f.users, userID)
	if f.panics {
		panic("completer exploded")
	}
	return f.result
}
