package telegram

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/Vovarama1992/telegram-gpt-relay/internal/config"
)

// Setup resolves the bot identity and (re)registers the webhook. Any
// webhook error is returned and must stop startup. The optional channel
// announcement is best effort.
func Setup(ctx context.Context, p Platform, cfg *config.Config, logger logrus.FieldLogger) (Identity, error) {
	log := logger.WithField("component", "setup")

	me, err := p.Self(ctx)
	if err != nil {
		return Identity{}, err
	}
	log.WithFields(logrus.Fields{
		"bot_id":       me.ID,
		"bot_username": me.UserName,
	}).Info("connected to telegram")

	if err := p.DeleteWebhook(ctx); err != nil {
		return me, fmt.Errorf("clear webhook: %w", err)
	}

	url := cfg.WebhookURL()
	if err := p.SetWebhook(ctx, url, cfg.Telegram.MaxConnections); err != nil {
		return me, fmt.Errorf("register webhook: %w", err)
	}
	log.WithFields(logrus.Fields{
		"url":             url,
		"max_connections": cfg.Telegram.MaxConnections,
	}).Info("webhook registered")

	if cfg.BroadcastEnabled() && cfg.Reply.Announcement != "" {
		if err := p.SendToChannel(ctx, cfg.Telegram.ChannelID, cfg.Reply.Announcement); err != nil {
			log.WithError(err).Warn("startup announcement failed")
		}
	}

	return me, nil
}
