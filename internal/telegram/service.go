package telegram

import (
	"context"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/Vovarama1992/telegram-gpt-relay/internal/ai"
	"github.com/Vovarama1992/telegram-gpt-relay/internal/config"
)

type service struct {
	ai            ai.Completer
	outbound      Outbound
	suffix        string
	maxLength     int
	failureNotice string
	log           logrus.FieldLogger
}

func NewService(cfg *config.Config, aiClient ai.Completer, outbound Outbound, logger logrus.FieldLogger) Service {
	return &service{
		ai:            aiClient,
		outbound:      outbound,
		suffix:        cfg.ReplySuffix(),
		maxLength:     cfg.Reply.MaxLength,
		failureNotice: cfg.Reply.FailureNotice,
		log:           logger.WithField("component", "relay"),
	}
}

func (s *service) HandleIncoming(ctx context.Context, u InboundUpdate) (out Outcome) {
	log := s.log.WithFields(logrus.Fields{
		"update_id": u.UpdateID,
		"chat_id":   u.ChatID,
		"user":      u.UserName,
	})

	// Updates without text are ignored; see DESIGN.md.
	if !u.HasText() {
		log.Debug("ignoring update without text")
		return OutcomeIgnored
	}

	defer func() {
		if r := recover(); r != nil {
			log.WithError(fmt.Errorf("panic: %v", r)).Error("message handler panicked")
			out = s.sendFailure(ctx, log, u)
		}
	}()

	var userID string
	if u.UserID != 0 {
		userID = strconv.FormatInt(u.UserID, 10)
	}

	res := s.ai.Complete(ctx, u.Text, userID)
	if !res.OK() {
		log.WithError(res.Err).Warn("no completion, sending failure notice")
		return s.sendFailure(ctx, log, u)
	}

	reply := FormatReply(res.Text, s.suffix, s.maxLength)
	if err := s.outbound.SendToChat(ctx, u.ChatID, u.MessageID, reply); err != nil {
		log.WithError(err).Error("reply send failed")
		return s.sendFailure(ctx, log, u)
	}

	log.Info("reply sent")
	return OutcomeReplied
}

func (s *service) sendFailure(ctx context.Context, log logrus.FieldLogger, u InboundUpdate) Outcome {
	if err := s.outbound.SendToChat(ctx, u.ChatID, u.MessageID, s.failureNotice); err != nil {
		log.WithError(err).Error("failure notice send failed")
		return OutcomeSendFailed
	}
	return OutcomeFallback
}
