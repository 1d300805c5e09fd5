package telegram

import (
	"context"
	"crypto/subtle"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

var (
	ErrUnauthorized      = errors.New("invalid password")
	ErrBroadcastDisabled = errors.New("no channel configured")
)

type BroadcastRequest struct {
	Text     string `json:"text" validate:"required"`
	Password string `json:"password"`
}

type Broadcaster struct {
	outbound Outbound
	password string
	channel  string
	validate *validator.Validate
	log      logrus.FieldLogger
}

func NewBroadcaster(outbound Outbound, password, channel string, logger logrus.FieldLogger) *Broadcaster {
	return &Broadcaster{
		outbound: outbound,
		password: password,
		channel:  channel,
		validate: validator.New(),
		log:      logger.WithField("component", "broadcast"),
	}
}

func (b *Broadcaster) Enabled() bool {
	return b.channel != ""
}

// Broadcast checks the password first, then whether a channel is set, and
// only then sends. A validator.ValidationErrors is returned for empty text.
func (b *Broadcaster) Broadcast(ctx context.Context, req BroadcastRequest) error {
	if subtle.ConstantTimeCompare([]byte(req.Password), []byte(b.password)) != 1 {
		b.log.Warn("announcement rejected: bad password")
		return ErrUnauthorized
	}
	if !b.Enabled() {
		return ErrBroadcastDisabled
	}
	if err := b.validate.Struct(req); err != nil {
		return err
	}

	if err := b.outbound.SendToChannel(ctx, b.channel, req.Text); err != nil {
		b.log.WithError(err).Error("announcement send failed")
		return err
	}
	b.log.WithField("channel", b.channel).Info("announcement sent")
	return nil
}
