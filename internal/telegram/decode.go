package telegram

import (
	"encoding/json"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var ErrDecode = errors.New("invalid telegram update")

// Decode parses a webhook body. Updates that carry no message (edits,
// callback queries, channel posts) decode fine and have no text.
func Decode(raw []byte) (InboundUpdate, error) {
	var probe struct {
		UpdateID *int `json:"update_id"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return InboundUpdate{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if probe.UpdateID == nil {
		return InboundUpdate{}, fmt.Errorf("%w: missing update_id", ErrDecode)
	}

	var upd tgbotapi.Update
	if err := json.Unmarshal(raw, &upd); err != nil {
		return InboundUpdate{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	out := InboundUpdate{UpdateID: upd.UpdateID}
	msg := upd.Message
	if msg == nil {
		return out, nil
	}
	if msg.Chat == nil || msg.Chat.ID == 0 {
		return InboundUpdate{}, fmt.Errorf("%w: message without chat id", ErrDecode)
	}

	out.ChatID = msg.Chat.ID
	out.MessageID = msg.MessageID
	out.Text = msg.Text
	if msg.From != nil {
		out.UserID = msg.From.ID
		out.UserName = msg.From.UserName
		if out.UserName == "" {
			out.UserName = msg.From.FirstName
		}
	}
	return out, nil
}
