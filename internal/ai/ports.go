package ai

import (
	"context"
	"errors"
)

var ErrEmptyCompletion = errors.New("completion has no content")

// Completer is the language model boundary. It knows nothing about Telegram.
type Completer interface {
	Complete(ctx context.Context, text string, userID string) Completion
}

// Completion is either a reply text or the reason there is none.
type Completion struct {
	Text string
	Err  error
}

func (c Completion) OK() bool {
	return c.Err == nil
}

func Failed(err error) Completion {
	return Completion{Err: err}
}
