package ai

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"

	"github.com/Vovarama1992/telegram-gpt-relay/internal/config"
)

type OpenAIClient struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	timeout     time.Duration
	log         logrus.FieldLogger
}

func NewOpenAIClient(opts config.OpenAIOptions, logger logrus.FieldLogger) *OpenAIClient {
	cfg := openai.DefaultConfig(opts.Key)
	cfg.BaseURL = opts.BaseURL
	cfg.HTTPClient = &http.Client{Timeout: opts.Timeout}

	// temperature is omitempty in go-openai; a zero value would fall back
	// to the provider default instead of greedy sampling.
	temperature := opts.Temperature
	if temperature == 0 {
		temperature = math.SmallestNonzeroFloat32
	}

	return &OpenAIClient{
		client:      openai.NewClientWithConfig(cfg),
		model:       opts.Model,
		temperature: temperature,
		maxTokens:   opts.MaxTokens,
		timeout:     opts.Timeout,
		log:         logger.WithField("component", "ai"),
	}
}

// Complete makes exactly one upstream call. Failures are logged and
// returned in Completion.Err; they are never retried.
func (c *OpenAIClient) Complete(ctx context.Context, text string, userID string) Completion {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		User:        userID,
	})
	log := c.log.WithFields(logrus.Fields{
		"model":       c.model,
		"user_id":     userID,
		"duration_ms": time.Since(start).Milliseconds(),
	})
	if err != nil {
		log.WithError(err).Error("completion request failed")
		return Failed(fmt.Errorf("openai: %w", err))
	}

	if len(resp.Choices) == 0 {
		log.Error("completion returned no choices")
		return Failed(ErrEmptyCompletion)
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		log.Error("completion returned empty content")
		return Failed(ErrEmptyCompletion)
	}

	log.WithField("completion_tokens", resp.Usage.CompletionTokens).Debug("completion received")
	return Completion{Text: content}
}
