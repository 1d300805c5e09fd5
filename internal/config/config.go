package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	WebhookPath     = "/webhook"
	TruncatedMarker = "...[truncated]"
	SuffixSeparator = "\n\n—\n"
)

type OpenAIOptions struct {
	Key         string        `env:"OPENAI_KEY,required,notEmpty"`
	BaseURL     string        `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com/v1" validate:"url"`
	Model       string        `env:"OPENAI_MODEL" envDefault:"gpt-3.5-turbo" validate:"required"`
	Temperature float32       `env:"OPENAI_TEMPERATURE" envDefault:"0.7" validate:"gte=0,lte=2"`
	MaxTokens   int           `env:"OPENAI_MAX_TOKENS" envDefault:"1500" validate:"gt=0"`
	Timeout     time.Duration `env:"OPENAI_TIMEOUT" envDefault:"30s" validate:"gt=0"`
}

type TelegramOptions struct {
	Token          string        `env:"TELEGRAM_TOKEN,required,notEmpty"`
	APIEndpoint    string        `env:"TELEGRAM_API_ENDPOINT" envDefault:"https://api.telegram.org/bot%s/%s"`
	Timeout        time.Duration `env:"TELEGRAM_TIMEOUT" envDefault:"10s" validate:"gt=0"`
	ChannelID      string        `env:"CHANNEL_ID"`
	MaxConnections int           `env:"WEBHOOK_MAX_CONNECTIONS" envDefault:"50" validate:"gte=1,lte=100"`
	MaxBodyBytes   int64         `env:"WEBHOOK_MAX_BODY_BYTES" envDefault:"1048576" validate:"gt=0"`
}

type ReplyOptions struct {
	MaxLength     int    `env:"REPLY_MAX_LENGTH" envDefault:"4000" validate:"gt=0"`
	Attribution   string `env:"REPLY_ATTRIBUTION" envDefault:"🤖 ChatGPT"`
	FailureNotice string `env:"REPLY_FAILURE_NOTICE" envDefault:"حصل خطأ، جرّب تاني" validate:"required"`
	Announcement  string `env:"STARTUP_ANNOUNCEMENT" envDefault:"✅ Bot is online."`
}

// Config is built once at startup and never mutated afterwards.
type Config struct {
	OpenAI   OpenAIOptions
	Telegram TelegramOptions
	Reply    ReplyOptions

	PublicBaseURL string `env:"PUBLIC_BASE_URL,required,notEmpty" validate:"url"`
	AdminPassword string `env:"ADMIN_PASSWORD,required,notEmpty"`
	ServerPort    int    `env:"PORT" envDefault:"8000" validate:"gt=0,lte=65535"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
}

// Error is returned when the process must refuse to start.
type Error struct {
	Missing []string
	Err     error
}

func (e *Error) Error() string {
	if len(e.Missing) > 0 {
		return "missing required configuration: " + strings.Join(e.Missing, ", ")
	}
	return "invalid configuration: " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// LoadEnv loads the given dotenv files that exist and returns how many were loaded.
func LoadEnv(envFiles []string) (int, error) {
	existing := make([]string, 0, len(envFiles))
	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			existing = append(existing, file)
		}
	}
	if len(existing) == 0 {
		return 0, nil
	}
	return len(existing), godotenv.Load(existing...)
}

// Load reads .env files (if any) and the process environment. It also
// reports how many env files were found so the caller can log it.
func Load(envFiles ...string) (*Config, int, error) {
	n, err := LoadEnv(envFiles)
	if err != nil {
		return nil, 0, err
	}
	cfg, err := Parse(env.Options{})
	if err != nil {
		return nil, n, err
	}
	return cfg, n, nil
}

// Parse builds a Config from opts. An empty Options reads os.Environ.
func Parse(opts env.Options) (*Config, error) {
	c := &Config{}
	if err := env.ParseWithOptions(c, opts); err != nil {
		return nil, wrapEnvError(err)
	}
	if err := c.Validate(); err != nil {
		return nil, &Error{Err: err}
	}
	c.PublicBaseURL = strings.TrimRight(c.PublicBaseURL, "/")
	return c, nil
}

func wrapEnvError(err error) error {
	var agg env.AggregateError
	if !errors.As(err, &agg) {
		return &Error{Err: err}
	}

	var missing []string
	for _, e := range agg.Errors {
		var notSet env.EnvVarIsNotSetError
		var empty env.EmptyEnvVarError
		switch {
		case errors.As(e, &notSet):
			missing = append(missing, notSet.Key)
		case errors.As(e, &empty):
			missing = append(missing, empty.Key)
		default:
			return &Error{Err: err}
		}
	}
	return &Error{Missing: missing, Err: err}
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	minLength := utf8.RuneCountInString(c.ReplySuffix()) + utf8.RuneCountInString(TruncatedMarker) + 1
	if c.Reply.MaxLength < minLength {
		return fmt.Errorf("REPLY_MAX_LENGTH must be at least %d, got %d", minLength, c.Reply.MaxLength)
	}
	return nil
}

func (c *Config) WebhookURL() string {
	return c.PublicBaseURL + WebhookPath
}

func (c *Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.ServerPort)
}

func (c *Config) BroadcastEnabled() bool {
	return strings.TrimSpace(c.Telegram.ChannelID) != ""
}

// ReplySuffix is appended to every successful chat reply.
func (c *Config) ReplySuffix() string {
	if c.Reply.Attribution == "" {
		return ""
	}
	return SuffixSeparator + c.Reply.Attribution
}

func (c *Config) LogrusLevel() logrus.Level {
	switch c.LogLevel {
	case "debug":
		return logrus.DebugLevel
	case "warn":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}
