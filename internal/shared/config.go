package shared

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const (
	ModePolling = "polling"
	ModeWebhook = "webhook"
)

type Config struct {
	AppEnv      string
	LogLevel    string
	BotToken    string
	ModeratorID int64 // 0 = not configured
	Mode        string
	WebhookURL  string
	HTTPAddr    string
	RedisAddr   string // empty disables the identity cache
	RedisDB     int
	RedisPass   string
	IdentityTTL time.Duration
	Workers     int
	SendRPS     int
	PollTimeout time.Duration
}

// Load reads the environment, seeding it from ./.env when present.
func Load() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Msg("failed to load .env file")
	}

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("not an integer, using default")
		}
		return def
	}
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		LogLevel:    env("LOG_LEVEL", "info"),
		BotToken:    env("BOT_TOKEN", ""),
		Mode:        env("BOT_MODE", ModePolling),
		WebhookURL:  env("WEBHOOK_URL", ""),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		RedisAddr:   env("REDIS_ADDR", ""),
		RedisPass:   env("REDIS_PASSWORD", ""),
		RedisDB:     atoi("REDIS_DB", 0),
		IdentityTTL: time.Duration(atoi("IDENTITY_CACHE_TTL_SECONDS", 600)) * time.Second,
		Workers:     atoi("HANDLER_WORKERS", 32),
		SendRPS:     atoi("TELEGRAM_SEND_RPS", 25),
		PollTimeout: time.Duration(atoi("POLL_TIMEOUT_SECONDS", 60)) * time.Second,
	}
	if v := os.Getenv("ADMIN_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			log.Warn().Str("value", v).Msg("ADMIN_ID is not a chat id; reviews will not reach a moderator")
		}
		c.ModeratorID = id
	}
	return c
}

// Validate reports configuration the bot cannot start with.
func (c Config) Validate() error {
	if c.BotToken == "" {
		return errors.New("BOT_TOKEN is not set")
	}
	switch c.Mode {
	case ModePolling:
	case ModeWebhook:
		if c.WebhookURL == "" {
			return errors.New("WEBHOOK_URL is required in webhook mode")
		}
	default:
		return errors.New("BOT_MODE must be polling or webhook")
	}
	if c.Workers <= 0 {
		return errors.New("HANDLER_WORKERS must be positive")
	}
	return nil
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
