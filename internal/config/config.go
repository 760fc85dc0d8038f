// Package config loads process settings from the environment, reading an
// optional .env file first.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sheikh-saqib/apb-demo-bank/internal/speech"
)

type Config struct {
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`
	LogMode  string `env:"LOG_MODE"  envDefault:"dev"`
	AppID    string `env:"APP_ID"    envDefault:"atlanta-peoples-bank-v2"`

	// Speech is disabled while GeminiAPIKey is empty.
	GeminiAPIKey  string        `env:"GEMINI_API_KEY"`
	SpeechBaseURL string        `env:"SPEECH_BASE_URL" envDefault:"https://generativelanguage.googleapis.com/v1beta"`
	SpeechModel   string        `env:"SPEECH_MODEL"    envDefault:"gemini-2.5-flash-preview-tts"`
	SpeechVoice   string        `env:"SPEECH_VOICE"    envDefault:"Kore"`
	SpeechTimeout time.Duration `env:"SPEECH_TIMEOUT"  envDefault:"30s"`

	NotificationTTL time.Duration `env:"NOTIFICATION_TTL" envDefault:"4s"`
	RedisAddr       string        `env:"REDIS_ADDR"`

	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTopic   string   `env:"KAFKA_TOPIC"   envDefault:"transaction_completed"`
	PostgresDSN  string   `env:"POSTGRES_DSN"`
	EventBuffer  int      `env:"EVENT_BUFFER"  envDefault:"256"`

	EnforceAdminViews bool `env:"ENFORCE_ADMIN_VIEWS" envDefault:"false"`
}

// Load reads files (".env" when none are given) into the environment
// without overriding variables already set, then parses Config. Missing
// files are skipped.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.NotificationTTL <= 0 {
		return fmt.Errorf("NOTIFICATION_TTL must be positive, got %s", c.NotificationTTL)
	}
	if c.EventBuffer <= 0 {
		return fmt.Errorf("EVENT_BUFFER must be positive, got %d", c.EventBuffer)
	}
	if c.AppID == "" {
		return errors.New("APP_ID must not be empty")
	}
	return nil
}

// Speech returns the client settings for the speech endpoint.
func (c Config) Speech() speech.Config {
	return speech.Config{
		APIKey:  c.GeminiAPIKey,
		BaseURL: c.SpeechBaseURL,
		Model:   c.SpeechModel,
		Voice:   c.SpeechVoice,
		Timeout: c.SpeechTimeout,
	}
}

