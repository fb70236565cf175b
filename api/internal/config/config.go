package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root application configuration shared by both entrypoints.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Telegram TelegramConfig `yaml:"telegram"`
	Gemini   GeminiConfig   `yaml:"gemini"`
	OpenAI   OpenAIConfig   `yaml:"openai"`
	Chat     ChatConfig     `yaml:"chat"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig holds HTTP server settings (healthz, webhook, JSON API).
type ServerConfig struct {
	Host string `yaml:"host" env:"SERVER_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"PORT"        env-default:"8080"`
}

// DatabaseConfig holds Postgres connection settings. DSN may be left empty;
// the bot entrypoint can assemble it from POSTGRES_* variables instead.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"               env:"DATABASE_URL"`
	MaxConns        int32         `yaml:"max_conns"         env:"DATABASE_MAX_CONNS"         env-default:"10"`
	MinConns        int32         `yaml:"min_conns"         env:"DATABASE_MIN_CONNS"         env-default:"2"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime" env:"DATABASE_MAX_CONN_LIFETIME" env-default:"1h"`
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token" env:"TELEGRAM_BOT_TOKEN"`
	// WebhookURL switches the bot to webhook mode, e.g. https://<app>.koyeb.app.
	// Empty means long polling.
	WebhookURL string `yaml:"webhook_url" env:"WEBHOOK_URL"`
}

type GeminiConfig struct {
	APIKey string `yaml:"api_key" env:"GEMINI_API_KEY"`
	Model  string `yaml:"model"   env:"GEMINI_MODEL" env-default:"gemini-2.5-flash"`
}

type OpenAIConfig struct {
	APIKey string `yaml:"api_key" env:"OPENAI_API_KEY"`
	Model  string `yaml:"model"   env:"OPENAI_MODEL" env-default:"gpt-4o-mini"`
}

// ChatConfig holds conversation and hint pipeline knobs.
type ChatConfig struct {
	// HistoryLimit caps how many stored turns are replayed to the model.
	HistoryLimit int `yaml:"history_limit" env:"CHAT_HISTORY_LIMIT" env-default:"40"`
	// HintCacheTTL is how long cached hints stay fresh; 0 disables the age check.
	HintCacheTTL time.Duration `yaml:"hint_cache_ttl" env:"HINT_CACHE_TTL" env-default:"24h"`
	// DefaultLevel is the proficiency level for new sessions (1..5).
	DefaultLevel int `yaml:"default_level" env:"CHAT_DEFAULT_LEVEL" env-default:"3"`
}

type LogConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
}

// Validate checks the settings every entrypoint needs. Entrypoint-specific
// requirements (bot token, DSN) are checked by the entrypoints themselves.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Gemini.APIKey) == "" {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}
	if c.Chat.HistoryLimit <= 0 {
		return fmt.Errorf("chat history limit must be positive, got %d", c.Chat.HistoryLimit)
	}
	if c.Chat.DefaultLevel < 1 || c.Chat.DefaultLevel > 5 {
		return fmt.Errorf("default level must be in 1..5, got %d", c.Chat.DefaultLevel)
	}
	return nil
}
