// Package config provides configuration loading and validation utilities.
package config

import "time"

// Config holds runtime configuration for the arbitrage calculator bot.
type Config struct {
	AppEnv string `mapstructure:"-"`

	Bot    BotConfig    `mapstructure:"bot"`
	Server ServerConfig `mapstructure:"server"`
	Bridge BridgeConfig `mapstructure:"bridge"`
	Log    LogConfig    `mapstructure:"log"`
	Sentry SentryConfig `mapstructure:"sentry"`
}

// BotConfig carries the platform credentials. The process cannot serve
// traffic without a token.
type BotConfig struct {
	Token      string `mapstructure:"token" validate:"required"`
	WebhookURL string `mapstructure:"webhook_url" validate:"omitempty,url"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port            string        `mapstructure:"port" validate:"required"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Addr returns the listen address for the HTTP server.
func (c ServerConfig) Addr() string {
	return ":" + c.Port
}

// BridgeConfig sizes the processing runtime's worker pool.
type BridgeConfig struct {
	Workers   int `mapstructure:"workers" validate:"min=1"`
	QueueSize int `mapstructure:"queue_size" validate:"min=1"`
}

// LogConfig configures structured logging output.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format" validate:"omitempty,oneof=json text"`
	File   string `mapstructure:"file"`
}

// SentryConfig toggles error reporting.
type SentryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	DSN     string `mapstructure:"dsn" validate:"required_if=Enabled true"`
}

// IdempotencyTTL is how long processed update IDs are remembered.
const IdempotencyTTL = 10 * time.Minute
