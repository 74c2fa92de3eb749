// Package config loads the engine configuration from the environment.
package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	Creds      CredsConfig
	Cloudinary CloudinaryConfig
	Telegram   TelegramConfig
	Payments   PaymentsConfig
	Scheduler  SchedulerConfig
}

type ServerConfig struct {
	Port         string        `env:"PORT" envDefault:"8080"`
	Env          string        `env:"APP_ENV" envDefault:"development"`
	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"10s"`
}

type DatabaseConfig struct {
	DSN             string        `env:"DATABASE_DSN,required"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"10"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"100"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"1h"`
}

type JWTConfig struct {
	Secret string        `env:"JWT_SECRET,required"`
	Expiry time.Duration `env:"JWT_EXPIRY" envDefault:"168h"`
	Issuer string        `env:"JWT_ISSUER" envDefault:"tiro"`
}

// CredsConfig holds the secret the product credential cipher derives its
// key from.
type CredsConfig struct {
	Secret string `env:"CREDENTIALS_SECRET,required"`
}

type CloudinaryConfig struct {
	CloudName string `env:"CLOUDINARY_CLOUD_NAME"`
	APIKey    string `env:"CLOUDINARY_API_KEY"`
	APISecret string `env:"CLOUDINARY_API_SECRET"`
}

func (c CloudinaryConfig) Enabled() bool {
	return c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}

type TelegramConfig struct {
	BotToken    string `env:"TELEGRAM_BOT_TOKEN,required"`
	AdminChatID int64  `env:"TELEGRAM_ADMIN_CHAT_ID,required"`
}

type PaymentsConfig struct {
	NOWPaymentsAPIKey string `env:"NOWPAYMENTS_API_KEY"`
}

type SchedulerConfig struct {
	SweepInterval time.Duration `env:"SCHEDULER_SWEEP_INTERVAL" envDefault:"5m"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, errors.Wrap(err, "parse environment")
	}
	return &cfg, nil
}
