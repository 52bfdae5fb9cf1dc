package config

import (
	"context"
	"errors"
	"log"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Config is the full runtime configuration, populated from the environment.
type Config struct {
	Port     string `env:"PORT, default=8080"`
	Env      string `env:"ENV, default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// DatabaseURL is a Postgres connection string.
	DatabaseURL string `env:"DB_CONNECTION_STRING"`

	JWTSecret string `env:"JWT_SECRET"`

	// AdminCode guards the registration endpoint; accounts can only be
	// created by someone holding it.
	AdminCode string `env:"ADMIN_CODE"`

	RateLimitPerMinute int `env:"RATE_LIMIT_PER_MINUTE, default=100"`

	// AllowedOrigins is the CORS whitelist. Empty means any origin, which
	// is only acceptable in development.
	AllowedOrigins []string `env:"ALLOWED_ORIGINS"`
}

// Load reads .env (when present) and the process environment.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, continuing with system environment variables")
	}

	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, err
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("missing DB_CONNECTION_STRING in environment variables")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("missing JWT_SECRET in environment variables")
	}
	if cfg.AdminCode == "" {
		return nil, errors.New("missing ADMIN_CODE in environment variables")
	}

	return &cfg, nil
}
