package config

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080" validate:"required,numeric"`
	Env      string `env:"ENV,       default=development" validate:"oneof=development staging production test"`
	LogLevel string `env:"LOG_LEVEL, default=info" validate:"oneof=trace debug info warn warning error"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=15s" validate:"gt=0"`

	DB     DBConfig
	Worker WorkerConfig
	Redis  RedisConfig
}

type DBConfig struct {
	Driver       string        `env:"DB_DRIVER,         default=sqlite" validate:"oneof=postgres sqlite"`
	URL          string        `env:"DATABASE_URL,      default=users.db" validate:"required"`
	MaxOpenConns int           `env:"DB_MAX_OPEN_CONNS, default=10" validate:"min=1"`
	QueryTimeout time.Duration `env:"QUERY_TIMEOUT,     default=5s" validate:"gt=0"`
}

type WorkerConfig struct {
	Count     int    `env:"WORKER_COUNT,   default=8" validate:"min=1"`
	QueueSize int    `env:"QUEUE_SIZE,     default=256" validate:"min=1"`
	Overflow  string `env:"QUEUE_OVERFLOW, default=block" validate:"oneof=block reject drop_oldest"`
}

// RedisConfig configures the resource cache. An empty Addr disables it.
type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR"`
	DB       int           `env:"REDIS_DB,  default=0" validate:"min=0"`
	CacheTTL time.Duration `env:"CACHE_TTL, default=1m" validate:"gt=0"`
}

// Pretty reports whether logs should use the human-friendly console format.
func (c *Config) Pretty() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads configuration through l and validates it.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: l,
	}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config: invalid configuration: %w", err)
	}
	return &cfg, nil
}
