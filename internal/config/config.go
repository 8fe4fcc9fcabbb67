package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config holds the non-database runtime settings for both binaries. The
// database connection settings live in internal/storage/postgres.
type Config struct {
	HTTPAddr  string `env:"HTTP_ADDR,default=:8080"`
	JWTSecret string `env:"JWT_SECRET,default=dev-secret-change-me"`

	// Shared secret admitting schedulers to the watchdog sweep endpoint.
	// Empty disables the secret path (JWT only).
	WatchdogSecret string `env:"WATCHDOG_SECRET"`

	// Base URL of the generation backend exposing the per-step endpoints.
	BackendBaseURL string `env:"GENERATION_BACKEND_URL,default=http://localhost:9000"`

	// Base URL of the batch clip renderer.
	ClipRendererURL string `env:"CLIP_RENDERER_URL,default=http://localhost:9100"`

	WatchdogTimeout  time.Duration `env:"WATCHDOG_TIMEOUT,default=15m"`
	WatchdogAttempts int           `env:"WATCHDOG_MAX_ATTEMPTS,default=3"`

	DispatchBatchSize int `env:"DISPATCH_BATCH_SIZE,default=10"`
	MaxWorkers        int `env:"MAX_WORKERS,default=10"`
}

func LoadFromEnv(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func validateConfig(cfg *Config) error {
	var errors []string

	if strings.TrimSpace(cfg.JWTSecret) == "" {
		errors = append(errors, "JWT_SECRET is required")
	}

	if strings.TrimSpace(cfg.BackendBaseURL) == "" {
		errors = append(errors, "GENERATION_BACKEND_URL is required")
	}

	if cfg.WatchdogTimeout <= 0 {
		errors = append(errors, "WATCHDOG_TIMEOUT must be positive")
	}

	if cfg.WatchdogAttempts < 1 {
		errors = append(errors, "WATCHDOG_MAX_ATTEMPTS must be at least 1")
	}

	if cfg.DispatchBatchSize < 1 {
		errors = append(errors, "DISPATCH_BATCH_SIZE must be at least 1")
	}

	if cfg.MaxWorkers < 1 {
		errors = append(errors, "MAX_WORKERS must be at least 1")
	}

	if len(errors) > 0 {
		return fmt.Errorf("%s", strings.Join(errors, "; "))
	}

	return nil
}
