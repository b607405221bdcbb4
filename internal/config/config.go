// Package config loads client configuration from the environment. A
// .env file in the working directory is honored when present.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the deployment-time collaborators of the sync layer: the
// API base URL, the viewer identity and operational knobs.
type Config struct {
	// APIBaseURL is the campus events backend, e.g. http://localhost:8000.
	APIBaseURL string `env:"CAMPUS_API_URL" envDefault:"http://localhost:8000"`

	// ViewerID is the signed-in account id. Empty means anonymous
	// browsing: per-viewer flags stay false and mutations are rejected.
	ViewerID string `env:"CAMPUS_USER_ID"`

	// HTTPTimeout bounds every request. There are no retries.
	HTTPTimeout time.Duration `env:"CAMPUS_HTTP_TIMEOUT" envDefault:"10s"`

	// LogLevel is one of DEBUG, INFO, WARN, ERROR.
	LogLevel string `env:"CAMPUS_LOG_LEVEL" envDefault:"INFO"`
}

// Load reads the optional .env file and parses the environment.
func Load() (Config, error) {
	// Missing .env is fine; explicit environment still applies.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing environment: %w", err)
	}
	if cfg.APIBaseURL == "" {
		return Config{}, fmt.Errorf("CAMPUS_API_URL must not be empty")
	}
	return cfg, nil
}
