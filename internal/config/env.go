package config

import (
	"fmt"
	"os"
	"strconv"
)

// Environment variables consulted by FromEnv.
const (
	EnvDatabaseURL = "DATABASE_URL"
	EnvMaxChars    = "JOB_SUMMARIZER_MAX_CHARS"
	EnvWorkers     = "JOB_SUMMARIZER_WORKERS"
)

// FromEnv returns a Config populated from environment variables.
// Unset variables leave the corresponding field zero so that it can be
// merged with file values and defaults.
func FromEnv() (Config, error) {
	var cfg Config
	cfg.DatabaseURL = os.Getenv(EnvDatabaseURL)

	maxChars, err := intFromEnv(EnvMaxChars)
	if err != nil {
		return Config{}, err
	}
	cfg.MaxChars = maxChars

	workers, err := intFromEnv(EnvWorkers)
	if err != nil {
		return Config{}, err
	}
	cfg.Workers = workers

	return cfg, nil
}

func intFromEnv(name string) (int, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return 0, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %d", name, v)
	}
	return v, nil
}
