package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime settings for the CLI and the stub server.
type Config struct {
	Environment string

	API     APIConfig
	State   StateConfig
	Stub    StubConfig
	Logging LoggingConfig
}

// APIConfig configures the agency backend the client talks to.
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// StateConfig controls where the persisted session lives on disk.
type StateConfig struct {
	Dir string
}

// StubConfig configures the development stub server.
type StubConfig struct {
	Addr     string
	RedisURL string
}

// LoggingConfig controls log verbosity and encoding.
type LoggingConfig struct {
	Level  string
	Format string
}

// Load reads configuration from the environment, with an optional .env file
// in the working directory. Environment variables win over .env entries.
func Load() (*Config, error) {
	// Missing .env is fine; godotenv only errors on unreadable files
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	}

	stateDir := getEnv("AGENCYDESK_STATE_DIR", "")
	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		stateDir = filepath.Join(home, ".agencydesk")
	}

	cfg := &Config{
		Environment: getEnv("AGENCYDESK_ENV", "development"),
		API: APIConfig{
			BaseURL: getEnv("AGENCYDESK_API_URL", "http://localhost:4000/api"),
			Timeout: getDurationEnv("AGENCYDESK_API_TIMEOUT", 30*time.Second),
		},
		State: StateConfig{
			Dir: stateDir,
		},
		Stub: StubConfig{
			Addr:     getEnv("AGENCYDESK_STUB_ADDR", ":4000"),
			RedisURL: getEnv("AGENCYDESK_STUB_REDIS_URL", ""),
		},
		Logging: LoggingConfig{
			Level:  getEnv("AGENCYDESK_LOG_LEVEL", "info"),
			Format: getEnv("AGENCYDESK_LOG_FORMAT", "console"),
		},
	}

	return cfg, nil
}

// IsProduction reports whether the production profile is active.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
