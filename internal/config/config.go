// Package config loads service settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the sumtutor service settings.
type Config struct {
	Addr            string        `env:"SUMTUTOR_ADDR"             envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"SUMTUTOR_SHUTDOWN_TIMEOUT" envDefault:"5s"`
	// HistoryPath selects the SQLite history file; empty keeps history in memory.
	HistoryPath  string `env:"SUMTUTOR_HISTORY_PATH"`
	HistoryLimit int    `env:"SUMTUTOR_HISTORY_LIMIT" envDefault:"50"`
	// HistoryCapacity caps the in-memory history; SQLite history is not capped.
	HistoryCapacity int `env:"SUMTUTOR_HISTORY_CAPACITY" envDefault:"1000"`
	MaxSessions     int `env:"SUMTUTOR_MAX_SESSIONS"     envDefault:"1000"`
	// RandomPhrases varies encouragement phrases instead of rotating them.
	RandomPhrases bool   `env:"SUMTUTOR_RANDOM_PHRASES" envDefault:"true"`
	OTLPLogs      bool   `env:"SUMTUTOR_OTLP_LOGS"      envDefault:"false"`
	LogLevel      string `env:"SUMTUTOR_LOG_LEVEL"      envDefault:"info"`
}

// Load parses Config from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.HistoryLimit <= 0 {
		return Config{}, fmt.Errorf("SUMTUTOR_HISTORY_LIMIT must be positive, got %d", cfg.HistoryLimit)
	}
	return cfg, nil
}
