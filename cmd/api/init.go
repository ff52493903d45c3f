package main

import (
	"context"

	"sumtutor/internal/addition"
	"sumtutor/internal/calculator"
	"sumtutor/internal/config"
	"sumtutor/internal/history"
	"sumtutor/internal/history/sqlite"
	"sumtutor/internal/observability"
)

// initMetrics initialises the meter provider and the calculator's
// instruments.
func initMetrics(ctx context.Context) (func(context.Context) error, error) {
	shutdown, err := observability.InitMetrics(ctx)
	if err != nil {
		return nil, err
	}

	if err := calculator.InitMetrics(); err != nil {
		return nil, err
	}

	return shutdown, nil
}

// openHistory picks SQLite when a path is configured and memory otherwise.
func openHistory(cfg config.Config) (history.Store, error) {
	if cfg.HistoryPath == "" {
		return history.NewMemoryStore(cfg.HistoryCapacity), nil
	}
	return sqlite.Open(cfg.HistoryPath)
}

func newNarrator(cfg config.Config) addition.Narrator {
	if cfg.RandomPhrases {
		return addition.Narrator{Pick: addition.RandomPicker}
	}
	return addition.Narrator{Pick: addition.RotatingPicker}
}
