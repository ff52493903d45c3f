package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Addr != ":8080" {
		t.Fatalf("expected addr :8080, got %q", cfg.Addr)
	}
	if cfg.ShutdownTimeout != 5*time.Second {
		t.Fatalf("expected 5s shutdown timeout, got %s", cfg.ShutdownTimeout)
	}
	if cfg.HistoryPath != "" {
		t.Fatalf("expected in-memory history by default, got %q", cfg.HistoryPath)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("expected info log level, got %q", cfg.LogLevel)
	}
	if cfg.HistoryLimit != 50 || cfg.HistoryCapacity != 1000 || cfg.MaxSessions != 1000 {
		t.Fatalf("unexpected limits %+v", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SUMTUTOR_ADDR", ":9090")
	t.Setenv("SUMTUTOR_HISTORY_PATH", "/tmp/history.db")
	t.Setenv("SUMTUTOR_SHUTDOWN_TIMEOUT", "250ms")
	t.Setenv("SUMTUTOR_RANDOM_PHRASES", "false")
	t.Setenv("SUMTUTOR_HISTORY_CAPACITY", "10")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":9090" || cfg.HistoryPath != "/tmp/history.db" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.ShutdownTimeout != 250*time.Millisecond {
		t.Fatalf("expected 250ms, got %s", cfg.ShutdownTimeout)
	}
	if cfg.RandomPhrases {
		t.Fatal("expected random phrases disabled")
	}
	if cfg.HistoryCapacity != 10 {
		t.Fatalf("expected history capacity 10, got %d", cfg.HistoryCapacity)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Run("non-numeric", func(t *testing.T) {
		t.Setenv("SUMTUTOR_MAX_SESSIONS", "many")
		if _, err := Load(); err == nil {
			t.Fatal("expected parse error")
		}
	})

	t.Run("zero history limit", func(t *testing.T) {
		t.Setenv("SUMTUTOR_HISTORY_LIMIT", "0")
		if _, err := Load(); err == nil {
			t.Fatal("expected validation error")
		}
	})
}
