package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"sumtutor/internal/calculator"
	"sumtutor/internal/config"
	"sumtutor/internal/observability"
	"sumtutor/internal/server"
	"sumtutor/internal/session"
)

func main() {

	ctx := context.Background()

	if err := loadDotEnv(); err != nil {
		panic(err)
	}

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	// Logger
	err = observability.InitLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer observability.SyncLogger()

	// Tracing
	traceShutdown, err := observability.InitTracing(ctx)
	if err != nil {
		panic(err)
	}
	defer traceShutdown(ctx)

	// Metrics
	metricShutdown, err := initMetrics(ctx)
	if err != nil {
		panic(err)
	}
	defer metricShutdown(ctx)

	// Logs over OTLP
	if cfg.OTLPLogs {
		logShutdown, err := observability.InitLogging(ctx)
		if err != nil {
			panic(err)
		}
		defer logShutdown(ctx)
	}

	// History
	store, err := openHistory(cfg)
	if err != nil {
		observability.Logger.Fatal("opening history store", zap.Error(err), zap.String("path", cfg.HistoryPath))
	}
	defer store.Close()

	// Sessions
	narrator := newNarrator(cfg)
	sessions := session.NewRegistry(cfg.MaxSessions, narrator)
	if err := observability.RegisterGaugeFunc(prometheus.DefaultRegisterer, "live_sessions",
		"Tutoring sessions currently held in memory.",
		func() float64 { return float64(sessions.Len()) },
	); err != nil {
		panic(err)
	}

	// Router
	router := server.NewRouter(calculator.NewService(sessions, store, narrator, cfg.HistoryLimit))

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		observability.Logger.Info("server started",
			zap.String("addr", cfg.Addr),
			zap.Bool("persistent_history", cfg.HistoryPath != ""),
			zap.Int("max_sessions", cfg.MaxSessions),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			observability.Logger.Fatal("server stopped", zap.Error(err))
		}
	}()

	waitForShutdown(srv, cfg.ShutdownTimeout)
}

func waitForShutdown(srv *http.Server, timeout time.Duration) {

	stop := make(chan os.Signal, 1)

	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		observability.Logger.Warn("graceful shutdown failed", zap.Error(err))
	}
}
