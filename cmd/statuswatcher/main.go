package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/statuswatcher/internal/backoff"
	"github.com/hamed0406/statuswatcher/internal/config"
	"github.com/hamed0406/statuswatcher/internal/httpapi"
	"github.com/hamed0406/statuswatcher/internal/logging"
	"github.com/hamed0406/statuswatcher/internal/metrics"
	"github.com/hamed0406/statuswatcher/internal/probe"
	"github.com/hamed0406/statuswatcher/internal/repo/memory"
	"github.com/hamed0406/statuswatcher/internal/scheduler"
	"github.com/hamed0406/statuswatcher/internal/source/builtin"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal(err)
	}
	logger, err := logging.NewLogger(logging.Options{Dir: cfg.LogDir, Level: cfg.LogLevel})
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	sources, err := builtin.Registry(probe.NewHTTPGetter(cfg.FetchTimeout))
	if err != nil {
		logger.Fatal("source_registry_error", zap.Error(err))
	}
	store, err := memory.New(cfg.Targets...)
	if err != nil {
		logger.Fatal("target_store_error", zap.Error(err))
	}

	engine := scheduler.NewEngine(logger, store, sources,
		backoff.NewTracker(cfg.BackoffMin, cfg.BackoffMax),
		scheduler.Config{
			Workers:       cfg.Workers,
			PollInterval:  cfg.PollInterval,
			TrackInterval: cfg.TrackInterval,
			QueueTimeout:  cfg.QueueTimeout,
		})

	if cfg.StatsdAddr != "" {
		m := metrics.NewStatsd(metrics.StatsdOptions{
			Addr:     cfg.StatsdAddr,
			Instance: cfg.Instance,
			Logger:   logger,
		})
		defer m.Close()
		engine.SetMetrics(m)
		logger.Info("statsd_enabled", zap.String("addr", cfg.StatsdAddr))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.StatusAddr != "" {
		api := httpapi.NewServer(logger, engine, sources.Kinds())
		srv := &http.Server{Addr: cfg.StatusAddr, Handler: api.Router(), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			logger.Info("api_listen", zap.String("addr", cfg.StatusAddr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("api_listen_error", zap.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	logger.Info("statuswatcher_starting",
		zap.Int("targets", len(cfg.Targets)),
		zap.Int("workers", cfg.Workers),
		zap.Duration("backoff_min", cfg.BackoffMin),
		zap.Duration("backoff_max", cfg.BackoffMax),
	)
	if err := engine.Run(ctx); err != nil {
		logger.Fatal("engine_error", zap.Error(err))
	}
	logger.Info("statuswatcher_stopped")
}
