package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"pulserelay/internal/config"
	"pulserelay/internal/filecache"
	"pulserelay/internal/logger"
	"pulserelay/internal/transport/rest"
	"pulserelay/internal/workers"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load(":9000")
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	cache := filecache.New(cfg.MetricsFile, cfg.EventsFile, cfg.RefreshInterval, log)

	// First scheduler run loads the initial cache before any request
	// can observe it empty for long.
	sched := workers.NewScheduler(log)
	sched.RunByDuration(ctx, cfg.RefreshInterval, cache)

	router := rest.NewFileRelayRouter(&rest.FileRelayDeps{
		Files: rest.NewFileRelayHandler(cache),
	})

	srv := rest.NewServer(router, cfg.Address)

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting http server", "address", cfg.Address, "metrics_file", cfg.MetricsFile)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("http server shutdown error", "error", err)
		}

	case err := <-errCh:
		log.Error("http server error", "error", err)
	}

	log.Info("server stopped")
}
