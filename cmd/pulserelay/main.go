package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"pulserelay/internal/config"
	"pulserelay/internal/core"
	"pulserelay/internal/domain"
	"pulserelay/internal/logger"
	"pulserelay/internal/poller"
	"pulserelay/internal/transport/rest"
	"pulserelay/internal/transport/websocket"
	"pulserelay/internal/workers"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load(":9100")
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	proc := core.NewProcessor(cfg.MaxAge, log)

	hub := websocket.NewHub(log)
	go hub.Run()

	upstream := poller.New(cfg.UpstreamURL, cfg.RequestTimeout, proc, log)
	upstream.OnAccept(func(_ domain.Snapshot) {
		if sample, ok := proc.LatestWithDerived(); ok {
			hub.Emit("metrics.updated", sample)
		}
	})

	sched := workers.NewScheduler(log)
	sched.RunByDuration(ctx, cfg.PollInterval, upstream)

	router := rest.NewRelayRouter(&rest.RelayDeps{
		Metrics: rest.NewMetricsHandler(proc),
		WS:      websocket.NewHandler(hub, log),
	})

	srv := rest.NewServer(router, cfg.Address)

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting http server", "address", cfg.Address, "upstream", cfg.UpstreamURL)
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
