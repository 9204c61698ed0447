package main

import (
	"context"
	"os/signal"
	"syscall"

	"pulserelay/internal/collector"
	"pulserelay/internal/config"
	"pulserelay/internal/logger"
	"pulserelay/internal/workers"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load("")
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	sampler := collector.NewSampler(log)
	appender := collector.NewAppender(sampler, cfg.MetricsFile, log)

	collector.AppendEvent(cfg.EventsFile, "collector started", log)

	sched := workers.NewScheduler(log)
	sched.RunByDuration(ctx, cfg.RefreshInterval, appender)

	log.Info("collector started", "metrics_file", cfg.MetricsFile, "interval", cfg.RefreshInterval)

	<-ctx.Done()

	collector.AppendEvent(cfg.EventsFile, "collector stopped", log)
	log.Info("collector stopped")
}
