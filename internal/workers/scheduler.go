package workers

import (
	"context"
	"time"

	"pulserelay/internal/logger"
)

type Scheduler struct {
	log logger.Logger
}

func NewScheduler(log logger.Logger) *Scheduler {
	return &Scheduler{log: log}
}

// RunByDuration runs the worker once right away and then on every tick
// until the context is cancelled.
func (s *Scheduler) RunByDuration(ctx context.Context, dur time.Duration, worker Worker) {
	go func() {
		ticker := time.NewTicker(dur)
		defer ticker.Stop()

		s.runOnce(ctx, worker)

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.runOnce(ctx, worker)
			}
		}
	}()
}

func (s *Scheduler) runOnce(ctx context.Context, worker Worker) {
	start := time.Now()

	err := worker.Run(ctx)
	if err != nil {
		s.log.Error("worker failed", "name", worker.Name(), "error", err)
	}

	s.log.Debug("worker finished", "name", worker.Name(), "time", time.Since(start))
}
