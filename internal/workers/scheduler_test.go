package workers

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"pulserelay/internal/logger"
)

type countingWorker struct {
	runs atomic.Int64
	err  error
}

func (w *countingWorker) Name() string {
	return "counting"
}

func (w *countingWorker) Run(ctx context.Context) error {
	w.runs.Add(1)
	return w.err
}

func TestRunByDurationTicksAndStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := &countingWorker{}
	s := NewScheduler(logger.New("error", "text"))
	s.RunByDuration(ctx, 10*time.Millisecond, w)

	deadline := time.After(2 * time.Second)
	for w.runs.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("runs = %d, want >= 3", w.runs.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	time.Sleep(30 * time.Millisecond)
	after := w.runs.Load()
	time.Sleep(50 * time.Millisecond)

	if w.runs.Load() != after {
		t.Error("worker kept running after cancellation")
	}
}

func TestWorkerErrorDoesNotStopLoop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := &countingWorker{err: errors.New("boom")}
	s := NewScheduler(logger.New("error", "text"))
	s.RunByDuration(ctx, 10*time.Millisecond, w)

	deadline := time.After(2 * time.Second)
	for w.runs.Load() < 2 {
		select {
		case <-deadline:
			t.Fatalf("runs = %d, want >= 2 despite errors", w.runs.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}
}
