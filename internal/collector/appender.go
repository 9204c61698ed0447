package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"pulserelay/internal/logger"
)

// Appender samples the host once per scheduler tick and appends the
// snapshot as one NDJSON line to the metrics file the file relay
// serves from.
type Appender struct {
	sampler *Sampler
	path    string
	log     logger.Logger
}

func NewAppender(sampler *Sampler, path string, log logger.Logger) *Appender {
	return &Appender{sampler: sampler, path: path, log: log}
}

func (a *Appender) Name() string {
	return "collect"
}

func (a *Appender) Run(ctx context.Context) error {
	snapshot := a.sampler.Collect(ctx)

	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(a.path), 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	f, err := os.OpenFile(a.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening metrics file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("appending snapshot: %w", err)
	}

	a.log.Debug("snapshot appended", "ts", snapshot.TS)
	return nil
}

// AppendEvent writes one timestamped line to the event log. Used for
// collector lifecycle events; failures are best-effort.
func AppendEvent(path, message string, log logger.Logger) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.Warn("creating event log dir", "error", err)
		return
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		log.Warn("opening event log", "error", err)
		return
	}
	defer f.Close()

	line := fmt.Sprintf("%s %s\n", time.Now().UTC().Format(time.RFC3339), message)
	if _, err := f.WriteString(line); err != nil {
		log.Warn("appending event", "error", err)
	}
}
