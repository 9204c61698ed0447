// Package poller
package poller

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"pulserelay/internal/domain"
	"pulserelay/internal/logger"
)

// Updater is the ingestion side of the metrics processor.
type Updater interface {
	Update(domain.Snapshot) bool
}

// Poller fetches the upstream metrics endpoint once per scheduler tick
// and forwards the newest sample. Every failure mode is local to its
// cycle: transport and decode errors are logged and the loop carries
// on at the next tick.
type Poller struct {
	url    string
	client *http.Client
	proc   Updater
	sink   func(domain.Snapshot)
	log    logger.Logger
}

func New(url string, timeout time.Duration, proc Updater, log logger.Logger) *Poller {
	return &Poller{
		url:    url,
		client: &http.Client{Timeout: timeout},
		proc:   proc,
		log:    log,
	}
}

// OnAccept registers a callback invoked after each accepted sample.
func (p *Poller) OnAccept(fn func(domain.Snapshot)) {
	p.sink = fn
}

func (p *Poller) Name() string {
	return "upstream_poll"
}

func (p *Poller) Run(ctx context.Context) error {
	body, ok := p.fetch(ctx)
	if !ok {
		return nil
	}

	sample, ok := p.decode(body)
	if !ok {
		return nil
	}

	if !p.proc.Update(sample) {
		p.log.Debug("sample rejected", "ts", sample.TS)
		return nil
	}

	p.log.Info("accepted new sample", "ts", sample.TS)

	if p.sink != nil {
		p.sink(sample)
	}

	return nil
}

func (p *Poller) fetch(ctx context.Context) ([]byte, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		p.log.Error("building upstream request", "url", p.url, "error", err)
		return nil, false
	}

	resp, err := p.client.Do(req)
	if err != nil {
		p.log.Warn("upstream fetch failed", "error", err)
		return nil, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		p.log.Warn("upstream returned non-200", "status", resp.StatusCode)
		return nil, false
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		p.log.Warn("reading upstream body", "error", err)
		return nil, false
	}

	return body, true
}

// decode accepts either a single snapshot object or a batch array.
// From a batch the newest sample is selected by timestamp, not array
// position.
func (p *Poller) decode(body []byte) (domain.Snapshot, bool) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		p.log.Warn("empty upstream response")
		return domain.Snapshot{}, false
	}

	switch trimmed[0] {
	case '[':
		var batch []domain.Snapshot
		if err := json.Unmarshal(trimmed, &batch); err != nil {
			p.log.Warn("malformed upstream batch", "error", err)
			return domain.Snapshot{}, false
		}
		if len(batch) == 0 {
			p.log.Warn("empty metrics batch received")
			return domain.Snapshot{}, false
		}
		return Newest(batch), true

	case '{':
		var sample domain.Snapshot
		if err := json.Unmarshal(trimmed, &sample); err != nil {
			p.log.Warn("malformed upstream sample", "error", err)
			return domain.Snapshot{}, false
		}
		return sample, true

	default:
		p.log.Warn("unexpected upstream payload shape")
		return domain.Snapshot{}, false
	}
}

// Newest picks the sample with the highest timestamp. A missing
// timestamp ranks as 0 and ties keep the first-encountered sample, so
// selection is deterministic regardless of upstream ordering.
func Newest(batch []domain.Snapshot) domain.Snapshot {
	best := batch[0]
	for _, s := range batch[1:] {
		if tsOrZero(s) > tsOrZero(best) {
			best = s
		}
	}
	return best
}

func tsOrZero(s domain.Snapshot) float64 {
	if !s.HasTS() {
		return 0
	}
	return s.TS
}
