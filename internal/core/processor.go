// Package core
package core

import (
	"sync"
	"time"

	"pulserelay/internal/domain"
	"pulserelay/internal/logger"
)

// Processor holds the single most recent accepted snapshot plus the
// counter values of the snapshot before it, and derives per-second
// rates over that one-step window. It keeps no further history, so
// memory stays O(1) for the life of the process.
//
// All methods are safe for concurrent use. The mutex is held only for
// copy and compare, never across I/O.
type Processor struct {
	mu sync.Mutex

	latest        *domain.Snapshot
	lastSeenTS    float64
	lastCounters  map[string]float64
	lastCounterTS float64
	haveCounters  bool

	maxAge time.Duration
	now    func() time.Time
	log    logger.Logger
}

func NewProcessor(maxAge time.Duration, log logger.Logger) *Processor {
	return &Processor{
		maxAge: maxAge,
		now:    time.Now,
		log:    log,
	}
}

// Update offers a new sample. It returns false and leaves state
// untouched when the sample carries no timestamp or its timestamp does
// not advance past the last accepted one. On acceptance the previous
// snapshot's counter values become the rate baseline and a deep copy
// of the sample is stored, so later mutation by the caller cannot
// reach processor state.
func (p *Processor) Update(sample domain.Snapshot) bool {
	if !sample.HasTS() {
		p.log.Warn("sample missing timestamp, rejecting")
		return false
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.latest != nil && sample.TS <= p.lastSeenTS {
		p.log.Debug("timestamp not advancing, rejecting", "ts", sample.TS, "last_seen_ts", p.lastSeenTS)
		return false
	}

	if p.latest != nil {
		counters := make(map[string]float64, len(domain.CounterFields))
		for _, c := range domain.CounterFields {
			counters[c.Key()] = p.latest.Field(c.Group, c.Field)
		}
		p.lastCounters = counters
		p.lastCounterTS = p.lastSeenTS
		p.haveCounters = true
	}

	stored := sample.Clone()
	p.latest = &stored
	p.lastSeenTS = sample.TS

	return true
}

// LatestWithDerived returns an independent copy of the latest accepted
// snapshot augmented with the four counter rates. Rates are 0 until a
// second sample has been accepted or when the window is degenerate
// (delta <= 0). A counter that went backwards yields a negative rate
// as-is; wraparound handling is left to the consumer.
func (p *Processor) LatestWithDerived() (domain.Snapshot, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.latest == nil {
		return domain.Snapshot{}, false
	}

	out := p.latest.Clone()

	var delta float64
	if p.haveCounters {
		delta = p.lastSeenTS - p.lastCounterTS
	}

	for _, c := range domain.CounterFields {
		var rate float64
		if p.haveCounters && delta > 0 {
			rate = (out.Field(c.Group, c.Field) - p.lastCounters[c.Key()]) / delta
		}
		out.Set(c.Group, c.RateField(), rate)
	}

	return out, true
}

// Health reports staleness against the wall clock at call time: two
// calls may disagree without any Update in between.
func (p *Processor) Health() domain.Health {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.latest == nil {
		return domain.Health{Status: domain.StatusStale}
	}

	ts := p.lastSeenTS
	age := float64(p.now().UnixNano())/float64(time.Second) - ts

	status := domain.StatusOK
	if age > p.maxAge.Seconds() {
		status = domain.StatusStale
	}

	return domain.Health{Status: status, LastSeenTS: &ts}
}
