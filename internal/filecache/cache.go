// Package filecache
package filecache

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"pulserelay/internal/domain"
	"pulserelay/internal/logger"
)

// Cache mirrors an append-only NDJSON metrics file and a plain-text
// event log. Each refresh re-reads both files in full and swaps the
// results in under a single lock acquisition, so readers always see a
// self-consistent pair. A missing file means "empty", never an error.
type Cache struct {
	mu          sync.Mutex
	latest      domain.Snapshot
	haveLatest  bool
	sampleCount int
	events      string
	lastRefresh time.Time

	metricsPath     string
	eventsPath      string
	refreshInterval time.Duration
	log             logger.Logger
}

// Info is the cache metadata served on the relay's index endpoint.
type Info struct {
	MetricsFile     string  `json:"metrics_file"`
	EventsFile      string  `json:"events_file"`
	RefreshInterval float64 `json:"refresh_interval_seconds"`
	LastRefresh     float64 `json:"last_refresh"`
	MetricsCount    int     `json:"metrics_count"`
}

func New(metricsPath, eventsPath string, refreshInterval time.Duration, log logger.Logger) *Cache {
	return &Cache{
		metricsPath:     metricsPath,
		eventsPath:      eventsPath,
		refreshInterval: refreshInterval,
		log:             log,
	}
}

func (c *Cache) Name() string {
	return "file_refresh"
}

// Run performs one refresh cycle. A read failure keeps the previous
// cache for the affected file; the scheduler logs the error and the
// next tick retries.
func (c *Cache) Run(ctx context.Context) error {
	latest, count, haveLatest, metricsErr := c.loadMetrics()
	events, eventsErr := c.loadEvents()

	c.mu.Lock()
	if metricsErr == nil {
		c.latest = latest
		c.haveLatest = haveLatest
		c.sampleCount = count
		c.lastRefresh = time.Now()
	}
	if eventsErr == nil {
		c.events = events
	}
	c.mu.Unlock()

	if metricsErr != nil {
		return fmt.Errorf("loading metrics file: %w", metricsErr)
	}
	if eventsErr != nil {
		return fmt.Errorf("loading events file: %w", eventsErr)
	}
	return nil
}

func (c *Cache) loadMetrics() (domain.Snapshot, int, bool, error) {
	f, err := os.Open(c.metricsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Snapshot{}, 0, false, nil
		}
		return domain.Snapshot{}, 0, false, err
	}
	defer f.Close()

	var (
		latest domain.Snapshot
		count  int
		have   bool
	)

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var sample domain.Snapshot
		if err := json.Unmarshal(line, &sample); err != nil {
			// Malformed lines happen when the producer is mid-append;
			// skip them, the last valid line wins.
			continue
		}

		latest = sample
		have = true
		count++
	}

	if err := scanner.Err(); err != nil {
		return domain.Snapshot{}, 0, false, err
	}

	return latest, count, have, nil
}

func (c *Cache) loadEvents() (string, error) {
	data, err := os.ReadFile(c.eventsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return string(data), nil
}

// Latest returns a copy of the last parsed metrics line. ok is false
// when no valid line has been seen yet.
func (c *Cache) Latest() (domain.Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.latest.Clone(), c.haveLatest
}

// Events returns the cached event log verbatim.
func (c *Cache) Events() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.events
}

func (c *Cache) Info() Info {
	c.mu.Lock()
	defer c.mu.Unlock()

	var lastRefresh float64
	if !c.lastRefresh.IsZero() {
		lastRefresh = float64(c.lastRefresh.UnixNano()) / float64(time.Second)
	}

	return Info{
		MetricsFile:     c.metricsPath,
		EventsFile:      c.eventsPath,
		RefreshInterval: c.refreshInterval.Seconds(),
		LastRefresh:     lastRefresh,
		MetricsCount:    c.sampleCount,
	}
}
