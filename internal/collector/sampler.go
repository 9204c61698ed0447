// Package collector
package collector

import (
	"context"
	"time"

	"pulserelay/internal/collector/cpu"
	"pulserelay/internal/collector/disk"
	"pulserelay/internal/collector/memory"
	"pulserelay/internal/collector/network"
	"pulserelay/internal/collector/thermal"
	"pulserelay/internal/domain"
	"pulserelay/internal/logger"
)

// Sampler assembles one host snapshot from the per-group collectors.
// A failing group is logged and left out of the snapshot; consumers
// treat absent fields as zero.
type Sampler struct {
	cpu     *cpu.Collector
	memory  *memory.Collector
	disk    *disk.Collector
	network *network.Collector
	thermal *thermal.Collector
	log     logger.Logger
	now     func() time.Time
}

func NewSampler(log logger.Logger) *Sampler {
	return &Sampler{
		cpu:     cpu.NewCollector(log),
		memory:  memory.NewCollector(log),
		disk:    disk.NewCollector(log),
		network: network.NewCollector(log),
		thermal: thermal.NewCollector(log),
		log:     log,
		now:     time.Now,
	}
}

func (s *Sampler) Collect(ctx context.Context) domain.Snapshot {
	snapshot := domain.NewSnapshot(float64(s.now().UnixNano())/float64(time.Second), nil)

	if group, err := s.cpu.Collect(ctx); err != nil {
		s.log.Error("collector", "name", "cpu", "error", err)
	} else {
		snapshot.Groups["cpu"] = group
	}

	if group, err := s.memory.Collect(ctx); err != nil {
		s.log.Error("collector", "name", "memory", "error", err)
	} else {
		snapshot.Groups["memory"] = group
	}

	if group, err := s.disk.Collect(ctx); err != nil {
		s.log.Error("collector", "name", "disk", "error", err)
	} else {
		snapshot.Groups["disk"] = group
	}

	if group, err := s.network.Collect(ctx); err != nil {
		s.log.Error("collector", "name", "network", "error", err)
	} else {
		snapshot.Groups["network"] = group
	}

	if group, err := s.thermal.Collect(ctx); err != nil {
		s.log.Debug("collector", "name", "thermal", "error", err)
	} else {
		snapshot.Groups["thermal"] = group
	}

	return snapshot
}
