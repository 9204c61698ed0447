// Package disk
package disk

import (
	"context"

	gdisk "github.com/shirou/gopsutil/v3/disk"

	"pulserelay/internal/domain"
	"pulserelay/internal/logger"
)

// sectorSize matches the 512-byte sectors /proc/diskstats counts in,
// which is what downstream rate consumers expect.
const sectorSize = 512

type Collector struct {
	log logger.Logger
}

func NewCollector(log logger.Logger) *Collector {
	return &Collector{log: log}
}

func (c *Collector) Collect(ctx context.Context) (domain.Group, error) {
	counters, err := gdisk.IOCountersWithContext(ctx)
	if err != nil {
		return nil, err
	}

	var readBytes, writeBytes uint64
	for _, d := range counters {
		readBytes += d.ReadBytes
		writeBytes += d.WriteBytes
	}

	group := domain.Group{
		"read_sectors":  float64(readBytes / sectorSize),
		"write_sectors": float64(writeBytes / sectorSize),
	}

	if usage, err := gdisk.UsageWithContext(ctx, "/"); err == nil {
		group["used_percent"] = usage.UsedPercent
	} else {
		c.log.Debug("root filesystem usage unavailable", "error", err)
	}

	return group, nil
}
