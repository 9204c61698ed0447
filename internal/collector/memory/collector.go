// Package memory
package memory

import (
	"context"

	"github.com/shirou/gopsutil/v3/mem"

	"pulserelay/internal/domain"
	"pulserelay/internal/logger"
)

const bytesPerMB = 1024 * 1024

type Collector struct {
	log logger.Logger
}

func NewCollector(log logger.Logger) *Collector {
	return &Collector{log: log}
}

func (c *Collector) Collect(ctx context.Context) (domain.Group, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return nil, err
	}

	return domain.Group{
		"total_mb":     float64(vm.Total) / bytesPerMB,
		"available_mb": float64(vm.Available) / bytesPerMB,
		"used_percent": vm.UsedPercent,
	}, nil
}
