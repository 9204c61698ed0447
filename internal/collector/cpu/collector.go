// Package cpu
package cpu

import (
	"context"

	gcpu "github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/load"

	"pulserelay/internal/domain"
	"pulserelay/internal/logger"
)

type Collector struct {
	log logger.Logger
}

func NewCollector(log logger.Logger) *Collector {
	return &Collector{log: log}
}

func (c *Collector) Collect(ctx context.Context) (domain.Group, error) {
	percents, err := gcpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return nil, err
	}

	group := domain.Group{}
	if len(percents) > 0 {
		group["usage_percent"] = percents[0]
	}

	// Load average is unsupported on some platforms; the gauge is
	// simply absent there.
	if avg, err := load.AvgWithContext(ctx); err == nil {
		group["load_1m"] = avg.Load1
	} else {
		c.log.Debug("load average unavailable", "error", err)
	}

	return group, nil
}
