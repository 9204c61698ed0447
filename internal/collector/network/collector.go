// Package network
package network

import (
	"context"
	"errors"

	gnet "github.com/shirou/gopsutil/v3/net"

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
	counters, err := gnet.IOCountersWithContext(ctx, false)
	if err != nil {
		return nil, err
	}
	if len(counters) == 0 {
		return nil, errors.New("no network counters")
	}

	return domain.Group{
		"rx_bytes": float64(counters[0].BytesRecv),
		"tx_bytes": float64(counters[0].BytesSent),
	}, nil
}
