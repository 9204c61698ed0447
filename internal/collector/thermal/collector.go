// Package thermal
package thermal

import (
	"context"
	"errors"
	"strings"

	"github.com/shirou/gopsutil/v3/host"

	"pulserelay/internal/domain"
	"pulserelay/internal/logger"
)

// cpuSensorKeys are sensor name fragments that identify the CPU
// package sensor across common platforms (Pi, Intel, AMD).
var cpuSensorKeys = []string{"cpu_thermal", "cpu-thermal", "coretemp", "k10temp", "soc_thermal"}

type Collector struct {
	log logger.Logger
}

func NewCollector(log logger.Logger) *Collector {
	return &Collector{log: log}
}

func (c *Collector) Collect(ctx context.Context) (domain.Group, error) {
	sensors, err := host.SensorsTemperaturesWithContext(ctx)
	if err != nil {
		return nil, err
	}

	for _, key := range cpuSensorKeys {
		for _, sensor := range sensors {
			if strings.Contains(sensor.SensorKey, key) {
				return domain.Group{"cpu_temp_c": sensor.Temperature}, nil
			}
		}
	}

	for _, sensor := range sensors {
		if sensor.Temperature > 0 {
			return domain.Group{"cpu_temp_c": sensor.Temperature}, nil
		}
	}

	return nil, errors.New("no usable temperature sensor")
}
