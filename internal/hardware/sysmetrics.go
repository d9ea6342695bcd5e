package hardware

import (
	"fmt"

	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/sensors"
)

// MemoryStats is the host memory breakdown in bytes.
type MemoryStats struct {
	Total       uint64
	Free        uint64
	Available   uint64
	UsedPercent float64
}

// SystemMetrics is the host metrics capability consumed by the telemetry
// reporter. Each read can fail independently; the reporter degrades the
// affected field for that cycle.
type SystemMetrics interface {
	Uptime() (float64, error)
	CPUTemperature() (float64, error)
	MemoryUsage() (MemoryStats, error)
}

// HostMetrics reads live metrics from the local host.
type HostMetrics struct{}

func (HostMetrics) Uptime() (float64, error) {
	up, err := host.Uptime()
	if err != nil {
		return 0, fmt.Errorf("hardware: read uptime: %w", err)
	}
	return float64(up), nil
}

func (HostMetrics) CPUTemperature() (float64, error) {
	temps, err := sensors.SensorsTemperatures()
	if err != nil {
		return 0, fmt.Errorf("hardware: read temperatures: %w", err)
	}
	for _, t := range temps {
		if t.Temperature > 0 {
			return t.Temperature, nil
		}
	}
	return 0, nil
}

func (HostMetrics) MemoryUsage() (MemoryStats, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return MemoryStats{}, fmt.Errorf("hardware: read memory: %w", err)
	}
	return MemoryStats{
		Total:       vm.Total,
		Free:        vm.Free,
		Available:   vm.Available,
		UsedPercent: vm.UsedPercent,
	}, nil
}
