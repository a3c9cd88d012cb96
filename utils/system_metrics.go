package utils

import (
	"log/slog"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// GetCPUUsage returns CPU usage as a percentage since the previous call
func GetCPUUsage() float64 {
	percentage, err := cpu.Percent(0, false)
	if err != nil {
		slog.Warn("failed to read CPU usage", "err", err)
		return 0
	}
	if len(percentage) > 0 {
		return percentage[0]
	}
	return 0
}

// GetMemoryUsage returns the share of physical memory in use
func GetMemoryUsage() float64 {
	vm, err := mem.VirtualMemory()
	if err != nil {
		slog.Warn("failed to read memory usage", "err", err)
		return 0
	}
	return vm.UsedPercent
}
