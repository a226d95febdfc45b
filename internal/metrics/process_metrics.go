package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shirou/gopsutil/v4/process"
)

// Per-process resource gauges for online services. Collected once per poll
// cycle from the last observed PIDs; a PID that disappeared between the
// snapshot and collection is silently skipped.
var (
	processCPU = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "upmon",
			Subsystem: "service",
			Name:      "process_cpu_percent",
			Help:      "CPU usage percent of the backing process.",
		}, []string{"name"},
	)
	processMemoryMB = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "upmon",
			Subsystem: "service",
			Name:      "process_memory_mb",
			Help:      "Resident memory of the backing process in MB.",
		}, []string{"name"},
	)
)

// CollectProcess samples CPU and memory for one service's backing process.
func CollectProcess(ctx context.Context, name string, pid int32) {
	if !regOK.Load() || pid <= 0 {
		return
	}
	p, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		return
	}
	if cpu, err := p.CPUPercentWithContext(ctx); err == nil {
		processCPU.WithLabelValues(name).Set(cpu)
	}
	if mem, err := p.MemoryInfoWithContext(ctx); err == nil && mem != nil {
		processMemoryMB.WithLabelValues(name).Set(float64(mem.RSS) / 1024 / 1024)
	}
}

// DropProcess removes the resource series of a service that went offline.
func DropProcess(name string) {
	if !regOK.Load() {
		return
	}
	processCPU.DeleteLabelValues(name)
	processMemoryMB.DeleteLabelValues(name)
}
