// Package hostmem implements a built-in sampler for local host memory,
// read in-process instead of through a retrieval command.
package hostmem

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/vshulcz/statprobe/internal/domain"
	"github.com/vshulcz/statprobe/internal/ports"
)

// Field keys exposed by this sampler.
const (
	KeyUptime      = "uptime"
	KeyTotal       = "mem_total"
	KeyAvailable   = "mem_available"
	KeyUsed        = "mem_used"
	KeyUsedPercent = "mem_used_percent"
	KeyFree        = "mem_free"
	KeyCached      = "mem_cached"
)

// Sampler reads host memory statistics via gopsutil.
type Sampler struct {
	vmem   func(context.Context) (*mem.VirtualMemoryStat, error)
	uptime func(context.Context) (uint64, error)
}

var _ ports.Sampler = (*Sampler)(nil)

// New returns a host-memory sampler backed by the real host.
func New() *Sampler {
	return &Sampler{
		vmem:   mem.VirtualMemoryWithContext,
		uptime: host.UptimeWithContext,
	}
}

// Sample reads current host memory state. All fields come from one
// VirtualMemory call, so the sample is internally consistent.
func (s *Sampler) Sample(ctx context.Context, _ domain.ServiceDefinition) (domain.RawSample, error) {
	vm, err := s.vmem(ctx)
	if err != nil {
		return nil, fmt.Errorf("virtual memory: %w", err)
	}
	up, err := s.uptime(ctx)
	if err != nil {
		return nil, fmt.Errorf("host uptime: %w", err)
	}
	return domain.RawSample{
		KeyUptime:      float64(up),
		KeyTotal:       float64(vm.Total),
		KeyAvailable:   float64(vm.Available),
		KeyUsed:        float64(vm.Used),
		KeyUsedPercent: vm.UsedPercent,
		KeyFree:        float64(vm.Free),
		KeyCached:      float64(vm.Cached),
	}, nil
}
