package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/vshulcz/statprobe/internal/domain"
)

type catalogFile struct {
	Services []domain.ServiceDefinition `json:"services"`
}

// LoadCatalog reads and validates the service catalog. An empty path selects
// the built-in catalog. Any validation failure is a setup error.
func LoadCatalog(path string) ([]domain.ServiceDefinition, error) {
	services := DefaultCatalog()
	if path != "" {
		data, err := os.ReadFile(path) // #nosec G304
		if err != nil {
			return nil, fmt.Errorf("read catalog: %w", err)
		}
		var cf catalogFile
		if err := json.Unmarshal(data, &cf); err != nil {
			return nil, fmt.Errorf("parse catalog: %w", err)
		}
		services = cf.Services
	}
	if err := domain.ValidateCatalog(services); err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	return services, nil
}

// DefaultCatalog declares the stock memcached, apache, and host-memory
// services. Commands assume the services listen on their default local
// endpoints; override with -catalog for anything else.
func DefaultCatalog() []domain.ServiceDefinition {
	return []domain.ServiceDefinition{
		{
			Name:        "memcached",
			Sampler:     domain.SamplerCommand,
			Command:     `printf 'stats\nquit\n' | nc 127.0.0.1 11211`,
			TimeBaseKey: "uptime",
			Metrics: []domain.MetricDefinition{
				{Key: "uptime", Name: "mc_uptime", Type: domain.TypeUint32, Units: "s", Mode: domain.ModeAbsolute},
				{Key: "curr_items", Name: "mc_curr_items", Type: domain.TypeUint32, Units: "items", Mode: domain.ModeAbsolute},
				{Key: "total_items", Name: "mc_total_items", Type: domain.TypeUint32, Units: "items", Mode: domain.ModeAbsolute},
				{Key: "bytes", Name: "mc_bytes", Type: domain.TypeUint32, Units: "B", Mode: domain.ModeAbsolute},
				{Key: "curr_connections", Name: "mc_curr_connections", Type: domain.TypeUint32, Units: "conns", Mode: domain.ModeAbsolute},
				{Key: "cmd_get", Name: "mc_gets", Type: domain.TypeFloat, Units: "req/s", Mode: domain.ModeRate},
				{Key: "cmd_set", Name: "mc_sets", Type: domain.TypeFloat, Units: "req/s", Mode: domain.ModeRate},
				{Key: "get_hits", Name: "mc_get_hits", Type: domain.TypeFloat, Units: "req/s", Mode: domain.ModeRate},
				{Key: "get_misses", Name: "mc_get_misses", Type: domain.TypeFloat, Units: "req/s", Mode: domain.ModeRate},
				{Key: "evictions", Name: "mc_evictions", Type: domain.TypeFloat, Units: "items/s", Mode: domain.ModeRate},
				{Key: "total_connections", Name: "mc_connections", Type: domain.TypeFloat, Units: "conns/s", Mode: domain.ModeRate},
				{Key: "bytes_read", Name: "mc_bytes_read", Type: domain.TypeFloat, Units: "B/s", Mode: domain.ModeRate},
				{Key: "bytes_written", Name: "mc_bytes_written", Type: domain.TypeFloat, Units: "B/s", Mode: domain.ModeRate},
			},
		},
		{
			Name:        "apache",
			Sampler:     domain.SamplerCommand,
			Command:     `curl -s http://127.0.0.1/server-status?auto`,
			TimeBaseKey: "Uptime",
			Metrics: []domain.MetricDefinition{
				{Key: "Uptime", Name: "apache_uptime", Type: domain.TypeUint32, Units: "s", Mode: domain.ModeAbsolute},
				{Key: "Total Accesses", Name: "apache_accesses", Type: domain.TypeFloat, Units: "req/s", Mode: domain.ModeRate},
				{Key: "Total kBytes", Name: "apache_kbytes", Type: domain.TypeFloat, Units: "kB/s", Mode: domain.ModeRate},
				{Key: "BusyWorkers", Name: "apache_busy_workers", Type: domain.TypeUint32, Units: "workers", Mode: domain.ModeAbsolute},
				{Key: "IdleWorkers", Name: "apache_idle_workers", Type: domain.TypeUint32, Units: "workers", Mode: domain.ModeAbsolute},
			},
		},
		{
			Name:        "host_memory",
			Sampler:     domain.SamplerHostMem,
			TimeBaseKey: "uptime",
			Metrics: []domain.MetricDefinition{
				{Key: "uptime", Name: "host_uptime", Type: domain.TypeUint32, Units: "s", Mode: domain.ModeAbsolute},
				{Key: "mem_total", Name: "host_mem_total", Type: domain.TypeUint32, Units: "B", Mode: domain.ModeAbsolute},
				{Key: "mem_available", Name: "host_mem_available", Type: domain.TypeUint32, Units: "B", Mode: domain.ModeAbsolute},
				{Key: "mem_used", Name: "host_mem_used", Type: domain.TypeUint32, Units: "B", Mode: domain.ModeAbsolute},
				{Key: "mem_used_percent", Name: "host_mem_used_percent", Type: domain.TypeFloat, Units: "%", Mode: domain.ModeAbsolute},
				{Key: "mem_free", Name: "host_mem_free", Type: domain.TypeUint32, Units: "B", Mode: domain.ModeAbsolute},
				{Key: "mem_cached", Name: "host_mem_cached", Type: domain.TypeUint32, Units: "B", Mode: domain.ModeAbsolute},
			},
		},
	}
}
