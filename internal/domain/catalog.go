// Package domain defines the metric catalog and sample data model.
package domain

import "fmt"

// ValueType is the type tag a measurement is published with.
type ValueType string

const (
	// TypeUint32 tags integral counter-style values.
	TypeUint32 ValueType = "uint32"
	// TypeFloat tags fractional values such as rates and percentages.
	TypeFloat ValueType = "float"
)

// DeltaMode selects how a field's final value is derived.
type DeltaMode string

const (
	// ModeRate reports the per-second change since the previous run.
	ModeRate DeltaMode = "rate"
	// ModeAbsolute reports the raw current reading unchanged.
	ModeAbsolute DeltaMode = "absolute"
)

// SamplerKind selects how a service's raw sample is obtained.
type SamplerKind string

const (
	// SamplerCommand runs the service's retrieval command and extracts
	// fields from its text output.
	SamplerCommand SamplerKind = "command"
	// SamplerHostMem reads local host memory statistics in-process.
	SamplerHostMem SamplerKind = "hostmem"
)

// MetricDefinition declares a single field to extract and publish.
type MetricDefinition struct {
	Key   string    `json:"key"`
	Name  string    `json:"name"`
	Type  ValueType `json:"type"`
	Units string    `json:"units"`
	Mode  DeltaMode `json:"mode"`
}

// ServiceDefinition declares one monitored service: how to fetch its raw
// sample, which field carries its own elapsed-time counter, and the ordered
// set of fields to extract.
type ServiceDefinition struct {
	Name        string             `json:"name"`
	Sampler     SamplerKind        `json:"sampler"`
	Command     string             `json:"command,omitempty"`
	TimeBaseKey string             `json:"time_base"`
	Metrics     []MetricDefinition `json:"metrics"`
}

// Metric returns the definition for key, if declared.
func (s ServiceDefinition) Metric(key string) (MetricDefinition, bool) {
	for _, m := range s.Metrics {
		if m.Key == key {
			return m, true
		}
	}
	return MetricDefinition{}, false
}

// Validate checks the structural invariants of a service definition.
// A violation here is a setup error and aborts the run.
func (s ServiceDefinition) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("service: %w", ErrEmptyName)
	}
	switch s.Sampler {
	case SamplerCommand:
		if s.Command == "" {
			return fmt.Errorf("service %q: %w", s.Name, ErrEmptyCommand)
		}
	case SamplerHostMem:
	default:
		return fmt.Errorf("service %q: sampler %q: %w", s.Name, s.Sampler, ErrUnknownSampler)
	}
	if len(s.Metrics) == 0 {
		return fmt.Errorf("service %q: %w", s.Name, ErrNoMetrics)
	}
	seen := make(map[string]struct{}, len(s.Metrics))
	for _, m := range s.Metrics {
		if m.Key == "" {
			return fmt.Errorf("service %q: metric with empty key", s.Name)
		}
		if _, dup := seen[m.Key]; dup {
			return fmt.Errorf("service %q: duplicate metric key %q", s.Name, m.Key)
		}
		seen[m.Key] = struct{}{}
		switch m.Type {
		case TypeUint32, TypeFloat:
		default:
			return fmt.Errorf("service %q: metric %q: value type %q: %w", s.Name, m.Key, m.Type, ErrInvalidType)
		}
		switch m.Mode {
		case ModeRate, ModeAbsolute:
		default:
			return fmt.Errorf("service %q: metric %q: delta mode %q: %w", s.Name, m.Key, m.Mode, ErrInvalidMode)
		}
	}
	tb, ok := s.Metric(s.TimeBaseKey)
	if !ok {
		return fmt.Errorf("service %q: time base %q: %w", s.Name, s.TimeBaseKey, ErrBadTimeBase)
	}
	if tb.Mode != ModeAbsolute {
		return fmt.Errorf("service %q: time base %q must be absolute: %w", s.Name, s.TimeBaseKey, ErrBadTimeBase)
	}
	return nil
}

// ValidateCatalog checks every service and rejects duplicate service names.
func ValidateCatalog(services []ServiceDefinition) error {
	if len(services) == 0 {
		return ErrEmptyCatalog
	}
	seen := make(map[string]struct{}, len(services))
	for _, s := range services {
		if _, dup := seen[s.Name]; dup {
			return fmt.Errorf("duplicate service name %q", s.Name)
		}
		seen[s.Name] = struct{}{}
		if err := s.Validate(); err != nil {
			return err
		}
	}
	return nil
}
