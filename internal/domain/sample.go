package domain

// RawSample maps a metric key to the raw numeric value extracted from a
// service's output during one run. Values are pre-rate counters; a key that
// could not be extracted is simply absent.
type RawSample map[string]float64

// Clone returns an independent copy of the sample.
func (r RawSample) Clone() RawSample {
	if r == nil {
		return nil
	}
	cp := make(RawSample, len(r))
	for k, v := range r {
		cp[k] = v
	}
	return cp
}

// Measurement is a finalized, publish-ready data point.
type Measurement struct {
	Key   string    `json:"key"`
	Name  string    `json:"name"`
	Type  ValueType `json:"type"`
	Units string    `json:"units"`
	Value float64   `json:"value"`
}

// SampleEntry is one persisted raw field value. Name, type, and units are
// echoed alongside the value so a snapshot can be read on its own when
// diagnosing delta problems.
type SampleEntry struct {
	Key   string    `json:"key"`
	Name  string    `json:"name"`
	Type  ValueType `json:"type"`
	Units string    `json:"units"`
	Value float64   `json:"value"`
}

// Snapshot is the persisted raw sample set for all services from one run.
// It holds raw, pre-rate values only; rates are recomputed each run.
type Snapshot map[string][]SampleEntry

// Sample flattens the entries for one service back into a RawSample.
func (s Snapshot) Sample(service string) RawSample {
	entries, ok := s[service]
	if !ok {
		return nil
	}
	raw := make(RawSample, len(entries))
	for _, e := range entries {
		raw[e.Key] = e.Value
	}
	return raw
}

// SetSample records the raw sample for one service, echoing each field's
// catalog metadata. Fields missing from raw are left out.
func (s Snapshot) SetSample(svc ServiceDefinition, raw RawSample) {
	entries := make([]SampleEntry, 0, len(raw))
	for _, m := range svc.Metrics {
		v, ok := raw[m.Key]
		if !ok {
			continue
		}
		entries = append(entries, SampleEntry{
			Key:   m.Key,
			Name:  m.Name,
			Type:  m.Type,
			Units: m.Units,
			Value: v,
		})
	}
	s[svc.Name] = entries
}
