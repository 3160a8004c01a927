package domain

import "testing"

func TestRawSample_Clone(t *testing.T) {
	orig := RawSample{"uptime": 100, "cmd_get": 42}
	cp := orig.Clone()

	cp["cmd_get"] = 999
	if orig["cmd_get"] != 42 {
		t.Error("Clone must not share storage with the original")
	}

	if RawSample(nil).Clone() != nil {
		t.Error("Clone of nil must stay nil")
	}
}

func TestSnapshot_RoundTrip(t *testing.T) {
	svc := ServiceDefinition{
		Name:        "memcached",
		Sampler:     SamplerCommand,
		Command:     "true",
		TimeBaseKey: "uptime",
		Metrics: []MetricDefinition{
			{Key: "uptime", Name: "mc_uptime", Type: TypeUint32, Units: "s", Mode: ModeAbsolute},
			{Key: "cmd_get", Name: "mc_gets", Type: TypeFloat, Units: "req/s", Mode: ModeRate},
			{Key: "evictions", Name: "mc_evictions", Type: TypeFloat, Units: "items/s", Mode: ModeRate},
		},
	}

	snap := Snapshot{}
	snap.SetSample(svc, RawSample{"uptime": 100, "cmd_get": 42}) // evictions absent

	raw := snap.Sample("memcached")
	if raw["uptime"] != 100 || raw["cmd_get"] != 42 {
		t.Errorf("round-trip lost values: %+v", raw)
	}
	if _, ok := raw["evictions"]; ok {
		t.Error("field absent from the sample must stay absent")
	}

	// Entries echo catalog metadata for standalone snapshot reading.
	for _, e := range snap["memcached"] {
		if e.Key == "cmd_get" && (e.Name != "mc_gets" || e.Units != "req/s" || e.Type != TypeFloat) {
			t.Errorf("metadata not echoed: %+v", e)
		}
	}
}

func TestSnapshot_SampleUnknownService(t *testing.T) {
	if got := (Snapshot{}).Sample("nope"); got != nil {
		t.Errorf("Sample of unknown service = %+v, want nil", got)
	}
}
