package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vshulcz/statprobe/internal/domain"
)

func TestLoadCatalog_Default(t *testing.T) {
	services, err := LoadCatalog("")
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}

	want := map[string]bool{"memcached": false, "apache": false, "host_memory": false}
	for _, svc := range services {
		if _, ok := want[svc.Name]; ok {
			want[svc.Name] = true
		}
	}
	for name, seen := range want {
		if !seen {
			t.Errorf("built-in catalog missing %q", name)
		}
	}
}

func TestLoadCatalog_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	doc := `{
	  "services": [
	    {
	      "name": "redis",
	      "sampler": "command",
	      "command": "redis-cli info stats",
	      "time_base": "uptime_in_seconds",
	      "metrics": [
	        {"key": "uptime_in_seconds", "name": "redis_uptime", "type": "uint32", "units": "s", "mode": "absolute"},
	        {"key": "total_commands_processed", "name": "redis_commands", "type": "float", "units": "req/s", "mode": "rate"}
	      ]
	    }
	  ]
	}`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write catalog: %v", err)
	}

	services, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if len(services) != 1 || services[0].Name != "redis" {
		t.Fatalf("services = %+v, want one redis entry", services)
	}
	m, ok := services[0].Metric("total_commands_processed")
	if !ok || m.Mode != domain.ModeRate {
		t.Errorf("metric lookup = %+v (ok=%v), want rate metric", m, ok)
	}
}

func TestLoadCatalog_Errors(t *testing.T) {
	dir := t.TempDir()

	invalid := filepath.Join(dir, "invalid.json")
	if err := os.WriteFile(invalid, []byte("{"), 0o600); err != nil {
		t.Fatal(err)
	}

	// Valid JSON that fails catalog validation: rate time base.
	badSemantics := filepath.Join(dir, "bad.json")
	doc := `{"services":[{"name":"x","sampler":"command","command":"true","time_base":"uptime",
	  "metrics":[{"key":"uptime","name":"u","type":"float","units":"s","mode":"rate"}]}]}`
	if err := os.WriteFile(badSemantics, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(dir, "nope.json")},
		{"malformed json", invalid},
		{"invalid semantics", badSemantics},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := LoadCatalog(tc.path); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestDefaultCatalog_Valid(t *testing.T) {
	if err := domain.ValidateCatalog(DefaultCatalog()); err != nil {
		t.Fatalf("built-in catalog must validate: %v", err)
	}
}
