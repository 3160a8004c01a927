package config

import (
	"io"
	"testing"
	"time"
)

func clearCollectorEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"CATALOG", "SNAPSHOT_PATH", "DATABASE_DSN", "SINK_COMMAND",
		"SINK_URL", "KEY", "LOCK_PATH", "COMMAND_TIMEOUT", "DRY_RUN",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadCollectorConfig_Defaults(t *testing.T) {
	clearCollectorEnv(t)

	cfg, err := LoadCollectorConfig(nil, io.Discard)
	if err != nil {
		t.Fatalf("LoadCollectorConfig: %v", err)
	}

	if cfg.SnapshotPath != defaultSnapshotPath {
		t.Errorf("SnapshotPath = %q, want %q", cfg.SnapshotPath, defaultSnapshotPath)
	}
	if cfg.SinkCommand != defaultSinkCommand {
		t.Errorf("SinkCommand = %q, want %q", cfg.SinkCommand, defaultSinkCommand)
	}
	if cfg.Timeout != defaultTimeout*time.Second {
		t.Errorf("Timeout = %v, want %ds", cfg.Timeout, defaultTimeout)
	}
	if want := defaultSnapshotPath + ".lock"; cfg.LockPath != want {
		t.Errorf("LockPath = %q, want %q", cfg.LockPath, want)
	}
	if cfg.DSN != "" || cfg.SinkURL != "" || cfg.Key != "" || cfg.DryRun {
		t.Errorf("optional settings must default to empty: %+v", cfg)
	}
}

func TestLoadCollectorConfig_Flags(t *testing.T) {
	clearCollectorEnv(t)

	cfg, err := LoadCollectorConfig([]string{
		"-catalog", "/etc/statprobe/catalog.json",
		"-f", "/var/lib/statprobe/snap.json",
		"-d", "postgres://probe@db/probe",
		"-g", "/usr/bin/gmetric",
		"-s", "sink:9090",
		"-k", "sekret",
		"-t", "30",
		"-n",
	}, io.Discard)
	if err != nil {
		t.Fatalf("LoadCollectorConfig: %v", err)
	}

	if cfg.CatalogPath != "/etc/statprobe/catalog.json" {
		t.Errorf("CatalogPath = %q", cfg.CatalogPath)
	}
	if cfg.SnapshotPath != "/var/lib/statprobe/snap.json" {
		t.Errorf("SnapshotPath = %q", cfg.SnapshotPath)
	}
	if cfg.DSN != "postgres://probe@db/probe" {
		t.Errorf("DSN = %q", cfg.DSN)
	}
	if cfg.SinkCommand != "/usr/bin/gmetric" {
		t.Errorf("SinkCommand = %q", cfg.SinkCommand)
	}
	if cfg.SinkURL != "sink:9090" {
		t.Errorf("SinkURL = %q", cfg.SinkURL)
	}
	if cfg.Key != "sekret" {
		t.Errorf("Key = %q", cfg.Key)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Timeout)
	}
	if !cfg.DryRun {
		t.Error("DryRun flag ignored")
	}
	if want := "/var/lib/statprobe/snap.json.lock"; cfg.LockPath != want {
		t.Errorf("LockPath = %q, want %q", cfg.LockPath, want)
	}
}

func TestLoadCollectorConfig_EnvWinsOverFlags(t *testing.T) {
	clearCollectorEnv(t)
	t.Setenv("SNAPSHOT_PATH", "/env/snap.json")
	t.Setenv("COMMAND_TIMEOUT", "5")
	t.Setenv("DRY_RUN", "true")

	cfg, err := LoadCollectorConfig([]string{"-f", "/flag/snap.json", "-t", "60"}, io.Discard)
	if err != nil {
		t.Fatalf("LoadCollectorConfig: %v", err)
	}

	if cfg.SnapshotPath != "/env/snap.json" {
		t.Errorf("SnapshotPath = %q, env must win", cfg.SnapshotPath)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, env must win", cfg.Timeout)
	}
	if !cfg.DryRun {
		t.Error("DRY_RUN env ignored")
	}
}

func TestLoadCollectorConfig_ExplicitLockPath(t *testing.T) {
	clearCollectorEnv(t)

	cfg, err := LoadCollectorConfig([]string{"-lock", "/run/statprobe.lock"}, io.Discard)
	if err != nil {
		t.Fatalf("LoadCollectorConfig: %v", err)
	}
	if cfg.LockPath != "/run/statprobe.lock" {
		t.Errorf("LockPath = %q, want explicit value", cfg.LockPath)
	}
}

func TestLoadCollectorConfig_BadTimeout(t *testing.T) {
	clearCollectorEnv(t)

	if _, err := LoadCollectorConfig([]string{"-t", "-1"}, io.Discard); err == nil {
		t.Error("expected error for negative timeout")
	}
}

func TestLoadSinkConfig(t *testing.T) {
	t.Setenv("ADDRESS", "")
	t.Setenv("KEY", "")

	cfg, err := LoadSinkConfig(nil, io.Discard)
	if err != nil {
		t.Fatalf("LoadSinkConfig: %v", err)
	}
	if cfg.Address != defaultSinkAddress {
		t.Errorf("Address = %q, want %q", cfg.Address, defaultSinkAddress)
	}

	t.Setenv("ADDRESS", "0.0.0.0:8080")
	cfg, err = LoadSinkConfig([]string{"-a", "flagged:1", "-k", "sekret"}, io.Discard)
	if err != nil {
		t.Fatalf("LoadSinkConfig: %v", err)
	}
	if cfg.Address != "0.0.0.0:8080" {
		t.Errorf("Address = %q, env must win", cfg.Address)
	}
	if cfg.Key != "sekret" {
		t.Errorf("Key = %q", cfg.Key)
	}
}
