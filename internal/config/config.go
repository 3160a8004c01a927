// Package config loads the collector configuration and the metric catalog.
package config

import (
	"flag"
	"fmt"
	"io"
	"time"
)

const (
	defaultSnapshotPath = "statprobe-snapshot.json"
	defaultSinkCommand  = "gmetric"
	defaultDSN          = ""
	defaultTimeout      = 10
)

// CollectorConfig carries everything a single collector run needs.
type CollectorConfig struct {
	CatalogPath  string
	SnapshotPath string
	DSN          string
	SinkCommand  string
	SinkURL      string
	Key          string
	LockPath     string
	Timeout      time.Duration
	DryRun       bool
}

// LoadCollectorConfig resolves configuration with ENV > CLI > defaults.
func LoadCollectorConfig(args []string, out io.Writer) (CollectorConfig, error) {
	if out == nil {
		out = io.Discard
	}

	fs := flag.NewFlagSet("collector", flag.ContinueOnError)
	fs.SetOutput(out)

	var catalogOpt string
	var fileOpt string
	var dsnOpt string
	var sinkCmdOpt string
	var sinkURLOpt string
	var keyOpt string
	var lockOpt string
	var timeoutOpt int
	var dryRunOpt bool

	fs.StringVar(&catalogOpt, "catalog", "", "path to catalog JSON (empty - built-in catalog)")
	fs.StringVar(&fileOpt, "f", "", fmt.Sprintf("SNAPSHOT_PATH, default: %s", defaultSnapshotPath))
	fs.StringVar(&dsnOpt, "d", "", "DATABASE_DSN for the Postgres snapshot store (empty - file store)")
	fs.StringVar(&sinkCmdOpt, "g", "", fmt.Sprintf("SINK_COMMAND invoked once per metric, default: %s", defaultSinkCommand))
	fs.StringVar(&sinkURLOpt, "s", "", "SINK_URL for HTTP publishing (empty - disabled)")
	fs.StringVar(&keyOpt, "k", "", "secret key for HashSHA256 header on HTTP publishes")
	fs.StringVar(&lockOpt, "lock", "", "LOCK_PATH for the run lock, default: <snapshot path>.lock")
	fs.IntVar(&timeoutOpt, "t", 0, fmt.Sprintf("COMMAND_TIMEOUT seconds per external call, default: %d", defaultTimeout))
	fs.BoolVar(&dryRunOpt, "n", false, "DRY_RUN: log measurements instead of publishing")

	if err := fs.Parse(args); err != nil {
		return CollectorConfig{}, err
	}

	timeout, _ := FromEnvOrFlagDuration("COMMAND_TIMEOUT", timeoutOpt, 0, defaultTimeout)
	if timeout <= 0 {
		return CollectorConfig{}, fmt.Errorf("command timeout must be > 0, got %v", timeout)
	}

	cfg := CollectorConfig{
		CatalogPath:  FromEnvOrFlag("CATALOG", catalogOpt, ""),
		SnapshotPath: FromEnvOrFlag("SNAPSHOT_PATH", fileOpt, defaultSnapshotPath),
		DSN:          FromEnvOrFlag("DATABASE_DSN", dsnOpt, defaultDSN),
		SinkCommand:  FromEnvOrFlag("SINK_COMMAND", sinkCmdOpt, defaultSinkCommand),
		SinkURL:      FromEnvOrFlag("SINK_URL", sinkURLOpt, ""),
		Key:          FromEnvOrFlag("KEY", keyOpt, ""),
		LockPath:     FromEnvOrFlag("LOCK_PATH", lockOpt, ""),
		Timeout:      timeout,
		DryRun:       FromEnvOrFlagBool("DRY_RUN", dryRunOpt, false),
	}
	if cfg.LockPath == "" {
		cfg.LockPath = cfg.SnapshotPath + ".lock"
	}

	return cfg, nil
}
