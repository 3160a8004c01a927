// Package gmetric publishes measurements by invoking an external
// gmetric-style command once per metric.
package gmetric

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"time"

	"github.com/vshulcz/statprobe/internal/domain"
)

// Sink shells out to the configured command for every measurement.
type Sink struct {
	command string
	timeout time.Duration
}

// New returns a Sink invoking command with a bounded timeout per call.
func New(command string, timeout time.Duration) *Sink {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Sink{command: command, timeout: timeout}
}

// Publish forwards one measurement. A failure affects only this metric.
func (s *Sink) Publish(ctx context.Context, m domain.Measurement) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, s.command, Args(m)...) // #nosec G204
	out, err := cmd.CombinedOutput()
	if err != nil {
		if msg := bytes.TrimSpace(out); len(msg) > 0 {
			return fmt.Errorf("publish %s: %w: %s", m.Name, err, msg)
		}
		return fmt.Errorf("publish %s: %w", m.Name, err)
	}
	return nil
}

// Args builds the command-line arguments for one measurement.
func Args(m domain.Measurement) []string {
	return []string{
		"--name=" + m.Name,
		"--value=" + FormatValue(m),
		"--type=" + string(m.Type),
		"--units=" + m.Units,
	}
}

// FormatValue renders the value per its type tag: integral for uint32,
// shortest round-trip form for float.
func FormatValue(m domain.Measurement) string {
	if m.Type == domain.TypeUint32 {
		return strconv.FormatUint(uint64(m.Value), 10)
	}
	return strconv.FormatFloat(m.Value, 'f', -1, 64)
}
