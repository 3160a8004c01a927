// Package command implements the exec-based sampler: it runs a service's
// retrieval command and extracts declared fields from the text output.
package command

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"time"

	"github.com/vshulcz/statprobe/internal/domain"
	"github.com/vshulcz/statprobe/internal/ports"
)

// Sampler runs retrieval commands through the shell with a bounded timeout.
type Sampler struct {
	shell   string
	timeout time.Duration
}

var _ ports.Sampler = (*Sampler)(nil)

// New returns a Sampler that kills any retrieval command running longer
// than timeout.
func New(timeout time.Duration) *Sampler {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Sampler{shell: "/bin/sh", timeout: timeout}
}

// Sample executes svc.Command and extracts every declared field from its
// standard output. A field without a match is left out of the sample; the
// command exiting non-zero is tolerated as long as it produced output.
func (s *Sampler) Sample(ctx context.Context, svc domain.ServiceDefinition) (domain.RawSample, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, s.shell, "-c", svc.Command) // #nosec G204
	out, err := cmd.Output()
	if len(out) == 0 {
		if err != nil {
			return nil, fmt.Errorf("run %q: %w", svc.Command, err)
		}
		return nil, fmt.Errorf("run %q: empty output", svc.Command)
	}

	return Extract(string(out), svc.Metrics), nil
}

// Extract pulls each metric's first numeric value out of text using the
// status-page convention: the key as a whole word, optionally followed by
// non-whitespace (a colon, a suffix), then whitespace, then the number.
func Extract(text string, metrics []domain.MetricDefinition) domain.RawSample {
	raw := make(domain.RawSample, len(metrics))
	for _, m := range metrics {
		v, err := extractField(text, m.Key)
		if err != nil {
			continue
		}
		raw[m.Key] = v
	}
	return raw
}

func extractField(text, key string) (float64, error) {
	re, err := regexp.Compile(`\b` + regexp.QuoteMeta(key) + `\S*\s+([0-9.]+)`)
	if err != nil {
		return 0, fmt.Errorf("pattern for %q: %w", key, err)
	}
	match := re.FindStringSubmatch(text)
	if match == nil {
		return 0, fmt.Errorf("%q: %w", key, domain.ErrFieldNotFound)
	}
	v, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0, fmt.Errorf("%q: parse %q: %w", key, match[1], err)
	}
	return v, nil
}
