package collector

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/vshulcz/statprobe/internal/domain"
)

// TimeBase lazily computes a service's elapsed-time window for the run and
// caches it, so every rate field of the service divides by the same value.
type TimeBase struct {
	key  string
	curr domain.RawSample
	prev domain.RawSample
	val  float64
	err  error
	done bool
}

// NewTimeBase prepares the time-base computation for one service and run.
func NewTimeBase(svc domain.ServiceDefinition, curr, prev domain.RawSample) *TimeBase {
	return &TimeBase{key: svc.TimeBaseKey, curr: curr, prev: prev}
}

// Delta returns the elapsed window: the change in the service's own uptime
// counter since the previous run, or the absolute current reading when
// there is no valid prior baseline (first run, counter reset).
func (t *TimeBase) Delta() (float64, error) {
	if !t.done {
		t.done = true
		cv, ok := t.curr[t.key]
		if !ok {
			t.err = fmt.Errorf("time base %q: %w", t.key, domain.ErrFieldNotFound)
		} else {
			t.val = deltaOr(cv, t.prev, t.key)
		}
	}
	return t.val, t.err
}

// deltaOr returns curr minus the previous reading when that difference is
// defined and non-negative. A missing previous value or a counter that went
// backward both fall back to the absolute current reading: one inflated
// since-boot sample instead of a negative rate.
func deltaOr(curr float64, prev domain.RawSample, key string) float64 {
	if prev != nil {
		if p, ok := prev[key]; ok {
			if d := curr - p; d >= 0 {
				return d
			}
		}
	}
	return curr
}

// round2 rounds derived rate values to two decimal places. Raw and
// absolute values are never rounded.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Compute turns one service's current raw sample into finalized
// measurements: absolute fields pass through unchanged, rate fields become
// per-second deltas against prev. Per-field failures are logged and skip
// only that field.
func Compute(svc domain.ServiceDefinition, curr, prev domain.RawSample, log *zap.Logger) ([]domain.Measurement, *TimeBase) {
	tb := NewTimeBase(svc, curr, prev)
	out := make([]domain.Measurement, 0, len(svc.Metrics))

	for _, m := range svc.Metrics {
		cv, ok := curr[m.Key]
		if !ok {
			log.Warn("field missing from sample",
				zap.String("service", svc.Name),
				zap.String("key", m.Key),
			)
			continue
		}

		var value float64
		switch m.Mode {
		case domain.ModeAbsolute:
			value = cv
		case domain.ModeRate:
			ud, err := tb.Delta()
			if err != nil {
				log.Warn("rate skipped: no time base",
					zap.String("service", svc.Name),
					zap.String("key", m.Key),
					zap.Error(err),
				)
				continue
			}
			if ud == 0 {
				log.Warn("rate skipped",
					zap.String("service", svc.Name),
					zap.String("key", m.Key),
					zap.Error(domain.ErrZeroTimeBase),
				)
				continue
			}
			value = round2(deltaOr(cv, prev, m.Key) / ud)
		default:
			continue
		}

		out = append(out, domain.Measurement{
			Key:   m.Key,
			Name:  m.Name,
			Type:  m.Type,
			Units: m.Units,
			Value: value,
		})
	}
	return out, tb
}
