// Package collector implements one collection run: sample every cataloged
// service, turn counters into rates against the previous run's snapshot,
// persist the new snapshot, and publish the finalized measurements.
package collector

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/vshulcz/statprobe/internal/domain"
	"github.com/vshulcz/statprobe/internal/ports"
	"github.com/vshulcz/statprobe/pkg/observer"
)

// ErrNoSamples is returned when no cataloged service produced a sample.
var ErrNoSamples = errors.New("no service produced a sample")

// Service wires the catalog, samplers, snapshot store, post-processors,
// and publish fan-out into a single sequential run.
type Service struct {
	catalog  []domain.ServiceDefinition
	samplers map[domain.SamplerKind]ports.Sampler
	store    ports.SnapshotStore
	post     map[string]PostProcess
	pub      *observer.Subject[domain.Measurement]
	log      *zap.Logger
}

// New builds a run pipeline. Post-processors are resolved here, once, from
// the provided registry; services without an entry simply have none.
func New(
	catalog []domain.ServiceDefinition,
	samplers map[domain.SamplerKind]ports.Sampler,
	store ports.SnapshotStore,
	post map[string]PostProcess,
	pub *observer.Subject[domain.Measurement],
	log *zap.Logger,
) *Service {
	if post == nil {
		post = DefaultPostProcessors()
	}
	resolved := make(map[string]PostProcess, len(catalog))
	for _, svc := range catalog {
		if pp, ok := post[svc.Name]; ok {
			resolved[svc.Name] = pp
		}
	}
	return &Service{
		catalog:  catalog,
		samplers: samplers,
		store:    store,
		post:     resolved,
		pub:      pub,
		log:      log,
	}
}

// Run executes one collection pass. Per-field and per-service failures are
// logged and isolated; the error return is reserved for a run that could
// not sample anything at all.
func (s *Service) Run(ctx context.Context) error {
	prev, err := s.store.Load(ctx)
	if err != nil {
		s.log.Warn("snapshot load failed, starting from scratch", zap.Error(err))
		prev = domain.Snapshot{}
	}

	next := domain.Snapshot{}
	var all []domain.Measurement

	for _, svc := range s.catalog {
		sampler, ok := s.samplers[svc.Sampler]
		if !ok {
			s.log.Error("no sampler registered",
				zap.String("service", svc.Name),
				zap.String("sampler", string(svc.Sampler)),
			)
			continue
		}

		curr, err := sampler.Sample(ctx, svc)
		if err != nil {
			s.log.Warn("sampling failed",
				zap.String("service", svc.Name),
				zap.Error(err),
			)
			continue
		}

		ms, tb := Compute(svc, curr, prev.Sample(svc.Name), s.log)
		if pp := s.post[svc.Name]; pp != nil {
			pc := &PostContext{
				Service:      svc,
				Curr:         curr,
				Prev:         prev.Sample(svc.Name),
				TimeBase:     tb,
				Measurements: ms,
				Log:          s.log,
			}
			pp(pc)
			ms = pc.Measurements
		}

		// Raw current values go to the snapshot regardless of what the
		// rate engine produced for publishing.
		next.SetSample(svc, curr)
		all = append(all, ms...)

		s.log.Info("service collected",
			zap.String("service", svc.Name),
			zap.Int("fields", len(curr)),
			zap.Int("measurements", len(ms)),
		)
	}

	if len(next) == 0 {
		return ErrNoSamples
	}

	if err := s.store.Save(ctx, next); err != nil {
		// Not fatal: this run's measurements still go out, only the next
		// run's deltas degrade to first-run behavior.
		s.log.Error("snapshot save failed", zap.Error(err))
	}

	for _, m := range all {
		s.pub.Publish(ctx, m)
	}
	s.log.Info("run finished", zap.Int("measurements", len(all)))
	return nil
}
