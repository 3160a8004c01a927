// Package ports declares the interfaces between the collector pipeline and
// its adapters.
package ports

import (
	"context"

	"github.com/vshulcz/statprobe/internal/domain"
)

// Sampler obtains one raw sample for a service. Implementations decide how:
// by running the service's retrieval command or by reading host state
// directly. A field that cannot be obtained is left out of the sample; an
// error means the service produced nothing usable this run.
type Sampler interface {
	Sample(ctx context.Context, svc domain.ServiceDefinition) (domain.RawSample, error)
}

// SnapshotStore persists the raw sample set between runs. Load returns an
// empty snapshot, not an error, when no previous snapshot exists. Save
// replaces the stored snapshot wholesale and must be all-or-nothing.
type SnapshotStore interface {
	Load(ctx context.Context) (domain.Snapshot, error)
	Save(ctx context.Context, snap domain.Snapshot) error
	Close() error
}
