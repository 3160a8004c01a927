package collector

import (
	"go.uber.org/zap"

	"github.com/vshulcz/statprobe/internal/domain"
)

// PostContext is what a post-processor sees after the rate engine finished
// a service: the finalized measurements plus the raw inputs the engine used,
// so composite ratios can re-derive their own deltas.
type PostContext struct {
	Service      domain.ServiceDefinition
	Curr         domain.RawSample
	Prev         domain.RawSample
	TimeBase     *TimeBase
	Measurements []domain.Measurement
	Log          *zap.Logger
}

// Upsert replaces the measurement with the same key or appends a new one.
func (pc *PostContext) Upsert(m domain.Measurement) {
	for i := range pc.Measurements {
		if pc.Measurements[i].Key == m.Key {
			pc.Measurements[i] = m
			return
		}
	}
	pc.Measurements = append(pc.Measurements, m)
}

// PostProcess derives or adjusts measurements for one service. Resolved per
// service name when the pipeline is built, never by runtime lookup.
type PostProcess func(pc *PostContext)

// DefaultPostProcessors maps service names to their shipped post-processing
// steps.
func DefaultPostProcessors() map[string]PostProcess {
	return map[string]PostProcess{
		"memcached": MemcachedHitPercentage,
	}
}

// CacheHitsPercentageKey names the synthetic memcached ratio metric.
const CacheHitsPercentageKey = "cache_hits_percentage"

// MemcachedHitPercentage adds the share of gets served from cache since the
// previous run: 100 * delta(get_hits) / delta(cmd_get), independently
// rounded. Uses the same fallback-to-current delta policy as the rate
// engine, so a restart inflates this sample the same way it inflates rates.
func MemcachedHitPercentage(pc *PostContext) {
	hits, ok := pc.Curr["get_hits"]
	if !ok {
		pc.Log.Warn("hit percentage skipped: get_hits missing",
			zap.String("service", pc.Service.Name))
		return
	}
	gets, ok := pc.Curr["cmd_get"]
	if !ok {
		pc.Log.Warn("hit percentage skipped: cmd_get missing",
			zap.String("service", pc.Service.Name))
		return
	}

	deltaHits := deltaOr(hits, pc.Prev, "get_hits")
	deltaGets := deltaOr(gets, pc.Prev, "cmd_get")
	if deltaGets == 0 {
		pc.Log.Warn("hit percentage skipped: no gets in window",
			zap.String("service", pc.Service.Name))
		return
	}

	pc.Upsert(domain.Measurement{
		Key:   CacheHitsPercentageKey,
		Name:  "mc_cache_hits_percentage",
		Type:  domain.TypeFloat,
		Units: "%",
		Value: round2(100 * deltaHits / deltaGets),
	})
}
