// Collector samples every cataloged service once, converts counters to
// per-second rates against the previous run's snapshot, and publishes the
// results. It is meant to run from cron or a systemd timer.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/vshulcz/statprobe/internal/adapters/sampler/command"
	"github.com/vshulcz/statprobe/internal/adapters/sampler/hostmem"
	"github.com/vshulcz/statprobe/internal/adapters/sink/gmetric"
	"github.com/vshulcz/statprobe/internal/adapters/sink/httpjson"
	"github.com/vshulcz/statprobe/internal/adapters/snapshot/file"
	"github.com/vshulcz/statprobe/internal/adapters/snapshot/postgres"
	"github.com/vshulcz/statprobe/internal/config"
	"github.com/vshulcz/statprobe/internal/domain"
	"github.com/vshulcz/statprobe/internal/misc"
	"github.com/vshulcz/statprobe/internal/ports"
	"github.com/vshulcz/statprobe/internal/services/collector"
	"github.com/vshulcz/statprobe/pkg/observer"
	"github.com/vshulcz/statprobe/pkg/util"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	util.PrintBuildInfo(buildVersion, buildDate, buildCommit)

	cfg, err := config.LoadCollectorConfig(os.Args[1:], nil)
	if err != nil {
		log.Fatalf("failed to parse flags: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("run failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config.CollectorConfig, logger *zap.Logger) error {
	lock, err := misc.AcquireRunLock(cfg.LockPath)
	if errors.Is(err, misc.ErrLocked) {
		// Overlapping cron invocation: the running instance owns this cycle.
		logger.Warn("another run holds the lock, skipping",
			zap.String("lock", cfg.LockPath))
		return nil
	}
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Warn("lock release failed", zap.Error(err))
		}
	}()

	catalog, err := config.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		return err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("store close failed", zap.Error(err))
		}
	}()

	samplers := map[domain.SamplerKind]ports.Sampler{
		domain.SamplerCommand: command.New(cfg.Timeout),
		domain.SamplerHostMem: hostmem.New(),
	}

	pub, err := buildPublisher(cfg, logger)
	if err != nil {
		return err
	}

	svc := collector.New(catalog, samplers, store, nil, pub, logger)
	return svc.Run(ctx)
}

func buildStore(ctx context.Context, cfg config.CollectorConfig) (ports.SnapshotStore, error) {
	if cfg.DSN != "" {
		return postgres.Open(ctx, cfg.DSN)
	}
	return file.New(cfg.SnapshotPath), nil
}

func buildPublisher(cfg config.CollectorConfig, logger *zap.Logger) (*observer.Subject[domain.Measurement], error) {
	pub := observer.NewSubject[domain.Measurement]()
	pub.SetErrorHandler(func(err error) {
		logger.Warn("publish failed", zap.Error(err))
	})

	if cfg.DryRun {
		pub.Attach(observer.ObserverFunc[domain.Measurement](func(_ context.Context, m domain.Measurement) error {
			logger.Info("dry run",
				zap.String("name", m.Name),
				zap.Float64("value", m.Value),
				zap.String("units", m.Units),
				zap.String("type", string(m.Type)),
			)
			return nil
		}))
		return pub, nil
	}

	sink := gmetric.New(cfg.SinkCommand, cfg.Timeout)
	pub.Attach(observer.ObserverFunc[domain.Measurement](sink.Publish))

	if cfg.SinkURL != "" {
		client, err := httpjson.New(cfg.SinkURL, &http.Client{Timeout: cfg.Timeout}, cfg.Key)
		if err != nil {
			return nil, err
		}
		pub.Attach(observer.ObserverFunc[domain.Measurement](client.Publish))
	}
	return pub, nil
}
