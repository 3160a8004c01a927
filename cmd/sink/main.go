// Sink is a development receiver for the collector's HTTP publishing: it
// stores the latest value per metric in memory and serves them back for
// inspection.
package main

import (
	"log"
	"net/http"
	"os"

	"go.uber.org/zap"

	"github.com/vshulcz/statprobe/internal/config"
	"github.com/vshulcz/statprobe/internal/sinkserver"
	"github.com/vshulcz/statprobe/internal/sinkserver/middlewares"
	"github.com/vshulcz/statprobe/pkg/util"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	util.PrintBuildInfo(buildVersion, buildDate, buildCommit)

	cfg, err := config.LoadSinkConfig(os.Args[1:], nil)
	if err != nil {
		log.Fatalf("failed to parse flags: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	h := sinkserver.NewHandler(logger)
	r := sinkserver.NewRouter(h, logger,
		middlewares.ZapLogger(logger),
		middlewares.GzipRequest(),
		middlewares.GzipResponse(),
		middlewares.HashSHA256(cfg.Key),
	)

	logger.Info("sink listening", zap.String("address", cfg.Address))
	if err := http.ListenAndServe(cfg.Address, r); err != nil {
		log.Fatal(err)
	}
}
