// Full pipeline: fetch daily history for the configured universe, build the
// three strategy signal sets, simulate the four portfolios per ticker, write
// the per-ticker dashboards and the metrics CSV, and archive the run.
//
// Usage:
//
//	go run cmd/backtest/main.go [-config config/stratlab.yaml]
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"stratlab/internal/config"
	"stratlab/internal/gather/us"
	"stratlab/internal/pipeline"
	"stratlab/internal/report"
	"stratlab/internal/store"
	"stratlab/internal/util"
)

func main() {
	defaultCfg := "config/stratlab.yaml"
	if p := os.Getenv("STRATLAB_CONFIG"); p != "" {
		defaultCfg = p
	}
	cfgPath := flag.String("config", defaultCfg, "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := util.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	util.SetDefault(logger)

	cache := store.NewParquetStore(cfg.Storage.DataDir)
	fetcher := us.NewAlpacaFetcher(
		cfg.Alpaca.APIKey,
		cfg.Alpaca.APISecret,
		cfg.Alpaca.DataURL,
		cache,
		cfg.Alpaca.RateLimitPerMin,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	runStart := time.Now().UTC()
	logger.Info("starting backtest",
		"tickers", len(cfg.Universe.Tickers),
		"start", cfg.Backtest.StartDate,
		"fetcher", fetcher.Name(),
	)

	results, err := pipeline.New(fetcher, cfg).Run(ctx)
	if err != nil {
		log.Fatalf("pipeline error: %v", err)
	}
	if len(results) == 0 {
		log.Fatalf("no ticker produced results")
	}

	csvPath := filepath.Join(cfg.Output.ResultsDir, "strategy_metrics.csv")
	if err := report.WriteMetricsCSV(csvPath, results); err != nil {
		log.Fatalf("writing metrics CSV: %v", err)
	}
	logger.Info("wrote metrics", "path", csvPath, "rows", len(results))

	archive, err := store.NewSQLiteStore(cfg.Storage.SQLitePath)
	if err != nil {
		log.Fatalf("opening run archive: %v", err)
	}
	defer archive.Close()

	runID, err := archive.SaveRun(ctx, runStart, results)
	if err != nil {
		log.Fatalf("archiving run: %v", err)
	}
	logger.Info("run archived", "runID", runID, "elapsed", time.Since(runStart).Round(time.Second))
}
