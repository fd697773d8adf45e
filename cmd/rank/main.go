// Composite ranking: reads the metrics CSV, scores every qualifying
// strategy-stock combination, renders the top-performers page, writes the
// detailed CSV, and prints the leaderboard to the console.
//
// Usage:
//
//	go run cmd/rank/main.go [-config config/stratlab.yaml]
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/olekukonko/tablewriter"

	"stratlab/internal/config"
	"stratlab/internal/rank"
	"stratlab/internal/report"
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

	csvPath := filepath.Join(cfg.Output.ResultsDir, "strategy_metrics.csv")
	rows, err := report.ReadMetricsCSV(csvPath)
	if err != nil {
		log.Fatalf("reading %s: %v", csvPath, err)
	}

	comps, warnings := rank.AttachBenchmark(rows)
	for _, w := range warnings {
		logger.Warn(w)
	}

	ranked := rank.CompositeRank(comps, rank.CompositeLimit)
	if len(ranked) == 0 {
		logger.Warn("no combination passed the composite filter")
	}

	pagePath := filepath.Join(cfg.Output.AnalysisDir, "top_performers.html")
	if err := report.RenderTopPerformers(pagePath, ranked); err != nil {
		log.Fatalf("rendering top performers: %v", err)
	}

	detailPath := filepath.Join(cfg.Output.ResultsDir, "top_performers_detailed.csv")
	if err := report.WriteTopPerformersCSV(detailPath, ranked); err != nil {
		log.Fatalf("writing %s: %v", detailPath, err)
	}
	logger.Info("ranking complete", "page", pagePath, "csv", detailPath, "rows", len(ranked))

	printRanked(ranked)
}

// printRanked writes the composite leaderboard to the console.
func printRanked(ranked []rank.RankedRow) {
	fmt.Printf("\nTop %d Strategy-Stock Combinations (by Composite Score)\n\n", len(ranked))

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Rank", "Stock", "Strategy", "Return", "Sharpe", "Max DD", "vs Market", "Score")
	for _, r := range ranked {
		table.Append(
			fmt.Sprintf("%d", r.Rank),
			r.Ticker,
			r.Strategy,
			report.FormatPercent(r.Stats.TotalReturn),
			report.FormatRatio(r.Stats.SharpeRatio),
			report.FormatPercent(r.Stats.MaxDrawdown),
			fmt.Sprintf("%.2f%%", r.Outperformance),
			fmt.Sprintf("%.3f", r.CompositeScore),
		)
	}
	table.Render()
}
