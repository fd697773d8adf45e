// Cross-sectional summary: reads the metrics CSV, joins every strategy row
// to its ticker's benchmark, renders the master dashboard, and prints the
// pure-outperformer ranking to the console.
//
// Usage:
//
//	go run cmd/summary/main.go [-config config/stratlab.yaml]
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

	top := rank.TopOutperformers(comps, rank.TopOutperformerLimit)
	summary := rank.SummarizeByStrategy(comps)
	findings := buildFindings(top, summary, len(warnings))

	dashPath := filepath.Join(cfg.Output.AnalysisDir, "performance_dashboard.html")
	if err := report.RenderMasterDashboard(dashPath, comps, top, summary, findings); err != nil {
		log.Fatalf("rendering dashboard: %v", err)
	}
	logger.Info("wrote dashboard", "path", dashPath, "rows", len(comps), "top", len(top))

	printTop(top)
}

// buildFindings derives the key-findings bullet list for the dashboard.
func buildFindings(top []rank.Comparison, summary []rank.StrategySummary, warnings int) []string {
	var findings []string

	if len(top) > 0 {
		best := top[0]
		findings = append(findings, fmt.Sprintf(
			"Best market-beating combination: %s %s at %.2f%% total return (%.2f%% over benchmark).",
			best.Ticker, best.Strategy, best.Stats.TotalReturn.Value, best.Outperformance))
	} else {
		findings = append(findings, "No strategy beat its benchmark over the tested period.")
	}

	for _, s := range summary {
		if s.Count == 0 {
			continue
		}
		findings = append(findings, fmt.Sprintf(
			"%s beat the market on %d of %d stocks (avg return %.2f%%, avg Sharpe %.3f).",
			s.Strategy, s.Wins, s.Count, s.AvgReturn, s.AvgSharpe))
	}

	if warnings > 0 {
		findings = append(findings, fmt.Sprintf(
			"%d ticker(s) had no benchmark row and were compared against 0%%.", warnings))
	}
	return findings
}

// printTop writes the pure-outperformer ranking to the console.
func printTop(top []rank.Comparison) {
	fmt.Printf("\nTop %d Market-Beating Strategies (by Total Return)\n\n", len(top))

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("#", "Stock", "Strategy", "Return", "Sharpe", "Max DD", "Outperform")
	for i, c := range top {
		table.Append(
			fmt.Sprintf("%d", i+1),
			c.Ticker,
			c.Strategy,
			report.FormatPercent(c.Stats.TotalReturn),
			report.FormatRatio(c.Stats.SharpeRatio),
			report.FormatPercent(c.Stats.MaxDrawdown),
			fmt.Sprintf("%.2f%%", c.Outperformance),
		)
	}
	table.Render()
}
