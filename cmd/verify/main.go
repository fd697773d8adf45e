// Methodology verification: independent cross-checks over the metrics CSV
// and the run archive. Each check recomputes its target from the raw rows
// rather than trusting the ranking outputs.
//
// Usage:
//
//	go run cmd/verify/main.go [-config config/stratlab.yaml]
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"

	"github.com/olekukonko/tablewriter"

	"stratlab/internal/backtest"
	"stratlab/internal/config"
	"stratlab/internal/domain"
	"stratlab/internal/rank"
	"stratlab/internal/report"
	"stratlab/internal/store"
	"stratlab/internal/util"
)

type check struct {
	name   string
	passed bool
	detail string
}

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
	top := rank.TopOutperformers(comps, rank.TopOutperformerLimit)
	ranked := rank.CompositeRank(comps, rank.CompositeLimit)

	checks := []check{
		checkRowStructure(rows),
		checkBenchmarkCoverage(warnings),
		checkMonotonicity(top),
		checkBeatMarket(top),
		checkCompositeScores(ranked),
	}

	fmt.Printf("\nMethodology Verification: %s (%d rows)\n\n", csvPath, len(rows))

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Check", "Result", "Detail")
	failed := 0
	for _, c := range checks {
		result := "PASS"
		if !c.passed {
			result = "FAIL"
			failed++
		}
		table.Append(c.name, result, c.detail)
	}
	table.Render()

	printRunHistory(cfg.Storage.SQLitePath)

	if failed > 0 {
		log.Fatalf("%d of %d checks failed", failed, len(checks))
	}
	fmt.Printf("\nAll %d checks passed.\n", len(checks))
}

// checkRowStructure verifies every ticker carries exactly one benchmark row
// and exactly three strategy rows.
func checkRowStructure(rows []backtest.Result) check {
	type counts struct{ bench, strat int }
	byTicker := make(map[string]*counts)
	for _, r := range rows {
		c := byTicker[r.Ticker]
		if c == nil {
			c = &counts{}
			byTicker[r.Ticker] = c
		}
		if r.Strategy == domain.StrategyBenchmark {
			c.bench++
		} else {
			c.strat++
		}
	}

	bad := 0
	for _, c := range byTicker {
		if c.bench != 1 || c.strat != len(domain.ActiveStrategies) {
			bad++
		}
	}
	return check{
		name:   "row structure",
		passed: bad == 0,
		detail: fmt.Sprintf("%d tickers, %d malformed", len(byTicker), bad),
	}
}

// checkBenchmarkCoverage reports tickers compared against a zero benchmark.
// Missing benchmarks are a data-integrity warning, not a failure.
func checkBenchmarkCoverage(warnings []string) check {
	return check{
		name:   "benchmark coverage",
		passed: true,
		detail: fmt.Sprintf("%d ticker(s) without benchmark", len(warnings)),
	}
}

// checkMonotonicity verifies the outperformer ranking is non-increasing in
// total return.
func checkMonotonicity(top []rank.Comparison) check {
	for i := 1; i < len(top); i++ {
		if top[i].Stats.TotalReturn.Value > top[i-1].Stats.TotalReturn.Value {
			return check{
				name:   "ranking monotonicity",
				passed: false,
				detail: fmt.Sprintf("order violated at position %d", i+1),
			}
		}
	}
	return check{
		name:   "ranking monotonicity",
		passed: true,
		detail: fmt.Sprintf("%d rows non-increasing", len(top)),
	}
}

// checkBeatMarket recomputes the beat-market condition for every ranked
// outperformer. Rows with a negative absolute return are counted but legal:
// they beat an even-more-negative benchmark.
func checkBeatMarket(top []rank.Comparison) check {
	negative := 0
	for _, c := range top {
		if c.Stats.TotalReturn.Value <= c.BenchmarkReturn && c.HasBenchmark {
			return check{
				name:   "beat-market recompute",
				passed: false,
				detail: fmt.Sprintf("%s %s does not beat its benchmark", c.Ticker, c.Strategy),
			}
		}
		if c.Stats.TotalReturn.Value < 0 {
			negative++
		}
	}
	return check{
		name:   "beat-market recompute",
		passed: true,
		detail: fmt.Sprintf("%d rows verified, %d with negative absolute return", len(top), negative),
	}
}

// checkCompositeScores recomputes every composite score and verifies ranks
// are sequential from 1.
func checkCompositeScores(ranked []rank.RankedRow) check {
	const tolerance = 1e-6
	for i, r := range ranked {
		if r.Rank != i+1 {
			return check{
				name:   "composite scores",
				passed: false,
				detail: fmt.Sprintf("rank %d at position %d", r.Rank, i+1),
			}
		}
		if math.Abs(rank.CompositeScore(r.Comparison)-r.CompositeScore) > tolerance {
			return check{
				name:   "composite scores",
				passed: false,
				detail: fmt.Sprintf("score mismatch for %s %s", r.Ticker, r.Strategy),
			}
		}
	}
	return check{
		name:   "composite scores",
		passed: true,
		detail: fmt.Sprintf("%d scores recomputed", len(ranked)),
	}
}

// printRunHistory lists recent archived runs, when the archive exists.
func printRunHistory(dbPath string) {
	if _, err := os.Stat(dbPath); err != nil {
		return
	}

	archive, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		fmt.Printf("\nrun archive unavailable: %v\n", err)
		return
	}
	defer archive.Close()

	history, err := archive.RunHistory(context.Background(), 10)
	if err != nil || len(history) == 0 {
		return
	}

	fmt.Printf("\nRecent Runs\n\n")
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Run", "Started", "Tickers", "Rows")
	for _, h := range history {
		table.Append(
			fmt.Sprintf("%d", h.ID),
			h.StartedAt.Format("2006-01-02 15:04"),
			fmt.Sprintf("%d", h.Tickers),
			fmt.Sprintf("%d", h.Rows),
		)
	}
	table.Render()
}
