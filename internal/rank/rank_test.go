package rank

import (
	"fmt"
	"math"
	"testing"

	"stratlab/internal/backtest"
	"stratlab/internal/domain"
)

// row builds one results-table entry with the metrics the ranking reads.
func row(ticker, strategy string, totalReturn, sharpe, maxDD float64) backtest.Result {
	return backtest.Result{
		Ticker:   ticker,
		Strategy: strategy,
		Stats: backtest.Stats{
			TotalReturn: backtest.Computed(totalReturn),
			SharpeRatio: backtest.Computed(sharpe),
			MaxDrawdown: backtest.Computed(maxDD),
		},
	}
}

func TestAttachBenchmark(t *testing.T) {
	rows := []backtest.Result{
		row("AAPL", domain.StrategyTrend, 30, 1.2, -10),
		row("AAPL", domain.StrategyBenchmark, 20, 0.9, -15),
		row("MSFT", domain.StrategyTrend, 10, 0.8, -8),
	}

	comps, warnings := AttachBenchmark(rows)

	if len(comps) != 2 {
		t.Fatalf("comparisons = %d, want 2 (benchmark rows excluded)", len(comps))
	}

	aapl := comps[0]
	if !aapl.HasBenchmark || aapl.BenchmarkReturn != 20 {
		t.Errorf("AAPL benchmark = %v (has=%v), want 20", aapl.BenchmarkReturn, aapl.HasBenchmark)
	}
	if !aapl.BeatMarket || aapl.Outperformance != 10 {
		t.Errorf("AAPL beat=%v outperf=%v, want true/10", aapl.BeatMarket, aapl.Outperformance)
	}

	// MSFT has no benchmark row: compared against zero, flagged once.
	msft := comps[1]
	if msft.HasBenchmark || msft.BenchmarkReturn != 0 {
		t.Errorf("MSFT benchmark = %v (has=%v), want 0/false", msft.BenchmarkReturn, msft.HasBenchmark)
	}
	if len(warnings) != 1 {
		t.Errorf("warnings = %v, want exactly one for MSFT", warnings)
	}
}

func TestAttachBenchmarkSkipsIncompleteRows(t *testing.T) {
	rows := []backtest.Result{
		{Ticker: "AAPL", Strategy: domain.StrategyTrend, Stats: backtest.Stats{
			TotalReturn: backtest.NotApplicable(),
			SharpeRatio: backtest.Computed(1),
		}},
		row("AAPL", domain.StrategyBenchmark, 5, 0.5, -5),
	}

	comps, _ := AttachBenchmark(rows)
	if len(comps) != 0 {
		t.Errorf("comparisons = %d, want 0 when metrics are missing", len(comps))
	}
}

func TestTopOutperformersNegativeReturnQualifies(t *testing.T) {
	// A -4.8% strategy beats a -5.7% benchmark. Intentional methodology:
	// losing less than the market still counts as outperformance.
	rows := []backtest.Result{
		row("INTC", domain.StrategyTrend, -4.8, 0.1, -20),
		row("INTC", domain.StrategyBenchmark, -5.7, -0.1, -30),
	}

	comps, _ := AttachBenchmark(rows)
	top := TopOutperformers(comps, TopOutperformerLimit)

	if len(top) != 1 {
		t.Fatalf("top = %d rows, want 1", len(top))
	}
	if top[0].Ticker != "INTC" || !top[0].BeatMarket {
		t.Errorf("expected the negative-return INTC row to qualify, got %+v", top[0])
	}
	if math.Abs(top[0].Outperformance-0.9) > 1e-9 {
		t.Errorf("Outperformance = %v, want 0.9", top[0].Outperformance)
	}
}

func TestTopOutperformersFewerThanLimit(t *testing.T) {
	// 20 tickers, but only 9 strategies beat their benchmark: the view must
	// contain exactly 9 rows, never padded to the limit.
	var rows []backtest.Result
	for i := 0; i < 20; i++ {
		ticker := fmt.Sprintf("T%02d", i)
		ret := -10.0
		if i < 9 {
			ret = float64(10 + i)
		}
		rows = append(rows, row(ticker, domain.StrategyTrend, ret, 1, -10))
		rows = append(rows, row(ticker, domain.StrategyBenchmark, 0, 0.5, -10))
	}

	comps, _ := AttachBenchmark(rows)
	top := TopOutperformers(comps, TopOutperformerLimit)

	if len(top) != 9 {
		t.Fatalf("top = %d rows, want exactly 9", len(top))
	}
	for i := 1; i < len(top); i++ {
		if top[i].Stats.TotalReturn.Value > top[i-1].Stats.TotalReturn.Value {
			t.Errorf("ranking not monotonic at position %d", i)
		}
	}
	for _, c := range top {
		if !c.BeatMarket {
			t.Errorf("%s in the top view without beating its benchmark", c.Ticker)
		}
	}
}

func TestCompositeRank(t *testing.T) {
	rows := []backtest.Result{
		row("AAPL", domain.StrategyTrend, 40, 1.5, -10),
		row("AAPL", domain.StrategyBenchmark, 20, 0.9, -15),
		row("MSFT", domain.StrategyHighVol, 25, 2.0, -5),
		row("MSFT", domain.StrategyBenchmark, 10, 0.7, -12),
		// Filtered out: Sharpe at the threshold.
		row("NVDA", domain.StrategyLowVol, 50, 0.5, -20),
		row("NVDA", domain.StrategyBenchmark, 10, 0.6, -25),
		// Filtered out: positive return but behind its benchmark.
		row("AMD", domain.StrategyTrend, 5, 1.2, -10),
		row("AMD", domain.StrategyBenchmark, 15, 1.0, -12),
	}

	comps, _ := AttachBenchmark(rows)
	ranked := CompositeRank(comps, CompositeLimit)

	if len(ranked) != 2 {
		t.Fatalf("ranked = %d rows, want 2", len(ranked))
	}

	for i, r := range ranked {
		if r.Rank != i+1 {
			t.Errorf("rank at position %d = %d, want %d", i, r.Rank, i+1)
		}
		// The stored score must match an independent recomputation.
		if math.Abs(CompositeScore(r.Comparison)-r.CompositeScore) > 1e-6 {
			t.Errorf("%s score mismatch: %v vs %v",
				r.Ticker, r.CompositeScore, CompositeScore(r.Comparison))
		}
	}
	for i := 1; i < len(ranked); i++ {
		if ranked[i].CompositeScore > ranked[i-1].CompositeScore {
			t.Errorf("composite ranking not monotonic at position %d", i)
		}
	}
}

func TestCompositeScoreWeights(t *testing.T) {
	c := Comparison{
		Result:         row("X", domain.StrategyTrend, 100, 2, -20),
		Outperformance: 50,
	}

	// 0.4*2 + 0.3*1 + 0.2*0.5 + 0.1*0.2 = 1.22
	want := 1.22
	if got := CompositeScore(c); math.Abs(got-want) > 1e-9 {
		t.Errorf("CompositeScore = %v, want %v", got, want)
	}
}

func TestSummarizeByStrategy(t *testing.T) {
	rows := []backtest.Result{
		row("AAPL", domain.StrategyTrend, 30, 1.0, -10),
		row("AAPL", domain.StrategyBenchmark, 20, 0.9, -15),
		row("MSFT", domain.StrategyTrend, 5, 0.5, -8),
		row("MSFT", domain.StrategyBenchmark, 10, 0.7, -12),
	}

	comps, _ := AttachBenchmark(rows)
	summary := SummarizeByStrategy(comps)

	if len(summary) != len(domain.ActiveStrategies) {
		t.Fatalf("summary = %d entries, want %d", len(summary), len(domain.ActiveStrategies))
	}

	trend := summary[0]
	if trend.Strategy != domain.StrategyTrend {
		t.Fatalf("first summary entry = %s, want Trend", trend.Strategy)
	}
	if trend.Count != 2 || trend.Wins != 1 {
		t.Errorf("Trend count/wins = %d/%d, want 2/1", trend.Count, trend.Wins)
	}
	if math.Abs(trend.AvgReturn-17.5) > 1e-9 {
		t.Errorf("Trend avg return = %v, want 17.5", trend.AvgReturn)
	}
	if math.Abs(trend.AvgSharpe-0.75) > 1e-9 {
		t.Errorf("Trend avg Sharpe = %v, want 0.75", trend.AvgSharpe)
	}
}
