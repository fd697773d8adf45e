// Package rank joins per-strategy results to their ticker's buy-and-hold
// baseline and produces the two ranking views: the pure outperformer top-20
// and the composite-score top-25.
package rank

import (
	"fmt"
	"sort"

	"stratlab/internal/backtest"
	"stratlab/internal/domain"
)

// Composite ranking thresholds and weights.
const (
	MinSharpe = 0.5

	weightSharpe         = 0.4
	weightReturn         = 0.3
	weightOutperformance = 0.2
	weightDrawdown       = 0.1

	// Caps on the two ranking views. Fewer rows qualify, fewer rows appear.
	TopOutperformerLimit = 20
	CompositeLimit       = 25
)

// Comparison is a non-benchmark result row joined against its ticker's
// benchmark.
type Comparison struct {
	backtest.Result
	BenchmarkReturn float64
	HasBenchmark    bool
	BeatMarket      bool
	Outperformance  float64
}

// RankedRow is a Comparison that survived the composite filter, with its
// score and 1-based rank.
type RankedRow struct {
	Comparison
	CompositeScore float64
	Rank           int
}

// StrategySummary aggregates comparisons per strategy label for the master
// dashboard.
type StrategySummary struct {
	Strategy  string
	Wins      int
	AvgReturn float64
	AvgSharpe float64
	Count     int
}

// AttachBenchmark joins every non-benchmark row with a computed total return
// and Sharpe ratio to its ticker's benchmark row. A ticker with no benchmark
// row is compared against a return of zero and reported as a data-integrity
// warning, not an error. Input order is preserved.
func AttachBenchmark(rows []backtest.Result) ([]Comparison, []string) {
	benchReturns := make(map[string]float64)
	for _, r := range rows {
		if r.Strategy == domain.StrategyBenchmark && r.Stats.TotalReturn.Ok() {
			benchReturns[r.Ticker] = r.Stats.TotalReturn.Value
		}
	}

	var comps []Comparison
	var warnings []string
	warned := make(map[string]bool)

	for _, r := range rows {
		if r.Strategy == domain.StrategyBenchmark {
			continue
		}
		if !r.Stats.TotalReturn.Ok() || !r.Stats.SharpeRatio.Ok() {
			continue
		}

		bench, ok := benchReturns[r.Ticker]
		if !ok && !warned[r.Ticker] {
			warnings = append(warnings, fmt.Sprintf("ticker %s has no benchmark row; comparing against 0%%", r.Ticker))
			warned[r.Ticker] = true
		}

		ret := r.Stats.TotalReturn.Value
		comps = append(comps, Comparison{
			Result:          r,
			BenchmarkReturn: bench,
			HasBenchmark:    ok,
			BeatMarket:      ret > bench,
			Outperformance:  ret - bench,
		})
	}
	return comps, warnings
}

// TopOutperformers filters to rows that beat their benchmark and returns up
// to limit of them sorted descending by total return. The sort is stable, so
// ties keep input order. A strategy with a negative absolute return still
// qualifies when its benchmark did even worse.
func TopOutperformers(comps []Comparison, limit int) []Comparison {
	var out []Comparison
	for _, c := range comps {
		if c.BeatMarket {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Stats.TotalReturn.Value > out[j].Stats.TotalReturn.Value
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// CompositeScore combines risk-adjusted return, raw return, market beat, and
// drawdown control. MaxDrawdown is signed negative, so the last term adds
// for portfolios with smaller drawdowns.
func CompositeScore(c Comparison) float64 {
	return c.Stats.SharpeRatio.Value*weightSharpe +
		c.Stats.TotalReturn.Value/100*weightReturn +
		c.Outperformance/100*weightOutperformance +
		-c.Stats.MaxDrawdown.Value/100*weightDrawdown
}

// CompositeRank filters to rows with Sharpe above MinSharpe that beat their
// benchmark with a positive absolute return, scores them, and returns up to
// limit rows sorted descending by score with 1-based ranks assigned.
func CompositeRank(comps []Comparison, limit int) []RankedRow {
	var out []RankedRow
	for _, c := range comps {
		if c.Stats.SharpeRatio.Value <= MinSharpe {
			continue
		}
		if !c.BeatMarket || c.Stats.TotalReturn.Value <= 0 {
			continue
		}
		if !c.Stats.MaxDrawdown.Ok() {
			continue
		}
		out = append(out, RankedRow{Comparison: c, CompositeScore: CompositeScore(c)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CompositeScore > out[j].CompositeScore
	})
	if len(out) > limit {
		out = out[:limit]
	}
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// SummarizeByStrategy aggregates win counts and average return/Sharpe per
// strategy label, in the canonical strategy order.
func SummarizeByStrategy(comps []Comparison) []StrategySummary {
	byLabel := make(map[string]*StrategySummary)
	for _, label := range domain.ActiveStrategies {
		byLabel[label] = &StrategySummary{Strategy: label}
	}

	for _, c := range comps {
		s, ok := byLabel[c.Strategy]
		if !ok {
			continue
		}
		s.Count++
		if c.BeatMarket {
			s.Wins++
		}
		s.AvgReturn += c.Stats.TotalReturn.Value
		s.AvgSharpe += c.Stats.SharpeRatio.Value
	}

	out := make([]StrategySummary, 0, len(domain.ActiveStrategies))
	for _, label := range domain.ActiveStrategies {
		s := byLabel[label]
		if s.Count > 0 {
			s.AvgReturn /= float64(s.Count)
			s.AvgSharpe /= float64(s.Count)
		}
		out = append(out, *s)
	}
	return out
}
