// Package domain defines the core data types shared by the backtest
// pipeline: OHLCV bars, strategy labels, and per-strategy results.
package domain

import "time"

// Bar is one OHLCV bar for a single symbol at daily or weekly granularity.
// Within a series, timestamps are strictly increasing with no duplicates.
type Bar struct {
	Symbol    string
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    int64
}

// Strategy labels. These are the exact values written to the Strategy column
// of results/strategy_metrics.csv.
const (
	StrategyTrend     = "Trend"
	StrategyHighVol   = "High_Vol"
	StrategyLowVol    = "Low_Vol"
	StrategyBenchmark = "Benchmark"
)

// ActiveStrategies lists the three rule-based strategies, in the order they
// are simulated and reported. Benchmark is excluded.
var ActiveStrategies = []string{StrategyTrend, StrategyHighVol, StrategyLowVol}
