package strategy

import (
	"stratlab/internal/domain"
	"stratlab/internal/indicator"
	"stratlab/internal/series"
)

// Trend strategy parameters (weekly bars).
const (
	trendChannelPeriod    = 10
	trendSupertrendPeriod = 20
	trendSupertrendMult   = 1.0
	trendFastEMAPeriod    = 21
	trendSlowEMAPeriod    = 50
)

// BuildTrend constructs the weekly trend-following signal set:
//
//	entry: close breaks above the prior 10-week Donchian upper bound,
//	       Supertrend(20, 1.0) direction is up, and EMA21 > EMA50
//	exit:  close below the Supertrend line and direction is down
//
// It also returns the Supertrend direction as a weekly series so the daily
// volatility strategies can reuse the trend regime.
func BuildTrend(weekly []domain.Bar) (SignalSet, series.Series) {
	close := series.Closes(weekly)
	high := series.Highs(weekly)
	low := series.Lows(weekly)

	upper := indicator.DonchianUpper(high, trendChannelPeriod)
	priorUpper := series.Shift(upper, 1)

	stLine, stDir := indicator.Supertrend(high, low, close, trendSupertrendPeriod, trendSupertrendMult)

	emaFast := indicator.EMA(close, trendFastEMAPeriod)
	emaSlow := indicator.EMA(close, trendSlowEMAPeriod)

	sig := SignalSet{
		Entries: make([]bool, len(weekly)),
		Exits:   make([]bool, len(weekly)),
	}
	for i := range weekly {
		sig.Entries[i] = gt(close[i], priorUpper[i]) &&
			stDir[i] == 1 &&
			gt(emaFast[i], emaSlow[i])
		sig.Exits[i] = lt(close[i], stLine[i]) &&
			stDir[i] == -1
	}

	return sig, series.Series{Times: series.Times(weekly), Values: stDir}
}
