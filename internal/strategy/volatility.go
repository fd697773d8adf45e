package strategy

import (
	"stratlab/internal/domain"
	"stratlab/internal/indicator"
	"stratlab/internal/series"
)

// Volatility strategy parameters (daily bars).
const (
	volATRPeriod     = 20
	volFastEMAPeriod = 6
	volSlowEMAPeriod = 25
)

// Neutral weekly-trend value for daily positions preceding the first weekly
// observation.
const neutralDirection = 0

// BuildVolatilityPair constructs the two daily volatility-regime signal sets
// from one shared indicator pipeline. The ATR-percent of the close is
// smoothed by a fast (6) and slow (25) EMA; the weekly Supertrend direction
// is forward-filled onto the daily index with leading gaps defaulting to
// neutral.
//
//	High_Vol: enter on fast crossing above slow while the weekly trend is
//	          bearish, exit on the inverse crossover
//	Low_Vol:  the mirror image — enter on the bearish-gated crossunder that
//	          serves as High_Vol's exit, exit on High_Vol's entry condition
//
// By construction a High_Vol entry implies a Low_Vol exit at the same
// timestamp, and vice versa.
func BuildVolatilityPair(daily []domain.Bar, weeklyDir series.Series) (highVol, lowVol SignalSet) {
	close := series.Closes(daily)
	high := series.Highs(daily)
	low := series.Lows(daily)

	atrPct := indicator.ATRPercent(high, low, close, volATRPeriod)
	fast := indicator.EMA(atrPct, volFastEMAPeriod)
	slow := indicator.EMA(atrPct, volSlowEMAPeriod)

	crossUp := CrossedAbove(fast, slow)
	crossDown := CrossedBelow(fast, slow)

	dirDaily := series.AlignForwardFill(weeklyDir, series.Times(daily), neutralDirection)

	n := len(daily)
	highVol = SignalSet{Entries: make([]bool, n), Exits: make([]bool, n)}
	lowVol = SignalSet{Entries: make([]bool, n), Exits: make([]bool, n)}

	for i := 0; i < n; i++ {
		bearish := dirDaily[i] == -1

		highVol.Entries[i] = crossUp[i] && bearish
		highVol.Exits[i] = crossDown[i]

		lowVol.Entries[i] = crossDown[i] && bearish
		lowVol.Exits[i] = crossUp[i]
	}
	return highVol, lowVol
}
