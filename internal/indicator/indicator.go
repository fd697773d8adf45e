// Package indicator implements the price-derived indicators consumed by the
// signal builders: exponential moving averages, Wilder's average true range,
// Donchian channel bounds, and the Supertrend band. All functions are pure,
// operate on parallel []float64 columns, and emit NaN during warmup.
package indicator

import "math"

// EMA computes an exponential moving average with smoothing 2/(period+1),
// seeded with the simple average of the first period values. Leading NaNs in
// the input are skipped; positions before the seed is complete are NaN.
func EMA(values []float64, period int) []float64 {
	out := nanSlice(len(values))
	if period <= 0 {
		return out
	}

	start := 0
	for start < len(values) && math.IsNaN(values[start]) {
		start++
	}
	if len(values)-start < period {
		return out
	}

	sum := 0.0
	for i := start; i < start+period; i++ {
		sum += values[i]
	}
	ema := sum / float64(period)
	out[start+period-1] = ema

	alpha := 2.0 / float64(period+1)
	for i := start + period; i < len(values); i++ {
		ema = alpha*values[i] + (1-alpha)*ema
		out[i] = ema
	}
	return out
}

// ATR computes Wilder's average true range: an RMA of the true range with
// the first period values seeded by their simple average.
func ATR(high, low, close []float64, period int) []float64 {
	n := len(close)
	out := nanSlice(n)
	if period <= 0 || n < period {
		return out
	}

	tr := make([]float64, n)
	tr[0] = high[0] - low[0]
	for i := 1; i < n; i++ {
		hl := high[i] - low[i]
		hc := math.Abs(high[i] - close[i-1])
		lc := math.Abs(low[i] - close[i-1])
		tr[i] = math.Max(hl, math.Max(hc, lc))
	}

	sum := 0.0
	for i := 0; i < period; i++ {
		sum += tr[i]
	}
	atr := sum / float64(period)
	out[period-1] = atr

	for i := period; i < n; i++ {
		atr = (atr*float64(period-1) + tr[i]) / float64(period)
		out[i] = atr
	}
	return out
}

// ATRPercent is the ATR expressed as a percentage of the close.
func ATRPercent(high, low, close []float64, period int) []float64 {
	atr := ATR(high, low, close, period)
	out := nanSlice(len(close))
	for i := range out {
		if math.IsNaN(atr[i]) || close[i] == 0 {
			continue
		}
		out[i] = atr[i] / close[i] * 100
	}
	return out
}

// DonchianUpper returns the upper Donchian channel bound: the rolling
// maximum of the high over the trailing period.
func DonchianUpper(high []float64, period int) []float64 {
	out := nanSlice(len(high))
	for i := period - 1; i < len(high); i++ {
		m := math.Inf(-1)
		for k := i - period + 1; k <= i; k++ {
			if high[k] > m {
				m = high[k]
			}
		}
		out[i] = m
	}
	return out
}

// Supertrend computes the Supertrend band line and its direction (+1 uptrend,
// -1 downtrend) from the hl2 midpoint and an ATR envelope. Both outputs are
// NaN until the ATR warms up; the direction starts as an uptrend.
func Supertrend(high, low, close []float64, period int, multiplier float64) (line, dir []float64) {
	n := len(close)
	line = nanSlice(n)
	dir = nanSlice(n)

	atr := ATR(high, low, close, period)

	first := -1
	for i := range atr {
		if !math.IsNaN(atr[i]) {
			first = i
			break
		}
	}
	if first < 0 {
		return line, dir
	}

	basicUpper := func(i int) float64 { return (high[i]+low[i])/2 + multiplier*atr[i] }
	basicLower := func(i int) float64 { return (high[i]+low[i])/2 - multiplier*atr[i] }

	fub := basicUpper(first)
	flb := basicLower(first)
	d := 1.0
	dir[first] = d
	line[first] = flb

	for i := first + 1; i < n; i++ {
		ub, lb := basicUpper(i), basicLower(i)

		// Ratchet the final bands: an upper band only moves down unless price
		// closed above it, a lower band only moves up unless price closed
		// below it.
		if ub < fub || close[i-1] > fub {
			fub = ub
		}
		if lb > flb || close[i-1] < flb {
			flb = lb
		}

		if d == 1 {
			if close[i] < flb {
				d = -1
			}
		} else {
			if close[i] > fub {
				d = 1
			}
		}

		dir[i] = d
		if d == 1 {
			line[i] = flb
		} else {
			line[i] = fub
		}
	}
	return line, dir
}

func nanSlice(n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = math.NaN()
	}
	return s
}
