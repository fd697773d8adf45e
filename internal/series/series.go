// Package series provides the time-series primitives used by the signal
// builders and the portfolio simulator: weekly resampling of daily bars,
// forward-fill alignment of a coarse series onto a finer index, and a few
// rolling-window helpers. The missing value is math.NaN() throughout; any
// comparison against NaN is false, which is exactly the "no signal" behaviour
// the strategies rely on.
package series

import (
	"math"
	"time"

	"stratlab/internal/domain"
)

// Series pairs a time index with one value per timestamp.
type Series struct {
	Times  []time.Time
	Values []float64
}

// ---------------------------------------------------------------------------
// Bar column extraction
// ---------------------------------------------------------------------------

// Times returns the time index of a bar slice.
func Times(bars []domain.Bar) []time.Time {
	ts := make([]time.Time, len(bars))
	for i, b := range bars {
		ts[i] = b.Timestamp
	}
	return ts
}

// Closes returns the close column of a bar slice.
func Closes(bars []domain.Bar) []float64 {
	vs := make([]float64, len(bars))
	for i, b := range bars {
		vs[i] = b.Close
	}
	return vs
}

// Highs returns the high column of a bar slice.
func Highs(bars []domain.Bar) []float64 {
	vs := make([]float64, len(bars))
	for i, b := range bars {
		vs[i] = b.High
	}
	return vs
}

// Lows returns the low column of a bar slice.
func Lows(bars []domain.Bar) []float64 {
	vs := make([]float64, len(bars))
	for i, b := range bars {
		vs[i] = b.Low
	}
	return vs
}

// ---------------------------------------------------------------------------
// Resampling
// ---------------------------------------------------------------------------

// weekEnd returns the Sunday that closes the calendar week containing t,
// truncated to midnight UTC.
func weekEnd(t time.Time) time.Time {
	days := (7 - int(t.Weekday())) % 7
	d := t.AddDate(0, 0, days)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

// ResampleWeekly aggregates daily bars into calendar-week bars labelled by
// the Sunday ending each week: Open = first, High = max, Low = min,
// Close = last, Volume = sum. Weeks whose aggregates contain a NaN are
// dropped. Input bars must be sorted by timestamp ascending.
func ResampleWeekly(daily []domain.Bar) []domain.Bar {
	if len(daily) == 0 {
		return nil
	}

	var weekly []domain.Bar
	var cur domain.Bar
	var curEnd time.Time
	open := false

	flush := func() {
		if !open {
			return
		}
		if !hasNaN(cur.Open, cur.High, cur.Low, cur.Close) {
			weekly = append(weekly, cur)
		}
		open = false
	}

	for _, b := range daily {
		end := weekEnd(b.Timestamp)
		if !open || !end.Equal(curEnd) {
			flush()
			curEnd = end
			cur = domain.Bar{
				Symbol:    b.Symbol,
				Timestamp: end,
				Open:      b.Open,
				High:      b.High,
				Low:       b.Low,
				Close:     b.Close,
				Volume:    b.Volume,
			}
			open = true
			continue
		}
		cur.High = math.Max(cur.High, b.High)
		cur.Low = math.Min(cur.Low, b.Low)
		cur.Close = b.Close
		cur.Volume += b.Volume
	}
	flush()

	return weekly
}

func hasNaN(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// Alignment
// ---------------------------------------------------------------------------

// AlignForwardFill projects src onto targetTimes by carrying the most recent
// src value at or before each target timestamp. Targets before the first src
// point, and positions where the carried value is NaN, take the leading
// default. Both time indexes must be sorted ascending.
func AlignForwardFill(src Series, targetTimes []time.Time, leading float64) []float64 {
	out := make([]float64, len(targetTimes))
	j := -1
	for i, t := range targetTimes {
		for j+1 < len(src.Times) && !src.Times[j+1].After(t) {
			j++
		}
		if j < 0 || math.IsNaN(src.Values[j]) {
			out[i] = leading
			continue
		}
		out[i] = src.Values[j]
	}
	return out
}

// ---------------------------------------------------------------------------
// Rolling helpers
// ---------------------------------------------------------------------------

// Shift returns values displaced forward by n positions, with NaN filling
// the gap at the front.
func Shift(values []float64, n int) []float64 {
	out := make([]float64, len(values))
	for i := range out {
		if i < n {
			out[i] = math.NaN()
			continue
		}
		out[i] = values[i-n]
	}
	return out
}

// RollingMax returns the maximum over a trailing window. Positions with
// fewer than window observations, or with a NaN inside the window, are NaN.
func RollingMax(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	for i := range values {
		if i < window-1 {
			out[i] = math.NaN()
			continue
		}
		m := math.Inf(-1)
		ok := true
		for k := i - window + 1; k <= i; k++ {
			if math.IsNaN(values[k]) {
				ok = false
				break
			}
			if values[k] > m {
				m = values[k]
			}
		}
		if !ok {
			out[i] = math.NaN()
			continue
		}
		out[i] = m
	}
	return out
}

// IndexAtOrAfter returns the first index whose timestamp is at or after t,
// or -1 when every timestamp precedes t. times must be sorted ascending.
func IndexAtOrAfter(times []time.Time, t time.Time) int {
	for i, ts := range times {
		if !ts.Before(t) {
			return i
		}
	}
	return -1
}
