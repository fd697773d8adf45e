package indicator

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestEMA(t *testing.T) {
	got := EMA([]float64{1, 2, 3, 4, 5}, 3)

	if !math.IsNaN(got[0]) || !math.IsNaN(got[1]) {
		t.Errorf("EMA warmup should be NaN, got %v", got[:2])
	}
	// Seed is the SMA of the first three values; alpha = 0.5 thereafter.
	want := []float64{2, 3, 4}
	for i, w := range want {
		if !almostEqual(got[i+2], w) {
			t.Errorf("EMA[%d] = %v, want %v", i+2, got[i+2], w)
		}
	}
}

func TestEMASkipsLeadingNaN(t *testing.T) {
	got := EMA([]float64{math.NaN(), 1, 2, 3}, 3)
	if !almostEqual(got[3], 2) {
		t.Errorf("EMA seed after leading NaN = %v, want 2", got[3])
	}
}

func TestEMAInsufficientData(t *testing.T) {
	got := EMA([]float64{1, 2}, 3)
	for i, v := range got {
		if !math.IsNaN(v) {
			t.Errorf("EMA[%d] = %v, want NaN with too little data", i, v)
		}
	}
}

func TestATRConstantRange(t *testing.T) {
	n := 6
	high := make([]float64, n)
	low := make([]float64, n)
	close := make([]float64, n)
	for i := range high {
		high[i], low[i], close[i] = 2, 1, 1.5
	}

	got := ATR(high, low, close, 3)
	if !math.IsNaN(got[0]) || !math.IsNaN(got[1]) {
		t.Errorf("ATR warmup should be NaN, got %v", got[:2])
	}
	for i := 2; i < n; i++ {
		if !almostEqual(got[i], 1) {
			t.Errorf("ATR[%d] = %v, want 1 for a constant range", i, got[i])
		}
	}

	pct := ATRPercent(high, low, close, 3)
	if !almostEqual(pct[n-1], 1/1.5*100) {
		t.Errorf("ATRPercent = %v, want %v", pct[n-1], 1/1.5*100)
	}
}

func TestDonchianUpper(t *testing.T) {
	got := DonchianUpper([]float64{1, 3, 2, 5}, 2)
	if !math.IsNaN(got[0]) {
		t.Errorf("DonchianUpper[0] = %v, want NaN", got[0])
	}
	want := []float64{0, 3, 3, 5}
	for i := 1; i < len(want); i++ {
		if got[i] != want[i] {
			t.Errorf("DonchianUpper[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSupertrendDirectionFlip(t *testing.T) {
	// Four rising bars then a crash below the lower band.
	high := []float64{10, 11, 12, 13, 5}
	low := []float64{9, 10, 11, 12, 4}
	close := []float64{9.5, 10.5, 11.5, 12.5, 4.5}

	line, dir := Supertrend(high, low, close, 2, 1.0)

	if !math.IsNaN(dir[0]) || !math.IsNaN(line[0]) {
		t.Errorf("Supertrend warmup should be NaN, got line=%v dir=%v", line[0], dir[0])
	}
	for i := 1; i <= 3; i++ {
		if dir[i] != 1 {
			t.Errorf("dir[%d] = %v, want 1 during the uptrend", i, dir[i])
		}
	}
	if dir[4] != -1 {
		t.Errorf("dir[4] = %v, want -1 after the crash", dir[4])
	}
	// In a downtrend the line tracks the upper band, above the close.
	if !(line[4] > close[4]) {
		t.Errorf("downtrend line = %v, want above close %v", line[4], close[4])
	}
}
