package series

import (
	"math"
	"testing"
	"time"

	"stratlab/internal/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResampleWeekly(t *testing.T) {
	// 2024-01-01 is a Monday; its week closes on Sunday 2024-01-07.
	daily := []domain.Bar{
		{Symbol: "AAPL", Timestamp: day(2024, 1, 1), Open: 10, High: 12, Low: 9, Close: 11, Volume: 100},
		{Symbol: "AAPL", Timestamp: day(2024, 1, 3), Open: 11, High: 15, Low: 10, Close: 14, Volume: 200},
		{Symbol: "AAPL", Timestamp: day(2024, 1, 5), Open: 14, High: 16, Low: 13, Close: 15, Volume: 300},
		{Symbol: "AAPL", Timestamp: day(2024, 1, 8), Open: 15, High: 18, Low: 14, Close: 17, Volume: 400},
	}

	weekly := ResampleWeekly(daily)
	if len(weekly) != 2 {
		t.Fatalf("ResampleWeekly returned %d bars, want 2", len(weekly))
	}

	first := weekly[0]
	if !first.Timestamp.Equal(day(2024, 1, 7)) {
		t.Errorf("first week timestamp = %v, want 2024-01-07", first.Timestamp)
	}
	if first.Open != 10 || first.High != 16 || first.Low != 9 || first.Close != 15 {
		t.Errorf("first week OHLC = %v/%v/%v/%v, want 10/16/9/15",
			first.Open, first.High, first.Low, first.Close)
	}
	if first.Volume != 600 {
		t.Errorf("first week volume = %d, want 600", first.Volume)
	}

	if !weekly[1].Timestamp.Equal(day(2024, 1, 14)) {
		t.Errorf("second week timestamp = %v, want 2024-01-14", weekly[1].Timestamp)
	}
}

func TestResampleWeeklyDropsNaNWeeks(t *testing.T) {
	daily := []domain.Bar{
		{Timestamp: day(2024, 1, 1), Open: 10, High: 12, Low: 9, Close: math.NaN()},
		{Timestamp: day(2024, 1, 8), Open: 11, High: 13, Low: 10, Close: 12},
	}

	weekly := ResampleWeekly(daily)
	if len(weekly) != 1 {
		t.Fatalf("ResampleWeekly returned %d bars, want 1 (NaN week dropped)", len(weekly))
	}
	if weekly[0].Close != 12 {
		t.Errorf("surviving week close = %v, want 12", weekly[0].Close)
	}
}

func TestResampleWeeklyEmpty(t *testing.T) {
	if got := ResampleWeekly(nil); got != nil {
		t.Errorf("ResampleWeekly(nil) = %v, want nil", got)
	}
}

func TestAlignForwardFill(t *testing.T) {
	src := Series{
		Times:  []time.Time{day(2024, 1, 7), day(2024, 1, 14)},
		Values: []float64{1, -1},
	}
	targets := []time.Time{day(2024, 1, 5), day(2024, 1, 8), day(2024, 1, 15)}

	got := AlignForwardFill(src, targets, 0)
	want := []float64{0, 1, -1}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("AlignForwardFill[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestAlignForwardFillNaNSource(t *testing.T) {
	src := Series{
		Times:  []time.Time{day(2024, 1, 7)},
		Values: []float64{math.NaN()},
	}
	got := AlignForwardFill(src, []time.Time{day(2024, 1, 8)}, 0)
	if got[0] != 0 {
		t.Errorf("NaN source value should take the leading default, got %v", got[0])
	}
}

func TestShift(t *testing.T) {
	got := Shift([]float64{1, 2, 3}, 1)
	if !math.IsNaN(got[0]) {
		t.Errorf("Shift[0] = %v, want NaN", got[0])
	}
	if got[1] != 1 || got[2] != 2 {
		t.Errorf("Shift = %v, want [NaN 1 2]", got)
	}
}

func TestRollingMax(t *testing.T) {
	got := RollingMax([]float64{1, 3, 2, 5}, 2)
	if !math.IsNaN(got[0]) {
		t.Errorf("RollingMax[0] = %v, want NaN", got[0])
	}
	want := []float64{0, 3, 3, 5}
	for i := 1; i < len(want); i++ {
		if got[i] != want[i] {
			t.Errorf("RollingMax[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	// A NaN inside the window poisons that position only.
	got = RollingMax([]float64{1, math.NaN(), 2, 5}, 2)
	if !math.IsNaN(got[1]) || !math.IsNaN(got[2]) {
		t.Errorf("windows containing NaN should be NaN, got %v", got)
	}
	if got[3] != 5 {
		t.Errorf("RollingMax[3] = %v, want 5", got[3])
	}
}

func TestIndexAtOrAfter(t *testing.T) {
	times := []time.Time{day(2024, 1, 1), day(2024, 1, 3), day(2024, 1, 5)}

	if i := IndexAtOrAfter(times, day(2024, 1, 3)); i != 1 {
		t.Errorf("IndexAtOrAfter(exact) = %d, want 1", i)
	}
	if i := IndexAtOrAfter(times, day(2024, 1, 2)); i != 1 {
		t.Errorf("IndexAtOrAfter(between) = %d, want 1", i)
	}
	if i := IndexAtOrAfter(times, day(2024, 1, 6)); i != -1 {
		t.Errorf("IndexAtOrAfter(past end) = %d, want -1", i)
	}
}
