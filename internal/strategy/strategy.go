// Package strategy builds the entry/exit signal sets for the three
// rule-based strategies: a weekly channel-breakout trend follower and a
// complementary pair of daily volatility-regime strategies. Builders are
// pure functions of their price series; a NaN anywhere in a comparison means
// "no signal", never an error.
package strategy

import "math"

// SignalSet holds aligned entry and exit booleans, one per bar of the
// underlying price series. An entry and exit that are both true at the same
// timestamp resolve to the exit when simulated.
type SignalSet struct {
	Entries []bool
	Exits   []bool
}

// Len returns the number of timestamps covered by the signal set.
func (s SignalSet) Len() int { return len(s.Entries) }

// CrossedAbove reports, per position, whether fast crossed above slow:
// fast was at or below slow at t-1 and strictly above at t. Comparisons
// involving NaN are false.
func CrossedAbove(fast, slow []float64) []bool {
	out := make([]bool, len(fast))
	for i := 1; i < len(fast); i++ {
		out[i] = lte(fast[i-1], slow[i-1]) && gt(fast[i], slow[i])
	}
	return out
}

// CrossedBelow is the mirror of CrossedAbove: fast was at or above slow at
// t-1 and strictly below at t.
func CrossedBelow(fast, slow []float64) []bool {
	out := make([]bool, len(fast))
	for i := 1; i < len(fast); i++ {
		out[i] = gte(fast[i-1], slow[i-1]) && lt(fast[i], slow[i])
	}
	return out
}

// NaN-safe comparisons: false whenever either operand is NaN.

func gt(a, b float64) bool  { return !math.IsNaN(a) && !math.IsNaN(b) && a > b }
func lt(a, b float64) bool  { return !math.IsNaN(a) && !math.IsNaN(b) && a < b }
func gte(a, b float64) bool { return !math.IsNaN(a) && !math.IsNaN(b) && a >= b }
func lte(a, b float64) bool { return !math.IsNaN(a) && !math.IsNaN(b) && a <= b }
