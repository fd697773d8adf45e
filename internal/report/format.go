// Package report renders the pipeline's persisted artifacts: the metrics and
// top-performer CSV files and the static HTML dashboards.
package report

import (
	"fmt"
	"strconv"

	"stratlab/internal/backtest"
)

// FormatPercent renders a percentage metric as "12.34%", or "N/A" when the
// metric was not computed.
func FormatPercent(m backtest.Metric) string {
	if !m.Ok() {
		return "N/A"
	}
	return fmt.Sprintf("%.2f%%", m.Value)
}

// FormatRatio renders a ratio metric (Sharpe, Sortino, Calmar, profit
// factor) with three decimals, or "N/A".
func FormatRatio(m backtest.Metric) string {
	if !m.Ok() {
		return "N/A"
	}
	return fmt.Sprintf("%.3f", m.Value)
}

// FormatCount renders an integer-valued metric, or "N/A".
func FormatCount(m backtest.Metric) string {
	if !m.Ok() {
		return "N/A"
	}
	return strconv.Itoa(int(m.Value))
}

// csvCell renders a metric for CSV output: the shortest round-tripping
// decimal form, or an empty cell for a missing value.
func csvCell(m backtest.Metric) string {
	if !m.Ok() {
		return ""
	}
	return strconv.FormatFloat(m.Value, 'f', -1, 64)
}

// csvIntCell renders an integer-valued metric for CSV output.
func csvIntCell(m backtest.Metric) string {
	if !m.Ok() {
		return ""
	}
	return strconv.Itoa(int(m.Value))
}
