package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"stratlab/internal/backtest"
	"stratlab/internal/rank"
)

// metricsHeader is the column layout of results/strategy_metrics.csv.
var metricsHeader = []string{
	"Ticker",
	"Strategy",
	"Total Return [%]",
	"Annualized Return [%]",
	"Max Drawdown [%]",
	"Sharpe Ratio",
	"Sortino Ratio",
	"Calmar Ratio",
	"Total Trades",
	"Win Rate [%]",
	"Avg Winning Trade [%]",
	"Avg Losing Trade [%]",
	"Profit Factor",
	"Best Trade [%]",
	"Worst Trade [%]",
}

// WriteMetricsCSV writes the full results table, one row per
// (ticker, strategy). Missing metrics become empty cells.
func WriteMetricsCSV(path string, rows []backtest.Result) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(metricsHeader); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			r.Ticker,
			r.Strategy,
			csvCell(r.Stats.TotalReturn),
			csvCell(r.Stats.AnnualizedReturn),
			csvCell(r.Stats.MaxDrawdown),
			csvCell(r.Stats.SharpeRatio),
			csvCell(r.Stats.SortinoRatio),
			csvCell(r.Stats.CalmarRatio),
			csvIntCell(r.Stats.TotalTrades),
			csvCell(r.Stats.WinRate),
			csvCell(r.Stats.AvgWinningTrade),
			csvCell(r.Stats.AvgLosingTrade),
			csvCell(r.Stats.ProfitFactor),
			csvCell(r.Stats.BestTrade),
			csvCell(r.Stats.WorstTrade),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// ReadMetricsCSV parses a results table written by WriteMetricsCSV. Empty
// cells come back as NotApplicable metrics.
func ReadMetricsCSV(path string) ([]backtest.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("reading %s: empty file", path)
	}
	if len(records[0]) != len(metricsHeader) {
		return nil, fmt.Errorf("reading %s: expected %d columns, got %d", path, len(metricsHeader), len(records[0]))
	}

	var rows []backtest.Result
	for i, rec := range records[1:] {
		row := backtest.Result{Ticker: rec[0], Strategy: rec[1]}
		metrics := []*backtest.Metric{
			&row.Stats.TotalReturn,
			&row.Stats.AnnualizedReturn,
			&row.Stats.MaxDrawdown,
			&row.Stats.SharpeRatio,
			&row.Stats.SortinoRatio,
			&row.Stats.CalmarRatio,
			&row.Stats.TotalTrades,
			&row.Stats.WinRate,
			&row.Stats.AvgWinningTrade,
			&row.Stats.AvgLosingTrade,
			&row.Stats.ProfitFactor,
			&row.Stats.BestTrade,
			&row.Stats.WorstTrade,
		}
		for k, m := range metrics {
			cell := rec[k+2]
			if cell == "" {
				*m = backtest.NotApplicable()
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("reading %s row %d: column %q: %w", path, i+2, metricsHeader[k+2], err)
			}
			*m = backtest.Computed(v)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// topHeader is the column layout of results/top_performers_detailed.csv.
var topHeader = []string{
	"Rank",
	"Ticker",
	"Strategy",
	"Total Return [%]",
	"Sharpe Ratio",
	"Sortino Ratio",
	"Max Drawdown [%]",
	"Calmar Ratio",
	"Total Trades",
	"Win Rate [%]",
	"Benchmark_Return",
	"Beat_Market",
	"Outperformance",
	"Composite_Score",
}

// WriteTopPerformersCSV writes the composite-ranked drill-down table.
func WriteTopPerformersCSV(path string, rows []rank.RankedRow) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(topHeader); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			strconv.Itoa(r.Rank),
			r.Ticker,
			r.Strategy,
			csvCell(r.Stats.TotalReturn),
			csvCell(r.Stats.SharpeRatio),
			csvCell(r.Stats.SortinoRatio),
			csvCell(r.Stats.MaxDrawdown),
			csvCell(r.Stats.CalmarRatio),
			csvIntCell(r.Stats.TotalTrades),
			csvCell(r.Stats.WinRate),
			strconv.FormatFloat(r.BenchmarkReturn, 'f', -1, 64),
			strconv.FormatBool(r.BeatMarket),
			strconv.FormatFloat(r.Outperformance, 'f', -1, 64),
			strconv.FormatFloat(r.CompositeScore, 'f', -1, 64),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
