// Package pipeline runs the per-ticker analysis loop: fetch history, build
// signal sets, simulate portfolios, extract statistics, and render the
// per-ticker dashboard.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"stratlab/internal/backtest"
	"stratlab/internal/config"
	"stratlab/internal/domain"
	"stratlab/internal/gather"
	"stratlab/internal/report"
	"stratlab/internal/series"
	"stratlab/internal/strategy"
)

// Pipeline orchestrates the full batch over the configured universe. Tickers
// are processed strictly in order; a failed ticker is skipped and the loop
// continues.
type Pipeline struct {
	fetcher gather.Fetcher
	cfg     *config.Config
	log     *slog.Logger
}

// New creates a Pipeline over the given fetcher and configuration.
func New(fetcher gather.Fetcher, cfg *config.Config) *Pipeline {
	return &Pipeline{
		fetcher: fetcher,
		cfg:     cfg,
		log:     slog.Default().With("component", "pipeline"),
	}
}

// Run processes every ticker in the universe and returns the accumulated
// results table: three strategy rows plus one benchmark row per ticker that
// produced data, in universe order.
func (p *Pipeline) Run(ctx context.Context) ([]backtest.Result, error) {
	start, err := time.Parse("2006-01-02", p.cfg.Backtest.StartDate)
	if err != nil {
		return nil, fmt.Errorf("parsing start date %q: %w", p.cfg.Backtest.StartDate, err)
	}

	var results []backtest.Result
	runStart := time.Now()

	for i, ticker := range p.cfg.Universe.Tickers {
		if ctx.Err() != nil {
			return results, ctx.Err()
		}

		p.log.Info("processing ticker",
			"ticker", ticker,
			"progress", fmt.Sprintf("%d/%d", i+1, len(p.cfg.Universe.Tickers)),
		)

		rows, err := p.runTicker(ctx, ticker, start)
		if err != nil {
			// A failed ticker never aborts the batch.
			p.log.Info("skipping ticker", "ticker", ticker, "reason", err)
			continue
		}
		results = append(results, rows...)
	}

	p.log.Info("batch complete",
		"tickers", len(p.cfg.Universe.Tickers),
		"rows", len(results),
		"elapsed", time.Since(runStart).Round(time.Second),
	)
	return results, nil
}

// runTicker executes the fetch → signals → simulate → stats → render chain
// for one ticker and returns its four result rows.
func (p *Pipeline) runTicker(ctx context.Context, ticker string, start time.Time) ([]backtest.Result, error) {
	daily, err := p.fetcher.Fetch(ctx, ticker, start)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", ticker, err)
	}

	weekly := series.ResampleWeekly(daily)
	if len(weekly) == 0 {
		return nil, fmt.Errorf("%s: %w", ticker, gather.ErrNoData)
	}

	trendSig, weeklyDir := strategy.BuildTrend(weekly)
	highVolSig, lowVolSig := strategy.BuildVolatilityPair(daily, weeklyDir)

	opts := backtest.Options{
		InitialCash: p.cfg.Backtest.InitialCash,
		Commission:  p.cfg.Backtest.Commission,
		SizePercent: p.cfg.Backtest.SizePercent,
	}

	dailyTimes := series.Times(daily)
	dailyCloses := series.Closes(daily)

	portfolios := map[string]*backtest.Portfolio{
		domain.StrategyTrend: backtest.FromSignals(
			series.Times(weekly), series.Closes(weekly), trendSig,
			backtest.WeeklyPeriodsPerYear, opts),
		domain.StrategyHighVol: backtest.FromSignals(
			dailyTimes, dailyCloses, highVolSig,
			backtest.DailyPeriodsPerYear, opts),
		domain.StrategyLowVol: backtest.FromSignals(
			dailyTimes, dailyCloses, lowVolSig,
			backtest.DailyPeriodsPerYear, opts),
	}

	// All four portfolios present from the earliest first-trade date across
	// the three strategies, advanced to the next available daily session.
	syncStart := p.syncStart(portfolios, dailyTimes)

	benchStart := series.IndexAtOrAfter(dailyTimes, syncStart)
	if benchStart < 0 {
		benchStart = 0
	}
	portfolios[domain.StrategyBenchmark] = backtest.FromHolding(
		dailyTimes[benchStart:], dailyCloses[benchStart:],
		backtest.DailyPeriodsPerYear, p.cfg.Backtest.InitialCash)

	stats := make(map[string]backtest.Stats, len(portfolios))
	var rows []backtest.Result
	for _, label := range append(append([]string{}, domain.ActiveStrategies...), domain.StrategyBenchmark) {
		s := backtest.Compute(portfolios[label])
		stats[label] = s
		rows = append(rows, backtest.Result{Ticker: ticker, Strategy: label, Stats: s})
	}

	if err := p.renderTicker(ticker, portfolios, stats, syncStart); err != nil {
		return nil, fmt.Errorf("rendering %s: %w", ticker, err)
	}
	return rows, nil
}

// syncStart returns the earliest first-trade timestamp across the strategy
// portfolios, or the first daily timestamp when no strategy ever traded.
func (p *Pipeline) syncStart(portfolios map[string]*backtest.Portfolio, dailyTimes []time.Time) time.Time {
	var earliest time.Time
	found := false
	for _, label := range domain.ActiveStrategies {
		t, ok := portfolios[label].FirstTradeTime()
		if !ok {
			continue
		}
		if !found || t.Before(earliest) {
			earliest = t
			found = true
		}
	}
	if !found {
		return dailyTimes[0]
	}
	return earliest
}

// renderTicker writes the per-ticker dashboard with all four equity and
// drawdown curves clipped to the synchronized start.
func (p *Pipeline) renderTicker(ticker string, portfolios map[string]*backtest.Portfolio, stats map[string]backtest.Stats, syncStart time.Time) error {
	order := append(append([]string{}, domain.ActiveStrategies...), domain.StrategyBenchmark)

	var equity, drawdown []report.Curve
	for _, label := range order {
		pf := portfolios[label]
		equity = append(equity, report.Curve{Label: label, Series: pf.EquityFrom(syncStart)})
		drawdown = append(drawdown, report.Curve{Label: label, Series: pf.DrawdownFrom(syncStart)})
	}

	path := filepath.Join(p.cfg.Output.AnalysisDir, fmt.Sprintf("%s_analysis.html", ticker))
	return report.RenderTickerPage(path, ticker, equity, drawdown, stats)
}
