// Package backtest simulates signal sets against historical prices and
// extracts performance statistics from the resulting portfolios.
package backtest

import (
	"math"
	"time"

	"stratlab/internal/series"
	"stratlab/internal/strategy"
)

// Annualization factors for the two bar frequencies in use.
const (
	DailyPeriodsPerYear  = 252
	WeeklyPeriodsPerYear = 52
)

// Options control a portfolio simulation.
type Options struct {
	InitialCash float64
	Commission  float64 // proportional fee charged on every fill
	SizePercent float64 // fraction of current equity committed per entry
}

// ClosedTrade is one realized round trip in the trade log.
type ClosedTrade struct {
	EntryTime  time.Time
	ExitTime   time.Time
	EntryPrice float64
	ExitPrice  float64
	Shares     float64
	PnL        float64 // net of fees on both fills
	Return     float64 // PnL / cash committed at entry
}

// Portfolio is the immutable result of replaying one signal set (or a
// buy-and-hold baseline) against a price series.
type Portfolio struct {
	Times          []time.Time
	Equity         []float64
	Drawdown       []float64 // signed negative fractions from the running peak
	Trades         []ClosedTrade
	PeriodsPerYear float64
	InitialCash    float64

	openEntry time.Time
	hasOpen   bool
}

// FromSignals replays a signal set over the close series. The position state
// machine is long-only: FLAT to LONG on an entry signal, LONG to FLAT on an
// exit signal; a simultaneous entry and exit resolves to FLAT. Fills happen
// at the bar close with a proportional commission; bars with a NaN close
// never trade.
func FromSignals(times []time.Time, close []float64, sig strategy.SignalSet, periodsPerYear float64, opts Options) *Portfolio {
	p := &Portfolio{
		Times:          times,
		Equity:         make([]float64, len(times)),
		PeriodsPerYear: periodsPerYear,
		InitialCash:    opts.InitialCash,
	}

	cash := opts.InitialCash
	shares := 0.0
	var entryTime time.Time
	var entryPrice, committed float64

	lastEquity := opts.InitialCash
	for i := range times {
		price := close[i]
		tradable := !math.IsNaN(price) && price > 0

		if tradable {
			switch {
			case sig.Exits[i] && shares > 0:
				proceeds := shares * price
				cash += proceeds - proceeds*opts.Commission
				p.Trades = append(p.Trades, ClosedTrade{
					EntryTime:  entryTime,
					ExitTime:   times[i],
					EntryPrice: entryPrice,
					ExitPrice:  price,
					Shares:     shares,
					PnL:        proceeds - proceeds*opts.Commission - committed,
					Return:     (proceeds - proceeds*opts.Commission - committed) / committed,
				})
				shares = 0
			case sig.Entries[i] && !sig.Exits[i] && shares == 0:
				invest := cash * opts.SizePercent
				if invest > 0 {
					fee := invest * opts.Commission
					shares = (invest - fee) / price
					cash -= invest
					entryTime = times[i]
					entryPrice = price
					committed = invest
				}
			}
		}

		if tradable {
			lastEquity = cash + shares*price
		}
		p.Equity[i] = lastEquity
	}

	if shares > 0 {
		p.openEntry = entryTime
		p.hasOpen = true
	}

	p.Drawdown = drawdown(p.Equity)
	return p
}

// FromHolding builds the passive benchmark: the full initial cash buys at the
// first tradable close and is never sold. The trade log stays empty since
// the position never closes.
func FromHolding(times []time.Time, close []float64, periodsPerYear float64, initialCash float64) *Portfolio {
	p := &Portfolio{
		Times:          times,
		Equity:         make([]float64, len(times)),
		PeriodsPerYear: periodsPerYear,
		InitialCash:    initialCash,
	}

	shares := 0.0
	lastEquity := initialCash
	for i := range times {
		price := close[i]
		if shares == 0 && !math.IsNaN(price) && price > 0 {
			shares = initialCash / price
			p.openEntry = times[i]
			p.hasOpen = true
		}
		if shares > 0 && !math.IsNaN(price) {
			lastEquity = shares * price
		}
		p.Equity[i] = lastEquity
	}

	p.Drawdown = drawdown(p.Equity)
	return p
}

// FirstTradeTime returns the timestamp of the earliest position opened by
// this portfolio, closed or still open. The second return value is false
// when no position was ever opened.
func (p *Portfolio) FirstTradeTime() (time.Time, bool) {
	var first time.Time
	found := false
	for _, tr := range p.Trades {
		if !found || tr.EntryTime.Before(first) {
			first = tr.EntryTime
			found = true
		}
	}
	if p.hasOpen && (!found || p.openEntry.Before(first)) {
		first = p.openEntry
		found = true
	}
	return first, found
}

// EquityFrom returns the equity curve from the first timestamp at or after t.
func (p *Portfolio) EquityFrom(t time.Time) series.Series {
	return p.sliceFrom(t, p.Equity)
}

// DrawdownFrom returns the drawdown curve from the first timestamp at or
// after t.
func (p *Portfolio) DrawdownFrom(t time.Time) series.Series {
	return p.sliceFrom(t, p.Drawdown)
}

func (p *Portfolio) sliceFrom(t time.Time, values []float64) series.Series {
	i := series.IndexAtOrAfter(p.Times, t)
	if i < 0 {
		return series.Series{}
	}
	return series.Series{Times: p.Times[i:], Values: values[i:]}
}

// drawdown computes the fractional decline from the running equity peak,
// zero at new highs and negative below them.
func drawdown(equity []float64) []float64 {
	out := make([]float64, len(equity))
	peak := math.Inf(-1)
	for i, v := range equity {
		if v > peak {
			peak = v
		}
		if peak > 0 {
			out[i] = v/peak - 1
		}
	}
	return out
}
