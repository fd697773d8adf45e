package backtest

import (
	"math"
)

// MetricStatus distinguishes a computed metric from one that could not be
// produced, so callers can branch without sentinel values.
type MetricStatus uint8

const (
	// MetricComputed means Value holds a valid result.
	MetricComputed MetricStatus = iota
	// MetricNotApplicable means the metric is undefined for this portfolio
	// (no trades, no losing trades, zero elapsed time).
	MetricNotApplicable
	// MetricFailed means the computation produced a non-finite result.
	MetricFailed
)

// Metric is one performance statistic with its computation status.
type Metric struct {
	Value  float64
	Status MetricStatus
}

// Ok reports whether the metric carries a usable value.
func (m Metric) Ok() bool { return m.Status == MetricComputed }

// Computed wraps v as a computed metric, downgrading non-finite values to
// MetricFailed.
func Computed(v float64) Metric {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Metric{Status: MetricFailed}
	}
	return Metric{Value: v}
}

// NotApplicable is the explicit missing value.
func NotApplicable() Metric { return Metric{Status: MetricNotApplicable} }

// Stats holds every metric extracted from one simulated portfolio.
// Percentage metrics are in percent units; drawdown is signed negative.
type Stats struct {
	TotalReturn      Metric // %
	AnnualizedReturn Metric // %
	MaxDrawdown      Metric // %, negative
	SharpeRatio      Metric
	SortinoRatio     Metric
	CalmarRatio      Metric
	TotalTrades      Metric // count
	WinRate          Metric // %
	AvgWinningTrade  Metric // %
	AvgLosingTrade   Metric // %
	ProfitFactor     Metric
	BestTrade        Metric // %
	WorstTrade       Metric // %
}

// Compute extracts the full statistic set from a portfolio. A metric that
// cannot be computed is reported as NotApplicable or Failed; one bad metric
// never prevents the others from being produced.
func Compute(p *Portfolio) Stats {
	var s Stats

	if len(p.Equity) == 0 || p.InitialCash <= 0 {
		s.TotalReturn = NotApplicable()
		s.AnnualizedReturn = NotApplicable()
		s.MaxDrawdown = NotApplicable()
		s.SharpeRatio = NotApplicable()
		s.SortinoRatio = NotApplicable()
		s.CalmarRatio = NotApplicable()
		s.TotalTrades = Computed(0)
		s.WinRate = NotApplicable()
		s.AvgWinningTrade = NotApplicable()
		s.AvgLosingTrade = NotApplicable()
		s.ProfitFactor = NotApplicable()
		s.BestTrade = NotApplicable()
		s.WorstTrade = NotApplicable()
		return s
	}

	final := p.Equity[len(p.Equity)-1]
	totalReturn := (final/p.InitialCash - 1) * 100
	s.TotalReturn = Computed(totalReturn)

	// Annualized return from total return and elapsed calendar years.
	years := p.Times[len(p.Times)-1].Sub(p.Times[0]).Hours() / 24 / 365.25
	if years > 0 && 1+totalReturn/100 > 0 {
		s.AnnualizedReturn = Computed((math.Pow(1+totalReturn/100, 1/years) - 1) * 100)
	} else {
		s.AnnualizedReturn = NotApplicable()
	}

	minDD := 0.0
	for _, d := range p.Drawdown {
		if d < minDD {
			minDD = d
		}
	}
	s.MaxDrawdown = Computed(minDD * 100)

	s.SharpeRatio, s.SortinoRatio = riskRatios(p.Equity, p.PeriodsPerYear)

	if s.AnnualizedReturn.Ok() && minDD < 0 {
		s.CalmarRatio = Computed(s.AnnualizedReturn.Value / math.Abs(minDD*100))
	} else {
		s.CalmarRatio = NotApplicable()
	}

	tradeStats(&s, p.Trades)
	return s
}

// riskRatios computes the Sharpe and Sortino ratios from per-period equity
// returns, annualized by sqrt(periodsPerYear), with a zero risk-free rate.
func riskRatios(equity []float64, periodsPerYear float64) (sharpe, sortino Metric) {
	var rets []float64
	for i := 1; i < len(equity); i++ {
		if equity[i-1] > 0 {
			rets = append(rets, equity[i]/equity[i-1]-1)
		}
	}
	if len(rets) < 2 {
		return NotApplicable(), NotApplicable()
	}

	mean := 0.0
	for _, r := range rets {
		mean += r
	}
	mean /= float64(len(rets))

	variance := 0.0
	downside := 0.0
	for _, r := range rets {
		variance += (r - mean) * (r - mean)
		if r < 0 {
			downside += r * r
		}
	}
	variance /= float64(len(rets) - 1)
	std := math.Sqrt(variance)
	downDev := math.Sqrt(downside / float64(len(rets)))

	ann := math.Sqrt(periodsPerYear)
	if std > 0 {
		sharpe = Computed(mean / std * ann)
	} else {
		sharpe = NotApplicable()
	}
	if downDev > 0 {
		sortino = Computed(mean / downDev * ann)
	} else {
		sortino = NotApplicable()
	}
	return sharpe, sortino
}

// tradeStats fills in the trade-quality metrics from the closed-trade log.
func tradeStats(s *Stats, trades []ClosedTrade) {
	s.TotalTrades = Computed(float64(len(trades)))
	if len(trades) == 0 {
		s.WinRate = NotApplicable()
		s.AvgWinningTrade = NotApplicable()
		s.AvgLosingTrade = NotApplicable()
		s.ProfitFactor = NotApplicable()
		s.BestTrade = NotApplicable()
		s.WorstTrade = NotApplicable()
		return
	}

	var (
		wins, losses        int
		winRetSum, lossRet  float64
		grossWin, grossLoss float64
	)
	best, worst := math.Inf(-1), math.Inf(1)
	for _, tr := range trades {
		if tr.PnL > 0 {
			wins++
			winRetSum += tr.Return
			grossWin += tr.PnL
		} else if tr.PnL < 0 {
			losses++
			lossRet += tr.Return
			grossLoss += -tr.PnL
		}
		if tr.Return > best {
			best = tr.Return
		}
		if tr.Return < worst {
			worst = tr.Return
		}
	}

	s.WinRate = Computed(float64(wins) / float64(len(trades)) * 100)

	if wins > 0 {
		s.AvgWinningTrade = Computed(winRetSum / float64(wins) * 100)
	} else {
		s.AvgWinningTrade = NotApplicable()
	}
	if losses > 0 {
		s.AvgLosingTrade = Computed(lossRet / float64(losses) * 100)
	} else {
		s.AvgLosingTrade = NotApplicable()
	}

	// Profit factor is undefined without losing trades.
	if grossLoss > 0 {
		s.ProfitFactor = Computed(grossWin / grossLoss)
	} else {
		s.ProfitFactor = NotApplicable()
	}

	s.BestTrade = Computed(best * 100)
	s.WorstTrade = Computed(worst * 100)
}
