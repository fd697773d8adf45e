package backtest

// Result is one row of the cross-sectional results table: the statistics of
// one strategy on one ticker. Produced once per pipeline run and never
// mutated afterwards.
type Result struct {
	Ticker   string
	Strategy string
	Stats    Stats
}
