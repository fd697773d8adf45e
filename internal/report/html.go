package report

import (
	"encoding/json"
	"fmt"
	"html/template"
	"math"
	"os"
	"path/filepath"
	"time"

	"stratlab/internal/backtest"
	"stratlab/internal/domain"
	"stratlab/internal/rank"
	"stratlab/internal/series"
)

// Chart colors, one per strategy label.
var strategyColors = map[string]string{
	domain.StrategyTrend:     "#00CED1",
	domain.StrategyHighVol:   "#9370DB",
	domain.StrategyLowVol:    "#20B2AA",
	domain.StrategyBenchmark: "#FFD700",
}

// displayName maps a strategy label to its human-readable chart name.
func displayName(label string) string {
	switch label {
	case domain.StrategyHighVol:
		return "High Vol"
	case domain.StrategyLowVol:
		return "Low Vol"
	default:
		return label
	}
}

// ---------------------------------------------------------------------------
// Per-ticker dashboard
// ---------------------------------------------------------------------------

// Curve is one named line on a ticker chart.
type Curve struct {
	Label  string
	Series series.Series
}

// statRow is one row of the per-ticker statistics table.
type statRow struct {
	Label  string
	Values []string // one per strategy column
}

type tickerPageData struct {
	Ticker         string
	GeneratedAt    string
	EquityTraces   template.JS
	DrawdownTraces template.JS
	Columns        []string
	StatRows       []statRow
}

// RenderTickerPage writes the per-ticker dashboard: equity curves, drawdown
// curves, and the per-strategy statistics table. Charts are drawn by Plotly
// loaded from its CDN.
func RenderTickerPage(path, ticker string, equity, drawdown []Curve, stats map[string]backtest.Stats) error {
	order := append([]string{}, domain.ActiveStrategies...)
	order = append(order, domain.StrategyBenchmark)

	data := tickerPageData{
		Ticker:         ticker,
		GeneratedAt:    time.Now().UTC().Format("2006-01-02 15:04 UTC"),
		EquityTraces:   lineTraces(equity, nil),
		DrawdownTraces: lineTraces(drawdown, map[string]any{"tickformat": ".0%"}),
	}

	for _, label := range order {
		data.Columns = append(data.Columns, displayName(label))
	}

	type metricCol struct {
		label  string
		format func(backtest.Metric) string
		pick   func(backtest.Stats) backtest.Metric
	}
	metricRows := []metricCol{
		{"Total Return", FormatPercent, func(s backtest.Stats) backtest.Metric { return s.TotalReturn }},
		{"Annual Return", FormatPercent, func(s backtest.Stats) backtest.Metric { return s.AnnualizedReturn }},
		{"Max Drawdown", FormatPercent, func(s backtest.Stats) backtest.Metric { return s.MaxDrawdown }},
		{"Sharpe Ratio", FormatRatio, func(s backtest.Stats) backtest.Metric { return s.SharpeRatio }},
		{"Sortino Ratio", FormatRatio, func(s backtest.Stats) backtest.Metric { return s.SortinoRatio }},
		{"Calmar Ratio", FormatRatio, func(s backtest.Stats) backtest.Metric { return s.CalmarRatio }},
		{"Total Trades", FormatCount, func(s backtest.Stats) backtest.Metric { return s.TotalTrades }},
		{"Win Rate", FormatPercent, func(s backtest.Stats) backtest.Metric { return s.WinRate }},
		{"Avg Win", FormatPercent, func(s backtest.Stats) backtest.Metric { return s.AvgWinningTrade }},
		{"Avg Loss", FormatPercent, func(s backtest.Stats) backtest.Metric { return s.AvgLosingTrade }},
		{"Profit Factor", FormatRatio, func(s backtest.Stats) backtest.Metric { return s.ProfitFactor }},
		{"Best Trade", FormatPercent, func(s backtest.Stats) backtest.Metric { return s.BestTrade }},
		{"Worst Trade", FormatPercent, func(s backtest.Stats) backtest.Metric { return s.WorstTrade }},
	}
	for _, mr := range metricRows {
		row := statRow{Label: mr.label}
		for _, label := range order {
			row.Values = append(row.Values, mr.format(mr.pick(stats[label])))
		}
		data.StatRows = append(data.StatRows, row)
	}

	return renderToFile(path, tickerTmpl, data)
}

// ---------------------------------------------------------------------------
// Master dashboard
// ---------------------------------------------------------------------------

type masterRow struct {
	Rank           int
	Ticker         string
	Strategy       string
	TotalReturn    string
	Sharpe         string
	MaxDrawdown    string
	Outperformance string
}

type masterPageData struct {
	GeneratedAt string
	TickerCount int
	TopRows     []masterRow
	Summary     []rank.StrategySummary
	ScatterData template.JS
	Findings    []string
}

// RenderMasterDashboard writes the cross-sectional summary page: the top-20
// pure-outperformer table, the per-strategy summary, a risk/return scatter of
// every strategy row, and the key findings.
func RenderMasterDashboard(path string, comps []rank.Comparison, top []rank.Comparison, summary []rank.StrategySummary, findings []string) error {
	tickers := make(map[string]bool)
	for _, c := range comps {
		tickers[c.Ticker] = true
	}

	data := masterPageData{
		GeneratedAt: time.Now().UTC().Format("2006-01-02 15:04 UTC"),
		TickerCount: len(tickers),
		Summary:     summary,
		ScatterData: scatterTraces(comps),
		Findings:    findings,
	}
	for i, c := range top {
		data.TopRows = append(data.TopRows, masterRow{
			Rank:           i + 1,
			Ticker:         c.Ticker,
			Strategy:       displayName(c.Strategy),
			TotalReturn:    FormatPercent(c.Stats.TotalReturn),
			Sharpe:         FormatRatio(c.Stats.SharpeRatio),
			MaxDrawdown:    FormatPercent(c.Stats.MaxDrawdown),
			Outperformance: fmt.Sprintf("%.2f%%", c.Outperformance),
		})
	}

	return renderToFile(path, masterTmpl, data)
}

// ---------------------------------------------------------------------------
// Top performers dashboard
// ---------------------------------------------------------------------------

type topPageRow struct {
	Rank        int
	Ticker      string
	Strategy    string
	TotalReturn string
	Sharpe      string
	Sortino     string
	MaxDrawdown string
	Calmar      string
	Outperf     string
	Trades      string
	WinRate     string
	Score       string
}

type bestRow struct {
	Strategy string
	Ticker   string
	Return   string
	Sharpe   string
	Rank     int
}

type topPageData struct {
	GeneratedAt string
	Rows        []topPageRow
	BarData     template.JS
	Best        []bestRow
}

// RenderTopPerformers writes the composite-score leaderboard page.
func RenderTopPerformers(path string, ranked []rank.RankedRow) error {
	data := topPageData{
		GeneratedAt: time.Now().UTC().Format("2006-01-02 15:04 UTC"),
		BarData:     distributionTraces(ranked),
	}
	for _, r := range ranked {
		data.Rows = append(data.Rows, topPageRow{
			Rank:        r.Rank,
			Ticker:      r.Ticker,
			Strategy:    displayName(r.Strategy),
			TotalReturn: FormatPercent(r.Stats.TotalReturn),
			Sharpe:      FormatRatio(r.Stats.SharpeRatio),
			Sortino:     FormatRatio(r.Stats.SortinoRatio),
			MaxDrawdown: FormatPercent(r.Stats.MaxDrawdown),
			Calmar:      FormatRatio(r.Stats.CalmarRatio),
			Outperf:     fmt.Sprintf("%.2f%%", r.Outperformance),
			Trades:      FormatCount(r.Stats.TotalTrades),
			WinRate:     FormatPercent(r.Stats.WinRate),
			Score:       fmt.Sprintf("%.3f", r.CompositeScore),
		})
	}

	// Best-ranked combination per strategy.
	for _, label := range domain.ActiveStrategies {
		for _, r := range ranked {
			if r.Strategy != label {
				continue
			}
			data.Best = append(data.Best, bestRow{
				Strategy: displayName(label),
				Ticker:   r.Ticker,
				Return:   FormatPercent(r.Stats.TotalReturn),
				Sharpe:   FormatRatio(r.Stats.SharpeRatio),
				Rank:     r.Rank,
			})
			break
		}
	}

	return renderToFile(path, topTmpl, data)
}

// ---------------------------------------------------------------------------
// Trace builders
// ---------------------------------------------------------------------------

// jsonValues converts a float column to a JSON-safe slice, mapping NaN to
// null so Plotly leaves gaps instead of breaking.
func jsonValues(vs []float64) []any {
	out := make([]any, len(vs))
	for i, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			out[i] = nil
			continue
		}
		out[i] = v
	}
	return out
}

func jsonDates(ts []time.Time) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.Format("2006-01-02")
	}
	return out
}

func lineTraces(curves []Curve, yaxisExtra map[string]any) template.JS {
	traces := make([]map[string]any, 0, len(curves))
	for _, c := range curves {
		traces = append(traces, map[string]any{
			"x":    jsonDates(c.Series.Times),
			"y":    jsonValues(c.Series.Values),
			"name": displayName(c.Label),
			"mode": "lines",
			"line": map[string]any{"color": strategyColors[c.Label]},
		})
	}
	return marshalJS(traces)
}

func scatterTraces(comps []rank.Comparison) template.JS {
	byLabel := make(map[string]*struct {
		x, y, size []any
		text       []string
	})
	for _, label := range domain.ActiveStrategies {
		byLabel[label] = &struct {
			x, y, size []any
			text       []string
		}{}
	}

	for _, c := range comps {
		tr, ok := byLabel[c.Strategy]
		if !ok {
			continue
		}
		tr.x = append(tr.x, math.Abs(c.Stats.MaxDrawdown.Value))
		tr.y = append(tr.y, c.Stats.TotalReturn.Value)
		tr.size = append(tr.size, math.Abs(c.Stats.SharpeRatio.Value)*10+4)
		tr.text = append(tr.text, c.Ticker)
	}

	var traces []map[string]any
	for _, label := range domain.ActiveStrategies {
		tr := byLabel[label]
		traces = append(traces, map[string]any{
			"x":    tr.x,
			"y":    tr.y,
			"text": tr.text,
			"name": displayName(label),
			"mode": "markers",
			"marker": map[string]any{
				"size":    tr.size,
				"color":   strategyColors[label],
				"opacity": 0.6,
			},
		})
	}
	return marshalJS(traces)
}

func distributionTraces(ranked []rank.RankedRow) template.JS {
	counts := make(map[string]int)
	for _, r := range ranked {
		counts[r.Strategy]++
	}

	var labels []string
	var values []int
	var colors []string
	for _, label := range domain.ActiveStrategies {
		labels = append(labels, displayName(label))
		values = append(values, counts[label])
		colors = append(colors, strategyColors[label])
	}

	return marshalJS([]map[string]any{{
		"x":      labels,
		"y":      values,
		"type":   "bar",
		"marker": map[string]any{"color": colors},
	}})
}

func marshalJS(v any) template.JS {
	b, err := json.Marshal(v)
	if err != nil {
		// Marshalling map[string]any of primitives cannot fail; guard anyway.
		return template.JS("[]")
	}
	return template.JS(b)
}

func renderToFile(path string, tmpl *template.Template, data any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := tmpl.Execute(f, data); err != nil {
		return fmt.Errorf("rendering %s: %w", path, err)
	}
	return nil
}
