package report

import "html/template"

// The dashboards are self-contained HTML documents; Plotly is referenced
// from its CDN rather than embedded.
const plotlyCDN = `<script src="https://cdn.plot.ly/plotly-2.32.0.min.js"></script>`

const baseStyle = `<style>
body { font-family: "Segoe UI", Helvetica, Arial, sans-serif; background: #F5F7FA; color: #1A1A2E; margin: 0; padding: 24px; }
h1 { text-align: center; color: #0A2F35; font-size: 22px; }
h2 { color: #0A2F35; font-size: 16px; margin-top: 32px; }
.sub { text-align: center; color: #5A6B7A; font-size: 13px; margin-bottom: 24px; }
.chart { background: white; border-radius: 6px; padding: 8px; margin-bottom: 24px; }
table { border-collapse: collapse; width: 100%; background: #1A1A2E; color: #E0E0E0; font-size: 12px; }
th { background: #0A2F35; color: white; padding: 8px 10px; text-align: left; }
td { padding: 6px 10px; border-bottom: 1px solid #2A2A3E; }
tr:nth-child(even) td { background: #252540; }
.findings li { margin: 6px 0; color: #1A1A2E; }
</style>`

var tickerTmpl = template.Must(template.New("ticker").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Ticker}} | Quantitative Strategy Analysis</title>
` + plotlyCDN + baseStyle + `
</head>
<body>
<h1>{{.Ticker}} | Quantitative Strategy Analysis</h1>
<div class="sub">Generated {{.GeneratedAt}}</div>

<h2>Equity Curves</h2>
<div id="equity" class="chart"></div>

<h2>Drawdowns</h2>
<div id="drawdown" class="chart"></div>

<h2>Performance Statistics</h2>
<table>
<tr><th>Metric</th>{{range .Columns}}<th>{{.}}</th>{{end}}</tr>
{{range .StatRows}}<tr><td>{{.Label}}</td>{{range .Values}}<td>{{.}}</td>{{end}}</tr>
{{end}}</table>

<script>
Plotly.newPlot("equity", {{.EquityTraces}}, {
  template: "plotly_white", height: 420, hovermode: "x unified",
  yaxis: {title: "Portfolio Value ($)"}, margin: {l: 60, r: 30, t: 20, b: 40}
});
Plotly.newPlot("drawdown", {{.DrawdownTraces}}, {
  template: "plotly_white", height: 300, hovermode: "x unified",
  yaxis: {title: "Drawdown", tickformat: ".0%"}, xaxis: {title: "Date"},
  margin: {l: 60, r: 30, t: 20, b: 40}
});
</script>
</body>
</html>
`))

var masterTmpl = template.Must(template.New("master").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Strategy Performance Dashboard</title>
` + plotlyCDN + baseStyle + `
</head>
<body>
<h1>Quantitative Strategy Analysis</h1>
<div class="sub">Performance Dashboard: {{.TickerCount}} tickers &times; 3 strategies | Generated {{.GeneratedAt}}</div>

<h2>Top {{len .TopRows}} Highest Return Strategies (Beat Market Only, Ranked by Total Return)</h2>
<table>
<tr><th>Rank</th><th>Stock</th><th>Strategy</th><th>Return</th><th>Sharpe</th><th>Max DD</th><th>Outperform</th></tr>
{{range .TopRows}}<tr><td>{{.Rank}}</td><td>{{.Ticker}}</td><td>{{.Strategy}}</td><td>{{.TotalReturn}}</td><td>{{.Sharpe}}</td><td>{{.MaxDrawdown}}</td><td>{{.Outperformance}}</td></tr>
{{end}}</table>

<h2>Strategy Performance Summary</h2>
<table>
<tr><th>Strategy</th><th>Wins vs Market</th><th>Avg Return</th><th>Avg Sharpe</th><th>Stocks Tested</th></tr>
{{range .Summary}}<tr><td>{{.Strategy}}</td><td>{{.Wins}}</td><td>{{printf "%.2f%%" .AvgReturn}}</td><td>{{printf "%.3f" .AvgSharpe}}</td><td>{{.Count}}</td></tr>
{{end}}</table>

<h2>Risk vs Return: All Strategies</h2>
<div id="scatter" class="chart"></div>

<h2>Key Findings</h2>
<ul class="findings">
{{range .Findings}}<li>{{.}}</li>
{{end}}</ul>

<script>
Plotly.newPlot("scatter", {{.ScatterData}}, {
  template: "plotly_white", height: 460,
  xaxis: {title: "Max Drawdown (%)", gridcolor: "#E0E0E0"},
  yaxis: {title: "Total Return (%)", gridcolor: "#E0E0E0"},
  margin: {l: 60, r: 30, t: 20, b: 50}
});
</script>
</body>
</html>
`))

var topTmpl = template.Must(template.New("top").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Top Performing Strategies</title>
` + plotlyCDN + baseStyle + `
</head>
<body>
<h1>Top Performing Strategies</h1>
<div class="sub">Filtered for: positive return + beat market + Sharpe &gt; 0.5 | Generated {{.GeneratedAt}}</div>

<h2>Top {{len .Rows}} Strategy-Stock Combinations (Ranked by Composite Score)</h2>
<table>
<tr><th>Rank</th><th>Stock</th><th>Strategy</th><th>Return</th><th>Sharpe</th><th>Sortino</th><th>Max DD</th><th>Calmar</th><th>vs Market</th><th>Trades</th><th>Win Rate</th><th>Score</th></tr>
{{range .Rows}}<tr><td>{{.Rank}}</td><td>{{.Ticker}}</td><td>{{.Strategy}}</td><td>{{.TotalReturn}}</td><td>{{.Sharpe}}</td><td>{{.Sortino}}</td><td>{{.MaxDrawdown}}</td><td>{{.Calmar}}</td><td>{{.Outperf}}</td><td>{{.Trades}}</td><td>{{.WinRate}}</td><td>{{.Score}}</td></tr>
{{end}}</table>

<h2>Performance Distribution by Strategy Type</h2>
<div id="dist" class="chart"></div>

<h2>Best Stocks by Strategy</h2>
<table>
<tr><th>Strategy</th><th>Best Stock</th><th>Return</th><th>Sharpe</th><th>Overall Rank</th></tr>
{{range .Best}}<tr><td>{{.Strategy}}</td><td>{{.Ticker}}</td><td>{{.Return}}</td><td>{{.Sharpe}}</td><td>{{.Rank}}</td></tr>
{{end}}</table>

<script>
Plotly.newPlot("dist", {{.BarData}}, {
  template: "plotly_white", height: 320, showlegend: false,
  yaxis: {title: "Count in Ranking"}, margin: {l: 60, r: 30, t: 20, b: 40}
});
</script>
</body>
</html>
`))
