package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"stratlab/internal/config"
	"stratlab/internal/domain"
	"stratlab/internal/gather"
)

// stubFetcher serves synthetic daily history and fails for unknown symbols.
type stubFetcher struct {
	bars map[string][]domain.Bar
}

func (f *stubFetcher) Name() string { return "stub" }

func (f *stubFetcher) Fetch(_ context.Context, symbol string, _ time.Time) ([]domain.Bar, error) {
	bars, ok := f.bars[symbol]
	if !ok {
		return nil, gather.ErrNoData
	}
	return bars, nil
}

func syntheticDaily(symbol string, n int) []domain.Bar {
	bars := make([]domain.Bar, n)
	start := time.Date(2022, 1, 3, 0, 0, 0, 0, time.UTC)
	price := 100.0
	for i := range bars {
		bars[i] = domain.Bar{
			Symbol:    symbol,
			Timestamp: start.AddDate(0, 0, i),
			Open:      price * 0.999,
			High:      price * 1.01,
			Low:       price * 0.99,
			Close:     price,
			Volume:    1000,
		}
		price *= 1.001
	}
	return bars
}

func testConfig(t *testing.T, tickers []string) *config.Config {
	t.Helper()
	return &config.Config{
		Universe: config.Universe{Tickers: tickers},
		Backtest: config.Backtest{
			StartDate:   "2022-01-01",
			InitialCash: 10000,
			Commission:  0.002,
			SizePercent: 1.0,
		},
		Output: config.Output{
			AnalysisDir: filepath.Join(t.TempDir(), "analysis"),
			ResultsDir:  filepath.Join(t.TempDir(), "results"),
		},
	}
}

func TestPipelineRowStructure(t *testing.T) {
	fetcher := &stubFetcher{bars: map[string][]domain.Bar{
		"GOOD": syntheticDaily("GOOD", 400),
	}}
	cfg := testConfig(t, []string{"GOOD"})

	results, err := New(fetcher, cfg).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// One benchmark row plus one row per strategy.
	if len(results) != len(domain.ActiveStrategies)+1 {
		t.Fatalf("results = %d rows, want %d", len(results), len(domain.ActiveStrategies)+1)
	}
	seen := make(map[string]bool)
	for _, r := range results {
		if r.Ticker != "GOOD" {
			t.Errorf("unexpected ticker %q", r.Ticker)
		}
		if seen[r.Strategy] {
			t.Errorf("duplicate strategy row %q", r.Strategy)
		}
		seen[r.Strategy] = true
	}
	if !seen[domain.StrategyBenchmark] {
		t.Error("missing benchmark row")
	}

	// The per-ticker dashboard was rendered.
	page := filepath.Join(cfg.Output.AnalysisDir, "GOOD_analysis.html")
	if _, err := os.Stat(page); err != nil {
		t.Errorf("ticker page not written: %v", err)
	}
}

func TestPipelineSkipsFailedTickers(t *testing.T) {
	fetcher := &stubFetcher{bars: map[string][]domain.Bar{
		"GOOD": syntheticDaily("GOOD", 400),
	}}
	cfg := testConfig(t, []string{"MISSING", "GOOD"})

	results, err := New(fetcher, cfg).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// The failed ticker contributes zero rows and does not stop the batch.
	for _, r := range results {
		if r.Ticker == "MISSING" {
			t.Errorf("failed ticker produced a row: %+v", r)
		}
	}
	if len(results) != len(domain.ActiveStrategies)+1 {
		t.Fatalf("results = %d rows, want %d from the surviving ticker",
			len(results), len(domain.ActiveStrategies)+1)
	}
}

func TestPipelineBadStartDate(t *testing.T) {
	cfg := testConfig(t, []string{"GOOD"})
	cfg.Backtest.StartDate = "not-a-date"

	if _, err := New(&stubFetcher{}, cfg).Run(context.Background()); err == nil {
		t.Error("Run should reject an unparseable start date")
	}
}
