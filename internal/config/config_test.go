package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stratlab.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func clearEnvOverrides(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"ALPACA_API_KEY", "ALPACA_API_SECRET", "ALPACA_DATA_URL",
		"APCA_API_KEY_ID", "APCA_API_SECRET_KEY",
		"DATA_DIR", "SQLITE_PATH", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoad(t *testing.T) {
	clearEnvOverrides(t)

	path := writeConfig(t, `
universe:
  tickers: [AAPL, MSFT]
backtest:
  start_date: "2020-01-01"
  initial_cash: 25000
  commission: 0.001
  size_percent: 0.5
output:
  analysis_dir: out/analysis
  results_dir: out/results
storage:
  data_dir: /tmp/stratlab/data
  sqlite_path: /tmp/stratlab/stratlab.db
alpaca:
  api_key: test-key
  api_secret: test-secret
  rate_limit_per_min: 100
logging:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if len(cfg.Universe.Tickers) != 2 || cfg.Universe.Tickers[0] != "AAPL" {
		t.Errorf("Universe.Tickers = %v, want [AAPL MSFT]", cfg.Universe.Tickers)
	}
	if cfg.Backtest.StartDate != "2020-01-01" {
		t.Errorf("Backtest.StartDate = %q, want 2020-01-01", cfg.Backtest.StartDate)
	}
	if cfg.Backtest.InitialCash != 25000 {
		t.Errorf("Backtest.InitialCash = %v, want 25000", cfg.Backtest.InitialCash)
	}
	if cfg.Backtest.Commission != 0.001 {
		t.Errorf("Backtest.Commission = %v, want 0.001", cfg.Backtest.Commission)
	}
	if cfg.Backtest.SizePercent != 0.5 {
		t.Errorf("Backtest.SizePercent = %v, want 0.5", cfg.Backtest.SizePercent)
	}
	if cfg.Output.AnalysisDir != "out/analysis" || cfg.Output.ResultsDir != "out/results" {
		t.Errorf("Output dirs = %q/%q", cfg.Output.AnalysisDir, cfg.Output.ResultsDir)
	}
	if cfg.Alpaca.APIKey != "test-key" || cfg.Alpaca.RateLimitPerMin != 100 {
		t.Errorf("Alpaca = %+v", cfg.Alpaca)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnvOverrides(t)

	path := writeConfig(t, `
universe:
  tickers: [AAPL]
backtest:
  start_date: "2021-06-01"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Backtest.InitialCash != 10000 {
		t.Errorf("default InitialCash = %v, want 10000", cfg.Backtest.InitialCash)
	}
	if cfg.Backtest.Commission != 0.002 {
		t.Errorf("default Commission = %v, want 0.002", cfg.Backtest.Commission)
	}
	if cfg.Backtest.SizePercent != 1.0 {
		t.Errorf("default SizePercent = %v, want 1.0", cfg.Backtest.SizePercent)
	}
	if cfg.Output.AnalysisDir != "analysis" || cfg.Output.ResultsDir != "results" {
		t.Errorf("default output dirs = %q/%q", cfg.Output.AnalysisDir, cfg.Output.ResultsDir)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "text" {
		t.Errorf("default Logging = %+v", cfg.Logging)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnvOverrides(t)

	path := writeConfig(t, `
universe:
  tickers: [AAPL]
backtest:
  start_date: "2020-01-01"
alpaca:
  api_key: from-file
  api_secret: from-file
`)

	t.Setenv("ALPACA_API_KEY", "from-alpaca-env")
	t.Setenv("APCA_API_KEY_ID", "from-apca-env")
	t.Setenv("DATA_DIR", "/override/data")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	// The canonical SDK variable wins over both the file and ALPACA_*.
	if cfg.Alpaca.APIKey != "from-apca-env" {
		t.Errorf("Alpaca.APIKey = %q, want from-apca-env", cfg.Alpaca.APIKey)
	}
	if cfg.Storage.DataDir != "/override/data" {
		t.Errorf("Storage.DataDir = %q, want /override/data", cfg.Storage.DataDir)
	}
}

func TestLoadValidation(t *testing.T) {
	clearEnvOverrides(t)

	if _, err := Load(writeConfig(t, `
universe:
  tickers: []
backtest:
  start_date: "2020-01-01"
`)); err == nil {
		t.Error("Load should reject an empty universe")
	}

	if _, err := Load(writeConfig(t, `
universe:
  tickers: [AAPL]
`)); err == nil {
		t.Error("Load should reject a missing start date")
	}

	if _, err := Load(writeConfig(t, `
universe:
  tickers: [AAPL]
backtest:
  start_date: "2020-01-01"
  size_percent: 1.5
`)); err == nil {
		t.Error("Load should reject size_percent above 1")
	}
}
