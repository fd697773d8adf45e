// Package config loads the YAML configuration file and applies environment
// variable overrides.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ---------------------------------------------------------------------------
// Configuration structs
// ---------------------------------------------------------------------------

// Config is the top-level configuration for the stratlab pipeline.
type Config struct {
	Universe Universe `yaml:"universe"`
	Backtest Backtest `yaml:"backtest"`
	Output   Output   `yaml:"output"`
	Storage  Storage  `yaml:"storage"`
	Alpaca   Alpaca   `yaml:"alpaca"`
	Logging  Logging  `yaml:"logging"`
}

// Universe lists the tickers to analyze.
type Universe struct {
	Tickers []string `yaml:"tickers"`
}

// Backtest holds the simulation parameters shared by every portfolio.
type Backtest struct {
	StartDate   string  `yaml:"start_date"`
	InitialCash float64 `yaml:"initial_cash"`
	Commission  float64 `yaml:"commission"`
	SizePercent float64 `yaml:"size_percent"`
}

// Output holds the destination directories for generated artifacts.
type Output struct {
	AnalysisDir string `yaml:"analysis_dir"`
	ResultsDir  string `yaml:"results_dir"`
}

// Storage holds paths for data persistence.
type Storage struct {
	DataDir    string `yaml:"data_dir"`
	SQLitePath string `yaml:"sqlite_path"`
}

// Alpaca holds credentials and endpoints for the Alpaca market-data API.
type Alpaca struct {
	APIKey          string `yaml:"api_key"`
	APISecret       string `yaml:"api_secret"`
	DataURL         string `yaml:"data_url"`
	RateLimitPerMin int    `yaml:"rate_limit_per_min"`
}

// Logging configures the application logger.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Load reads the YAML configuration file at the given path, parses it into a
// Config struct, fills in defaults, and applies environment variable
// overrides. A .env file in the working directory is loaded first when
// present.
func Load(path string) (*Config, error) {
	// Ignore the error: a missing .env file is the normal case.
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	applyDefaults(cfg)
	applyEnvOverrides(cfg)

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Backtest.InitialCash == 0 {
		cfg.Backtest.InitialCash = 10000
	}
	if cfg.Backtest.Commission == 0 {
		cfg.Backtest.Commission = 0.002
	}
	if cfg.Backtest.SizePercent == 0 {
		cfg.Backtest.SizePercent = 1.0
	}
	if cfg.Output.AnalysisDir == "" {
		cfg.Output.AnalysisDir = "analysis"
	}
	if cfg.Output.ResultsDir == "" {
		cfg.Output.ResultsDir = "results"
	}
	if cfg.Storage.DataDir == "" {
		cfg.Storage.DataDir = "data"
	}
	if cfg.Storage.SQLitePath == "" {
		cfg.Storage.SQLitePath = "data/stratlab.db"
	}
	if cfg.Alpaca.RateLimitPerMin == 0 {
		cfg.Alpaca.RateLimitPerMin = 200
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
}

// applyEnvOverrides checks well-known environment variables and overrides the
// corresponding configuration fields when they are set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.Storage.DataDir = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Storage.SQLitePath = v
	}

	if v := os.Getenv("ALPACA_API_KEY"); v != "" {
		cfg.Alpaca.APIKey = v
	}
	if v := os.Getenv("ALPACA_API_SECRET"); v != "" {
		cfg.Alpaca.APISecret = v
	}
	if v := os.Getenv("ALPACA_DATA_URL"); v != "" {
		cfg.Alpaca.DataURL = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}

	// Standard Alpaca env vars (highest priority — canonical names used by SDK).
	if v := os.Getenv("APCA_API_KEY_ID"); v != "" {
		cfg.Alpaca.APIKey = v
	}
	if v := os.Getenv("APCA_API_SECRET_KEY"); v != "" {
		cfg.Alpaca.APISecret = v
	}
}

func validate(cfg *Config) error {
	if len(cfg.Universe.Tickers) == 0 {
		return fmt.Errorf("config: universe.tickers is empty")
	}
	if cfg.Backtest.StartDate == "" {
		return fmt.Errorf("config: backtest.start_date is required")
	}
	if cfg.Backtest.Commission < 0 || cfg.Backtest.Commission >= 1 {
		return fmt.Errorf("config: backtest.commission %v out of range [0, 1)", cfg.Backtest.Commission)
	}
	if cfg.Backtest.SizePercent <= 0 || cfg.Backtest.SizePercent > 1 {
		return fmt.Errorf("config: backtest.size_percent %v out of range (0, 1]", cfg.Backtest.SizePercent)
	}
	return nil
}
