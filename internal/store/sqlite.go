package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.

	"stratlab/internal/backtest"
)

// SQLiteStore archives the results table of every pipeline run in a SQLite
// database, so past runs can be compared and verified.
type SQLiteStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	started_at TEXT    NOT NULL,
	tickers    INTEGER NOT NULL,
	row_count  INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS results (
	run_id            INTEGER NOT NULL REFERENCES runs(id),
	ticker            TEXT    NOT NULL,
	strategy          TEXT    NOT NULL,
	total_return      REAL,
	annualized_return REAL,
	max_drawdown      REAL,
	sharpe_ratio      REAL,
	sortino_ratio     REAL,
	calmar_ratio      REAL,
	total_trades      INTEGER,
	win_rate          REAL,
	avg_winning_trade REAL,
	avg_losing_trade  REAL,
	profit_factor     REAL,
	best_trade        REAL,
	worst_trade       REAL
);
CREATE INDEX IF NOT EXISTS idx_results_run ON results(run_id);
`

// NewSQLiteStore opens (or creates) the archive database at dbPath and
// ensures the schema exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// RunSummary describes one archived pipeline run.
type RunSummary struct {
	ID        int64
	StartedAt time.Time
	Tickers   int
	Rows      int
}

// SaveRun archives one run's results table and returns the new run ID.
func (s *SQLiteStore) SaveRun(ctx context.Context, startedAt time.Time, rows []backtest.Result) (int64, error) {
	tickers := make(map[string]bool)
	for _, r := range rows {
		tickers[r.Ticker] = true
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (started_at, tickers, row_count) VALUES (?, ?, ?)`,
		startedAt.UTC().Format(time.RFC3339), len(tickers), len(rows),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO results (
		run_id, ticker, strategy,
		total_return, annualized_return, max_drawdown, sharpe_ratio,
		sortino_ratio, calmar_ratio, total_trades, win_rate,
		avg_winning_trade, avg_losing_trade, profit_factor, best_trade, worst_trade
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for _, r := range rows {
		_, err := stmt.ExecContext(ctx,
			runID, r.Ticker, r.Strategy,
			nullable(r.Stats.TotalReturn),
			nullable(r.Stats.AnnualizedReturn),
			nullable(r.Stats.MaxDrawdown),
			nullable(r.Stats.SharpeRatio),
			nullable(r.Stats.SortinoRatio),
			nullable(r.Stats.CalmarRatio),
			nullable(r.Stats.TotalTrades),
			nullable(r.Stats.WinRate),
			nullable(r.Stats.AvgWinningTrade),
			nullable(r.Stats.AvgLosingTrade),
			nullable(r.Stats.ProfitFactor),
			nullable(r.Stats.BestTrade),
			nullable(r.Stats.WorstTrade),
		)
		if err != nil {
			return 0, fmt.Errorf("inserting result %s/%s: %w", r.Ticker, r.Strategy, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return runID, nil
}

// RunHistory returns the most recent archived runs, newest first.
func (s *SQLiteStore) RunHistory(ctx context.Context, limit int) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, tickers, row_count FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var r RunSummary
		var started string
		if err := rows.Scan(&r.ID, &started, &r.Tickers, &r.Rows); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339, started); err == nil {
			r.StartedAt = t
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// LatestResults loads the results table of the most recent archived run.
func (s *SQLiteStore) LatestResults(ctx context.Context) ([]backtest.Result, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT
		ticker, strategy,
		total_return, annualized_return, max_drawdown, sharpe_ratio,
		sortino_ratio, calmar_ratio, total_trades, win_rate,
		avg_winning_trade, avg_losing_trade, profit_factor, best_trade, worst_trade
	FROM results WHERE run_id = (SELECT MAX(id) FROM runs) ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []backtest.Result
	for rows.Next() {
		var r backtest.Result
		cols := []any{&r.Ticker, &r.Strategy}
		vals := make([]sql.NullFloat64, 13)
		for i := range vals {
			cols = append(cols, &vals[i])
		}
		if err := rows.Scan(cols...); err != nil {
			return nil, err
		}
		metrics := []*backtest.Metric{
			&r.Stats.TotalReturn, &r.Stats.AnnualizedReturn, &r.Stats.MaxDrawdown,
			&r.Stats.SharpeRatio, &r.Stats.SortinoRatio, &r.Stats.CalmarRatio,
			&r.Stats.TotalTrades, &r.Stats.WinRate, &r.Stats.AvgWinningTrade,
			&r.Stats.AvgLosingTrade, &r.Stats.ProfitFactor, &r.Stats.BestTrade,
			&r.Stats.WorstTrade,
		}
		for i, m := range metrics {
			if vals[i].Valid {
				*m = backtest.Computed(vals[i].Float64)
			} else {
				*m = backtest.NotApplicable()
			}
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// nullable maps a metric to its SQL value: NULL unless computed.
func nullable(m backtest.Metric) sql.NullFloat64 {
	return sql.NullFloat64{Float64: m.Value, Valid: m.Ok()}
}
