// Package store persists the pipeline's local data: a Parquet cache of
// fetched daily bars and a SQLite archive of past run results.
package store

import (
	"context"
	"time"

	"stratlab/internal/domain"
)

// BarCache persists and retrieves daily OHLCV bars fetched from the market
// data provider, so re-runs do not refetch history.
type BarCache interface {
	// WriteBars persists a batch of bars.
	WriteBars(ctx context.Context, bars []domain.Bar) error

	// ReadBars returns cached bars for the symbol within [start, end],
	// sorted by timestamp.
	ReadBars(ctx context.Context, symbol string, start, end time.Time) ([]domain.Bar, error)

	// ListSymbols returns all symbols present in the cache.
	ListSymbols(ctx context.Context) ([]string, error)
}
