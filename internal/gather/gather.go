// Package gather defines the market-data acquisition interface and its
// shared validation rules.
package gather

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stratlab/internal/domain"
)

// ErrNoData indicates the provider returned no usable bars for a symbol.
var ErrNoData = errors.New("no data for symbol")

// Fetcher retrieves daily OHLCV history for a single symbol.
type Fetcher interface {
	// Name returns the fetcher identifier.
	Name() string

	// Fetch returns daily bars for the symbol from start to the most recent
	// available session, sorted by timestamp. Returns ErrNoData when the
	// provider has nothing usable for the symbol.
	Fetch(ctx context.Context, symbol string, start time.Time) ([]domain.Bar, error)
}

// ValidateBars checks fetched history before it enters the pipeline: bars
// must be non-empty, strictly increasing in time, and carry positive prices.
func ValidateBars(symbol string, bars []domain.Bar) error {
	if len(bars) == 0 {
		return fmt.Errorf("%s: %w", symbol, ErrNoData)
	}
	for i, b := range bars {
		if i > 0 && !bars[i-1].Timestamp.Before(b.Timestamp) {
			return fmt.Errorf("%s: bars out of order at %s", symbol, b.Timestamp.Format("2006-01-02"))
		}
		if b.Open <= 0 || b.High <= 0 || b.Low <= 0 || b.Close <= 0 {
			return fmt.Errorf("%s: non-positive price at %s", symbol, b.Timestamp.Format("2006-01-02"))
		}
	}
	return nil
}
