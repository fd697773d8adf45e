// Package us fetches US equity market data from the Alpaca market-data API.
package us

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"stratlab/internal/domain"
	"stratlab/internal/gather"
	"stratlab/internal/store"
	"stratlab/internal/util"
)

// Compile-time interface check.
var _ gather.Fetcher = (*AlpacaFetcher)(nil)

const (
	fetchAttempts  = 3
	fetchBaseDelay = 2 * time.Second
)

// AlpacaFetcher fetches daily bars for US equities via the Alpaca
// market-data API, with a local Parquet cache in front of the network. A
// symbol whose cached history already reaches the last finished session is
// served entirely from disk.
type AlpacaFetcher struct {
	client  *marketdata.Client
	cache   store.BarCache
	limiter *util.RateLimiter
	log     *slog.Logger
}

// NewAlpacaFetcher creates an AlpacaFetcher with the given credentials,
// backing cache, and API rate limit.
func NewAlpacaFetcher(apiKey, apiSecret, dataURL string, cache store.BarCache, rateLimitPerMin int) *AlpacaFetcher {
	opts := marketdata.ClientOpts{
		APIKey:    apiKey,
		APISecret: apiSecret,
	}
	if dataURL != "" {
		opts.BaseURL = dataURL
	}

	return &AlpacaFetcher{
		client:  marketdata.NewClient(opts),
		cache:   cache,
		limiter: util.NewRateLimiter(rateLimitPerMin),
		log:     slog.Default().With("fetcher", "us-alpaca"),
	}
}

// Name returns the fetcher identifier.
func (f *AlpacaFetcher) Name() string { return "us-alpaca" }

// Fetch returns daily bars for the symbol from start to the most recent
// finished session. Cached bars are used as-is; only the missing tail is
// requested from the API, validated, and written back to the cache.
func (f *AlpacaFetcher) Fetch(ctx context.Context, symbol string, start time.Time) ([]domain.Bar, error) {
	symbol = strings.ToUpper(symbol)
	end := lastFinishedSession(time.Now().UTC())

	cached, err := f.cache.ReadBars(ctx, symbol, start, end)
	if err != nil {
		return nil, fmt.Errorf("reading cache for %s: %w", symbol, err)
	}

	fetchFrom := start
	if len(cached) > 0 {
		fetchFrom = cached[len(cached)-1].Timestamp.AddDate(0, 0, 1)
	}

	if !fetchFrom.After(end) {
		fresh, err := f.fetchRange(ctx, symbol, fetchFrom, end)
		if err != nil {
			return nil, err
		}
		if len(fresh) > 0 {
			if err := f.cache.WriteBars(ctx, fresh); err != nil {
				return nil, fmt.Errorf("caching bars for %s: %w", symbol, err)
			}
			cached = append(cached, fresh...)
		}
	}

	if err := gather.ValidateBars(symbol, cached); err != nil {
		return nil, err
	}
	return cached, nil
}

// fetchRange requests daily bars from the API with retry and rate limiting.
func (f *AlpacaFetcher) fetchRange(ctx context.Context, symbol string, start, end time.Time) ([]domain.Bar, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var alpacaBars []marketdata.Bar
	err := util.Retry(ctx, fetchAttempts, fetchBaseDelay, func() error {
		var err error
		alpacaBars, err = f.client.GetBars(symbol, marketdata.GetBarsRequest{
			TimeFrame:  marketdata.OneDay,
			Start:      start,
			End:        end,
			Adjustment: marketdata.Split,
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("GetBars %s: %w", symbol, err)
	}

	bars := make([]domain.Bar, 0, len(alpacaBars))
	for _, ab := range alpacaBars {
		bars = append(bars, domain.Bar{
			Symbol:    symbol,
			Timestamp: ab.Timestamp.UTC(),
			Open:      ab.Open,
			High:      ab.High,
			Low:       ab.Low,
			Close:     ab.Close,
			Volume:    int64(ab.Volume),
		})
	}

	f.log.Debug("fetched bars", "symbol", symbol, "count", len(bars),
		"from", start.Format("2006-01-02"), "to", end.Format("2006-01-02"))
	return bars, nil
}

// lastFinishedSession returns the most recent date whose daily bar is final.
// Daily bars for the current session settle after the US close, so the
// previous calendar day is the safe upper bound, stepped back over weekends.
func lastFinishedSession(now time.Time) time.Time {
	d := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	for d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
		d = d.AddDate(0, 0, -1)
	}
	return d
}
