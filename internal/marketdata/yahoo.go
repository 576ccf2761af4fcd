package marketdata

import (
	"context"
	"errors"
	"fmt"
	"time"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/equity"

	"market-radar-bot/internal/logger"
	"market-radar-bot/internal/types"
)

// YahooSource fetches prices and share counts from Yahoo Finance.
type YahooSource struct {
	limiter *RateLimiter
	cache   *ShareCache
}

// YahooOption configures the source
type YahooOption func(*YahooSource)

// WithRateLimit paces outgoing requests
func WithRateLimit(requestsPerSecond int) YahooOption {
	return func(y *YahooSource) {
		if requestsPerSecond > 0 {
			y.limiter = NewRateLimiter(requestsPerSecond, time.Second/time.Duration(requestsPerSecond))
		}
	}
}

// WithShareCache caches per-symbol share counts on disk
func WithShareCache(cache *ShareCache) YahooOption {
	return func(y *YahooSource) {
		y.cache = cache
	}
}

// NewYahooSource creates a Yahoo Finance backed market data source
func NewYahooSource(opts ...YahooOption) *YahooSource {
	y := &YahooSource{
		limiter: NewRateLimiter(4, 250*time.Millisecond),
	}
	for _, opt := range opts {
		opt(y)
	}
	return y
}

// CloseSeries fetches daily closes for the trailing number of days. A symbol
// whose fetch fails is dropped from the table; only an empty result for the
// whole batch is an error.
func (y *YahooSource) CloseSeries(ctx context.Context, symbols []string, days int) (*types.PriceTable, error) {
	end := time.Now()
	start := end.AddDate(0, 0, -days)

	table := types.NewPriceTable()
	fetched := 0
	for _, sym := range symbols {
		if err := y.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		iter := chart.Get(&chart.Params{
			Params:   finance.Params{Context: &ctx},
			Symbol:   sym,
			Interval: datetime.OneDay,
			Start:    datetime.New(&start),
			End:      datetime.New(&end),
		})

		n := 0
		for iter.Next() {
			bar := iter.Bar()
			close, _ := bar.Close.Float64()
			if close <= 0 {
				continue
			}
			date := time.Unix(int64(bar.Timestamp), 0).UTC().Format(types.DateFormat)
			table.Set(date, sym, close)
			n++
		}
		if err := iter.Err(); err != nil {
			logger.Warn(ctx, "Close series fetch failed, skipping symbol", "symbol", sym, "error", err)
			continue
		}
		if n > 0 {
			fetched++
		}
	}

	if fetched == 0 {
		return nil, fmt.Errorf("no close data for any of %d symbols", len(symbols))
	}
	return table, nil
}

// SharesOutstanding looks up the outstanding share count for one symbol via
// the equity endpoint, consulting the on-disk cache first when configured.
// Share counts live on the equity quote, not the plain quote.
func (y *YahooSource) SharesOutstanding(ctx context.Context, symbol string) (int64, error) {
	if y.cache != nil {
		if n, ok := y.cache.Get(symbol); ok {
			return n, nil
		}
	}

	if err := y.limiter.Wait(ctx); err != nil {
		return 0, err
	}

	q, err := equity.Get(symbol)
	if err != nil {
		return 0, fmt.Errorf("equity lookup for %s: %w", symbol, err)
	}
	n, err := sharesOf(q)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", symbol, err)
	}
	if y.cache != nil {
		if err := y.cache.Set(symbol, n); err != nil {
			logger.Debug(ctx, "Share cache write failed", "symbol", symbol, "error", err)
		}
	}
	return n, nil
}

// sharesOf validates the share count reported on an equity quote. Yahoo
// reports zero for funds and some ADRs; those count as absent.
func sharesOf(q *finance.Equity) (int64, error) {
	if q == nil || q.SharesOutstanding <= 0 {
		return 0, errors.New("no share count reported")
	}
	return int64(q.SharesOutstanding), nil
}
