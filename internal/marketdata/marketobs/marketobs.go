package marketobs

import (
	"context"

	"market-radar-bot/internal/interfaces"
	"market-radar-bot/internal/logger"
	"market-radar-bot/internal/trace"
	"market-radar-bot/internal/types"
)

// observableSource wraps a MarketData source with observability (logging & tracing)
type observableSource struct {
	src interfaces.MarketData
}

// Compile-time interface check
var _ interfaces.MarketData = (*observableSource)(nil)

// Wrap wraps a market data source with observability middleware
func Wrap(src interfaces.MarketData) interfaces.MarketData {
	return &observableSource{src: src}
}

// CloseSeries fetches a close-price table with observability
func (os *observableSource) CloseSeries(ctx context.Context, symbols []string, days int) (*types.PriceTable, error) {
	ctx, span := trace.StartSpan(ctx, "marketdata.CloseSeries")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Fetching close series", "symbols", len(symbols), "days", days)

	table, err := os.src.CloseSeries(ctx, symbols, days)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to fetch close series", err, "symbols", len(symbols), "days", days)
		return nil, err
	}

	logger.DebugSkip(ctx, 1, "Close series fetched", "dates", table.Len(), "lastDate", table.LastDate())
	return table, nil
}

// SharesOutstanding fetches a share count with observability
func (os *observableSource) SharesOutstanding(ctx context.Context, symbol string) (int64, error) {
	ctx, span := trace.StartSpan(ctx, "marketdata.SharesOutstanding")
	defer span.End()

	n, err := os.src.SharesOutstanding(ctx, symbol)
	if err != nil {
		logger.DebugSkip(ctx, 1, "Share count lookup failed", "symbol", symbol, "error", err)
		return 0, err
	}

	logger.DebugSkip(ctx, 1, "Share count fetched", "symbol", symbol, "shares", n)
	return n, nil
}
