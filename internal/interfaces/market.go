package interfaces

import (
	"context"

	"market-radar-bot/internal/types"
)

// MarketData is the quote source capability the pipeline depends on. The
// upstream provider is unreliable per symbol, so implementations drop failing
// symbols from CloseSeries results instead of failing the batch.
type MarketData interface {
	// CloseSeries returns daily closing prices for the trailing number of
	// days. Symbols that could not be fetched are simply absent.
	CloseSeries(ctx context.Context, symbols []string, days int) (*types.PriceTable, error)

	// SharesOutstanding returns the outstanding share count for one symbol.
	// A zero or missing count is an error.
	SharesOutstanding(ctx context.Context, symbol string) (int64, error)
}
