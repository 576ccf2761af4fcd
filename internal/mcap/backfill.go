package mcap

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"market-radar-bot/internal/interfaces"
	"market-radar-bot/internal/logger"
	"market-radar-bot/internal/marketdata"
	"market-radar-bot/internal/types"
)

// CapBillions converts a close price and share count into a market cap in
// billions, the unit used everywhere in the store and reports.
func CapBillions(close float64, shares int64) float64 {
	return close * float64(shares) / 1_000_000_000
}

// Backfill reconstructs a trailing window of market-cap history. Share counts
// are collected once up front; closes are then fetched only for symbols that
// yielded a count, and a row is built for every date where both values exist.
// This is the expensive path (one metadata lookup per symbol) and must only
// run when the persisted history is missing or too short.
func Backfill(ctx context.Context, src interfaces.MarketData, watchlist []string, windowDays int) (*types.History, error) {
	start := time.Now()
	logger.Info(ctx, "Backfilling market-cap history", "symbols", len(watchlist), "windowDays", windowDays)

	counts, skipped := marketdata.CollectShareCounts(ctx, src, watchlist)
	if len(counts) == 0 {
		return nil, errors.New("no share counts available, cannot backfill")
	}

	symbols := make([]string, 0, len(counts))
	for sym := range counts {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)

	table, err := src.CloseSeries(ctx, symbols, windowDays)
	if err != nil {
		return nil, fmt.Errorf("fetching close history: %w", err)
	}

	h := types.NewHistory()
	for _, date := range table.Dates {
		row := types.CapRow{}
		for _, sym := range symbols {
			close, ok := table.Get(date, sym)
			if !ok {
				continue
			}
			row[sym] = CapBillions(close, counts[sym])
		}
		if len(row) > 0 {
			h.Upsert(date, row)
		}
	}

	logger.Info(ctx, "Backfill complete",
		"rows", h.Len(),
		"symbols", len(symbols),
		"skippedSymbols", len(skipped),
		"duration", time.Since(start))
	return h, nil
}

// TodayRow builds the current day's market-cap row from the latest available
// closes. Only symbols with both a close and a positive share count appear.
func TodayRow(ctx context.Context, src interfaces.MarketData, watchlist []string) (date string, row types.CapRow, err error) {
	table, err := src.CloseSeries(ctx, watchlist, 5)
	if err != nil {
		return "", nil, fmt.Errorf("fetching latest closes: %w", err)
	}
	date = table.LastDate()
	if date == "" {
		return "", nil, errors.New("no recent close data")
	}

	counts, _ := marketdata.CollectShareCounts(ctx, src, watchlist)
	if len(counts) == 0 {
		return "", nil, errors.New("no share counts available")
	}

	row = types.CapRow{}
	for sym, shares := range counts {
		close, ok := table.Get(date, sym)
		if !ok {
			continue
		}
		row[sym] = CapBillions(close, shares)
	}
	if len(row) == 0 {
		return "", nil, fmt.Errorf("no market caps computable for %s", date)
	}
	return date, row, nil
}
