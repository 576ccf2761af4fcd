package macro

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"market-radar-bot/internal/interfaces"
	"market-radar-bot/internal/logger"
)

// Indicator is one macro indicator's latest value and its day-over-day move.
type Indicator struct {
	Name      string
	Value     float64
	ChangePct float64
}

// Snapshot is the macro summary for one day.
type Snapshot struct {
	Date       string
	Indicators []Indicator
}

// Summary fetches a few trailing days of closes for the configured
// name -> ticker map and compares the latest day against the previous one.
// Gaps are forward-filled so a market closed for a holiday still shows its
// last close; the market-cap path deliberately never does this.
func Summary(ctx context.Context, src interfaces.MarketData, indicators map[string]string) (*Snapshot, error) {
	if len(indicators) == 0 {
		return nil, errors.New("no macro indicators configured")
	}

	tickers := make([]string, 0, len(indicators))
	for _, tkr := range indicators {
		tickers = append(tickers, tkr)
	}
	sort.Strings(tickers)

	// 7 calendar days covers the 5 trading days we want plus a weekend.
	table, err := src.CloseSeries(ctx, tickers, 7)
	if err != nil {
		return nil, fmt.Errorf("fetching macro closes: %w", err)
	}
	if table.Len() < 2 {
		return nil, fmt.Errorf("not enough macro history: got %d day(s), need 2", table.Len())
	}
	table.ForwardFill()

	latest := table.Dates[len(table.Dates)-1]
	prev := table.Dates[len(table.Dates)-2]

	names := make([]string, 0, len(indicators))
	for name := range indicators {
		names = append(names, name)
	}
	sort.Strings(names)

	snap := &Snapshot{Date: latest}
	for _, name := range names {
		tkr := indicators[name]
		cur, ok := table.Get(latest, tkr)
		if !ok {
			logger.Debug(ctx, "Macro indicator missing latest close", "name", name, "ticker", tkr)
			continue
		}
		prv, ok := table.Get(prev, tkr)
		if !ok || prv == 0 {
			continue
		}
		snap.Indicators = append(snap.Indicators, Indicator{
			Name:      name,
			Value:     cur,
			ChangePct: (cur - prv) / prv * 100,
		})
	}

	if len(snap.Indicators) == 0 {
		return nil, errors.New("no macro indicators could be computed")
	}
	return snap, nil
}
