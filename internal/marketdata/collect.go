package marketdata

import (
	"context"

	"market-radar-bot/internal/interfaces"
	"market-radar-bot/internal/logger"
)

// CollectShareCounts looks up the share count for every symbol and collects
// the successes. It never fails: symbols whose lookup errored are returned in
// skipped so the caller can log the omissions. A symbol without a positive
// share count is left out entirely rather than recorded as zero.
func CollectShareCounts(ctx context.Context, src interfaces.MarketData, symbols []string) (counts map[string]int64, skipped []string) {
	counts = make(map[string]int64, len(symbols))
	for _, sym := range symbols {
		n, err := src.SharesOutstanding(ctx, sym)
		if err != nil {
			logger.Debug(ctx, "Share count lookup failed, omitting symbol", "symbol", sym, "error", err)
			skipped = append(skipped, sym)
			continue
		}
		counts[sym] = n
	}
	if len(skipped) > 0 {
		logger.Warn(ctx, "Some symbols omitted from share count collection",
			"requested", len(symbols), "collected", len(counts), "skipped", skipped)
	}
	return counts, skipped
}
