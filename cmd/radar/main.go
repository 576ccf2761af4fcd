package main

import (
	"context"
	"fmt"
	"os"

	"market-radar-bot/internal/interfaces"
	"market-radar-bot/internal/logger"
	"market-radar-bot/internal/macro"
	"market-radar-bot/internal/mcap"
	"market-radar-bot/internal/news"
	"market-radar-bot/internal/report"
	"market-radar-bot/internal/runlog"
	"market-radar-bot/internal/store"
	"market-radar-bot/internal/trace"
	"market-radar-bot/internal/types"
)

// The daily run sends two messages: the macro indicator summary and the
// market-cap rank report. A stage that fails end-to-end still produces a
// message describing the failure, and the process exits 0 either way - the
// point of the bot is that a notification always arrives.
func main() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if err := initializeSystem(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "init: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	defer trace.Shutdown(ctx)

	src := initializeSource(cfg)
	sink := initializeSink(ctx)

	logger.Info(ctx, "Daily run started",
		"watchlist", len(cfg.Watchlist),
		"indicators", len(cfg.MacroIndicators))

	deliver(ctx, sink, "macro", macroMessage(ctx, cfg, src))
	deliver(ctx, sink, "mcap", capRankMessage(ctx, cfg, src))

	logger.Info(ctx, "Daily run finished")
}

// macroMessage builds the macro summary text, falling back to an error
// message when the whole stage fails.
func macroMessage(ctx context.Context, cfg *store.Config, src interfaces.MarketData) string {
	ctx, span := trace.StartSpan(ctx, "stage.macro")
	defer span.End()

	snap, err := macro.Summary(ctx, src, cfg.MacroIndicators)
	if err != nil {
		logger.Stage(ctx, "macro", false, "error", err)
		return report.StageError("macro summary", err)
	}

	var headlines []types.Headline
	if cfg.Headlines.Enabled {
		headlines = news.NewScraper(cfg.Headlines.Max).TopHeadlines(ctx)
	}

	logger.Stage(ctx, "macro", true, "indicators", len(snap.Indicators), "headlines", len(headlines))
	return report.Macro(snap, headlines)
}

// capRankMessage runs the market-cap pipeline: load, backfill when short,
// append today's row, persist, analyze.
func capRankMessage(ctx context.Context, cfg *store.Config, src interfaces.MarketData) string {
	ctx, span := trace.StartSpan(ctx, "stage.mcap")
	defer span.End()

	st := mcap.NewStore(cfg.DataFile)
	h, err := st.Load()
	if err != nil {
		logger.Stage(ctx, "mcap", false, "error", err)
		return report.StageError("market-cap history load", err)
	}

	if mcap.NeedsBackfill(h, cfg.Backfill.MinRows) {
		rebuilt, err := mcap.Backfill(ctx, src, cfg.Watchlist, cfg.Backfill.WindowDays)
		if err != nil {
			logger.Stage(ctx, "mcap", false, "error", err)
			return report.StageError("market-cap backfill", err)
		}
		h = rebuilt
	}

	date, row, err := mcap.TodayRow(ctx, src, cfg.Watchlist)
	if err != nil {
		logger.Stage(ctx, "mcap", false, "error", err)
		return report.StageError("market-cap snapshot", err)
	}
	h.Upsert(date, row)

	// A failed save costs a re-backfill next run but must not suppress
	// today's report.
	if err := st.Save(h); err != nil {
		logger.ErrorWithErr(ctx, "Failed to persist market-cap history", err, "path", cfg.DataFile)
	}

	a := mcap.Analyze(h)
	logger.Stage(ctx, "mcap", true,
		"rows", a.Rows,
		"topChanges", len(a.TopChanges),
		"midChanges", len(a.MidChanges),
		"entrants", len(a.Entrants),
		"exits", len(a.Exits))
	return report.CapRank(a)
}

// deliver sends one message, logging and run-logging the outcome. Delivery
// failure never stops the run.
func deliver(ctx context.Context, sink interfaces.Sink, stage, text string) {
	err := sink.Send(ctx, text)
	logger.Delivery(ctx, stage, len(text), err)

	entry := runlog.Entry{Stage: stage, OK: err == nil, Chars: len(text)}
	if err != nil {
		entry.Error = err.Error()
	}
	if err := runlog.Append(entry); err != nil {
		logger.Warn(ctx, "Failed to append delivery log", "error", err)
	}
}
