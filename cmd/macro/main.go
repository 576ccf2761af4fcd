package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"market-radar-bot/internal/logger"
	"market-radar-bot/internal/macro"
	"market-radar-bot/internal/marketdata"
	"market-radar-bot/internal/report"
	"market-radar-bot/internal/store"
	"market-radar-bot/internal/telegram"

	"github.com/joho/godotenv"
)

// Stateless subset of the daily run: macro indicator summary and send,
// no market-cap store, no delivery log.
func main() {
	_ = godotenv.Load()
	if err := logger.Init(); err != nil {
		log.Fatal(err)
	}

	cfg, err := store.LoadConfig("config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	src := marketdata.NewYahooSource(marketdata.WithRateLimit(cfg.Quotes.RequestsPerSecond))

	text := ""
	if snap, err := macro.Summary(ctx, src, cfg.MacroIndicators); err != nil {
		logger.Stage(ctx, "macro", false, "error", err)
		text = report.StageError("macro summary", err)
	} else {
		logger.Stage(ctx, "macro", true, "indicators", len(snap.Indicators))
		text = report.Macro(snap, nil)
	}

	secrets := store.LoadSecrets()
	sink := telegram.New(secrets.TelegramToken, secrets.ChatID)
	err = sink.Send(ctx, text)
	logger.Delivery(ctx, "macro", len(text), err)
}
