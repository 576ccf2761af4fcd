package main

import (
	"context"
	"fmt"
	"time"

	"market-radar-bot/internal/interfaces"
	"market-radar-bot/internal/logger"
	"market-radar-bot/internal/marketdata"
	"market-radar-bot/internal/marketdata/marketobs"
	"market-radar-bot/internal/runlog"
	"market-radar-bot/internal/store"
	"market-radar-bot/internal/telegram"
	"market-radar-bot/internal/trace"

	"github.com/joho/godotenv"
)

// initializeSystem initializes env, logger, tracer and the delivery log
func initializeSystem(cfg *store.Config) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if err := trace.Init(); err != nil {
		logger.Warn(context.Background(), "Failed to initialize tracer, tracing disabled", "error", err)
	}

	runlog.SetDir(cfg.Logging.Dir)
	if cfg.Logging.RetentionDays > 0 {
		if err := runlog.CompressOlder(cfg.Logging.RetentionDays); err != nil {
			logger.Warn(context.Background(), "Failed to compress old delivery logs", "error", err)
		}
	}
	return nil
}

// loadConfig loads env vars and the YAML configuration
func loadConfig() (*store.Config, error) {
	_ = godotenv.Load()
	return store.LoadConfig("config.yaml")
}

// initializeSource builds the Yahoo market data source with pacing, the
// share-count cache, and the observability wrapper
func initializeSource(cfg *store.Config) interfaces.MarketData {
	opts := []marketdata.YahooOption{
		marketdata.WithRateLimit(cfg.Quotes.RequestsPerSecond),
	}
	if cfg.Quotes.CacheDir != "" {
		ttl := time.Duration(cfg.Quotes.CacheTTLHours) * time.Hour
		opts = append(opts, marketdata.WithShareCache(marketdata.NewShareCache(cfg.Quotes.CacheDir, ttl)))
	}
	return marketobs.Wrap(marketdata.NewYahooSource(opts...))
}

// initializeSink builds the Telegram sink from environment credentials
func initializeSink(ctx context.Context) interfaces.Sink {
	secrets := store.LoadSecrets()
	if secrets.TelegramToken == "" || secrets.ChatID == "" {
		logger.Warn(ctx, "TELEGRAM_TOKEN or CHAT_ID not set - messages will not be delivered")
	}
	return telegram.New(secrets.TelegramToken, secrets.ChatID)
}
