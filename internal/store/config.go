package store

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	DataFile string `yaml:"data_file"`

	// Watchlist is the large-cap universe tracked by the market-cap store.
	Watchlist []string `yaml:"watchlist"`

	// MacroIndicators maps a display name to its quote ticker, e.g.
	// "S&P 500" -> "^GSPC".
	MacroIndicators map[string]string `yaml:"macro_indicators"`

	Backfill struct {
		// MinRows is the row count below which history is rebuilt.
		MinRows int `yaml:"min_rows"`
		// WindowDays is how far back the rebuild reaches.
		WindowDays int `yaml:"window_days"`
	} `yaml:"backfill"`

	Quotes struct {
		// RequestsPerSecond paces per-symbol metadata lookups.
		RequestsPerSecond int    `yaml:"requests_per_second"`
		CacheDir          string `yaml:"cache_dir"`
		CacheTTLHours     int    `yaml:"cache_ttl_hours"`
	} `yaml:"quotes"`

	Headlines struct {
		Enabled bool `yaml:"enabled"`
		Max     int  `yaml:"max"`
	} `yaml:"headlines"`

	Logging struct {
		Dir           string `yaml:"dir"`
		RetentionDays int    `yaml:"retention_days"`
	} `yaml:"logging"`
}

// Secrets holds the delivery credentials, loaded from the environment rather
// than the config file.
type Secrets struct {
	TelegramToken string
	ChatID        string
}

// LoadSecrets reads delivery credentials from the environment. Missing values
// are not an error here; the notifier treats them as a no-op send.
func LoadSecrets() Secrets {
	return Secrets{
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		ChatID:        os.Getenv("CHAT_ID"),
	}
}

func (c *Config) Validate() error {
	if len(c.Watchlist) == 0 {
		return errors.New("watchlist cannot be empty")
	}
	seen := map[string]bool{}
	for _, sym := range c.Watchlist {
		if sym == "" {
			return errors.New("watchlist contains an empty symbol")
		}
		if seen[sym] {
			return fmt.Errorf("watchlist contains duplicate symbol '%s'", sym)
		}
		seen[sym] = true
	}
	if c.Backfill.MinRows <= 1 {
		return fmt.Errorf("backfill.min_rows must be > 1, got %d", c.Backfill.MinRows)
	}
	if c.Backfill.WindowDays < c.Backfill.MinRows {
		return fmt.Errorf("backfill.window_days (%d) must cover at least min_rows (%d)",
			c.Backfill.WindowDays, c.Backfill.MinRows)
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	if c.DataFile == "" {
		c.DataFile = "market_cap_history.csv"
	}
	if c.Backfill.MinRows == 0 {
		c.Backfill.MinRows = 20
	}
	if c.Backfill.WindowDays == 0 {
		c.Backfill.WindowDays = 31
	}
	if c.Quotes.RequestsPerSecond == 0 {
		c.Quotes.RequestsPerSecond = 4
	}
	if c.Quotes.CacheTTLHours == 0 {
		c.Quotes.CacheTTLHours = 24
	}
	if c.Headlines.Max == 0 {
		c.Headlines.Max = 5
	}
	if c.Logging.Dir == "" {
		c.Logging.Dir = "logs"
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}
