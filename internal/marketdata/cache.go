package marketdata

import (
	"crypto/md5"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// ShareCache provides simple file-based caching for share counts. Outstanding
// share counts move slowly, so a day-scoped cache saves one quote lookup per
// symbol per run and makes the expensive backfill path cheaper to re-run.
// Get removes expired entries, so all access holds the one mutex.
type ShareCache struct {
	cacheDir string
	ttl      time.Duration
	mu       sync.Mutex
}

type shareEntry struct {
	Symbol string `json:"symbol"`
	Shares int64  `json:"shares"`
}

// NewShareCache creates a new cache instance
func NewShareCache(cacheDir string, ttl time.Duration) *ShareCache {
	if cacheDir == "" {
		cacheDir = "cache/shares"
	}
	os.MkdirAll(cacheDir, 0755)
	return &ShareCache{
		cacheDir: cacheDir,
		ttl:      ttl,
	}
}

// Get retrieves a cached share count that has not expired
func (c *ShareCache) Get(symbol string) (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cacheFile := c.filePath(symbol)
	info, err := os.Stat(cacheFile)
	if err != nil {
		return 0, false
	}
	if time.Since(info.ModTime()) > c.ttl {
		os.Remove(cacheFile)
		return 0, false
	}

	data, err := os.ReadFile(cacheFile)
	if err != nil {
		return 0, false
	}
	var entry shareEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return 0, false
	}
	if entry.Shares <= 0 {
		return 0, false
	}
	return entry.Shares, true
}

// Set stores a share count
func (c *ShareCache) Set(symbol string, shares int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := json.Marshal(shareEntry{Symbol: symbol, Shares: shares})
	if err != nil {
		return err
	}
	return os.WriteFile(c.filePath(symbol), data, 0644)
}

func (c *ShareCache) filePath(symbol string) string {
	hash := fmt.Sprintf("%x", md5.Sum([]byte(symbol)))
	return filepath.Join(c.cacheDir, hash+".json")
}
