package marketdata

import (
	"os"
	"sync"
	"testing"
	"time"
)

func TestShareCacheSetGet(t *testing.T) {
	cache := NewShareCache(t.TempDir(), time.Hour)

	if _, ok := cache.Get("AAPL"); ok {
		t.Fatal("Expected cache miss for unknown symbol")
	}

	if err := cache.Set("AAPL", 15_000_000_000); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	n, ok := cache.Get("AAPL")
	if !ok {
		t.Fatal("Expected cache hit after Set")
	}
	if n != 15_000_000_000 {
		t.Errorf("Cached shares = %d, want 15000000000", n)
	}
}

func TestShareCacheExpiry(t *testing.T) {
	dir := t.TempDir()
	cache := NewShareCache(dir, 1*time.Millisecond)

	if err := cache.Set("AAPL", 1_000_000_000); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	if _, ok := cache.Get("AAPL"); ok {
		t.Error("Expected expired entry to miss")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected expired entry removed from disk, found %d files", len(entries))
	}
}

func TestShareCacheConcurrentAccess(t *testing.T) {
	cache := NewShareCache(t.TempDir(), 1*time.Millisecond)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = cache.Set("AAPL", 1_000_000_000)
				cache.Get("AAPL")
			}
		}()
	}
	wg.Wait()
}
