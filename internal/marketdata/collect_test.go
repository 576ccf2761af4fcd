package marketdata

import (
	"context"
	"fmt"
	"testing"

	"market-radar-bot/internal/types"
)

type stubSource struct {
	shares map[string]int64
}

func (s *stubSource) CloseSeries(ctx context.Context, symbols []string, days int) (*types.PriceTable, error) {
	return nil, fmt.Errorf("not used")
}

func (s *stubSource) SharesOutstanding(ctx context.Context, symbol string) (int64, error) {
	n, ok := s.shares[symbol]
	if !ok || n <= 0 {
		return 0, fmt.Errorf("no share count for %s", symbol)
	}
	return n, nil
}

func TestCollectShareCountsPartialFailure(t *testing.T) {
	src := &stubSource{shares: map[string]int64{
		"AAPL": 15_000_000_000,
		"MSFT": 7_400_000_000,
	}}

	counts, skipped := CollectShareCounts(context.Background(), src, []string{"AAPL", "FAIL1", "MSFT", "FAIL2"})

	if len(counts) != 2 {
		t.Fatalf("Expected 2 collected counts, got %v", counts)
	}
	if counts["AAPL"] != 15_000_000_000 {
		t.Errorf("AAPL = %d, want 15000000000", counts["AAPL"])
	}
	if len(skipped) != 2 || skipped[0] != "FAIL1" || skipped[1] != "FAIL2" {
		t.Errorf("skipped = %v, want [FAIL1 FAIL2] in request order", skipped)
	}
}

func TestCollectShareCountsAllFail(t *testing.T) {
	src := &stubSource{shares: map[string]int64{}}

	counts, skipped := CollectShareCounts(context.Background(), src, []string{"A", "B"})
	if len(counts) != 0 {
		t.Errorf("Expected no counts, got %v", counts)
	}
	if len(skipped) != 2 {
		t.Errorf("Expected both symbols skipped, got %v", skipped)
	}
}
