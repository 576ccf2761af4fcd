package mcap

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"market-radar-bot/internal/types"
)

// fakeSource serves canned prices and share counts for backfill tests.
type fakeSource struct {
	shares    map[string]int64
	table     *types.PriceTable
	seriesErr error
}

func (f *fakeSource) CloseSeries(ctx context.Context, symbols []string, days int) (*types.PriceTable, error) {
	if f.seriesErr != nil {
		return nil, f.seriesErr
	}
	out := types.NewPriceTable()
	for _, d := range f.table.Dates {
		for _, sym := range symbols {
			if v, ok := f.table.Get(d, sym); ok {
				out.Set(d, sym, v)
			}
		}
	}
	if out.Len() == 0 {
		return nil, errors.New("no close data")
	}
	return out, nil
}

func (f *fakeSource) SharesOutstanding(ctx context.Context, symbol string) (int64, error) {
	n, ok := f.shares[symbol]
	if !ok || n <= 0 {
		return 0, fmt.Errorf("no share count for %s", symbol)
	}
	return n, nil
}

func TestBackfillBuildsSparseHistory(t *testing.T) {
	table := types.NewPriceTable()
	table.Set("2024-01-02", "AAA", 10)
	table.Set("2024-01-02", "BBB", 20)
	table.Set("2024-01-02", "CCC", 30)
	table.Set("2024-01-03", "AAA", 11)

	src := &fakeSource{
		shares: map[string]int64{
			"AAA": 2_000_000_000,
			"BBB": 1_000_000_000,
			// CCC has no share count and must never appear.
		},
		table: table,
	}

	h, err := Backfill(context.Background(), src, []string{"AAA", "BBB", "CCC"}, 31)
	if err != nil {
		t.Fatalf("Backfill failed: %v", err)
	}

	if h.Len() != 2 {
		t.Fatalf("Expected 2 rows, got %d", h.Len())
	}

	first := h.Rows["2024-01-02"]
	if v := first["AAA"]; v != 20 {
		t.Errorf("AAA cap = %v, want 20 (10 * 2e9 / 1e9)", v)
	}
	if v := first["BBB"]; v != 20 {
		t.Errorf("BBB cap = %v, want 20", v)
	}
	if _, ok := first["CCC"]; ok {
		t.Error("CCC has no share count and must be absent")
	}

	second := h.Rows["2024-01-03"]
	if len(second) != 1 {
		t.Errorf("Expected only AAA on 2024-01-03, got %v", second)
	}
	if _, ok := second["BBB"]; ok {
		t.Error("BBB has no close on 2024-01-03 and must be absent")
	}
}

func TestBackfillFailsWithoutShareCounts(t *testing.T) {
	src := &fakeSource{shares: map[string]int64{}, table: types.NewPriceTable()}

	if _, err := Backfill(context.Background(), src, []string{"AAA"}, 31); err == nil {
		t.Fatal("Expected error when no share counts are available")
	}
}

func TestBackfillPropagatesSeriesError(t *testing.T) {
	src := &fakeSource{
		shares:    map[string]int64{"AAA": 1_000_000_000},
		seriesErr: errors.New("upstream down"),
	}

	if _, err := Backfill(context.Background(), src, []string{"AAA"}, 31); err == nil {
		t.Fatal("Expected error when the close fetch fails")
	}
}

func TestTodayRow(t *testing.T) {
	table := types.NewPriceTable()
	table.Set("2024-01-02", "AAA", 10)
	table.Set("2024-01-03", "AAA", 12)
	table.Set("2024-01-03", "BBB", 7)

	src := &fakeSource{
		shares: map[string]int64{"AAA": 1_000_000_000, "BBB": 3_000_000_000},
		table:  table,
	}

	date, row, err := TodayRow(context.Background(), src, []string{"AAA", "BBB"})
	if err != nil {
		t.Fatalf("TodayRow failed: %v", err)
	}
	if date != "2024-01-03" {
		t.Errorf("date = %s, want 2024-01-03", date)
	}
	if v := row["AAA"]; v != 12 {
		t.Errorf("AAA cap = %v, want 12", v)
	}
	if v := row["BBB"]; v != 21 {
		t.Errorf("BBB cap = %v, want 21", v)
	}
}

func TestCapBillions(t *testing.T) {
	if v := CapBillions(100, 2_000_000_000); v != 200 {
		t.Errorf("CapBillions = %v, want 200", v)
	}
}
