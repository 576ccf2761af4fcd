package mcap

import (
	"fmt"
	"testing"

	"market-radar-bot/internal/types"
)

func day(i int) string {
	return fmt.Sprintf("2024-01-%02d", i)
}

func TestRanksDescendingOrder(t *testing.T) {
	row := types.CapRow{"AAPL": 3000, "MSFT": 2800, "NVDA": 1500}
	ranks := Ranks(row)

	if ranks["AAPL"] != 1 || ranks["MSFT"] != 2 || ranks["NVDA"] != 3 {
		t.Errorf("Unexpected ranks: %v", ranks)
	}
}

func TestRanksTieBreakBySymbol(t *testing.T) {
	// Equal caps break ties by ascending symbol so the order is total.
	row := types.CapRow{"BBB": 100, "AAA": 100, "CCC": 100}
	ranks := Ranks(row)

	if ranks["AAA"] != 1 || ranks["BBB"] != 2 || ranks["CCC"] != 3 {
		t.Errorf("Tie-break by symbol violated: %v", ranks)
	}
}

func TestAnalyzeSingleRowEmitsNoDelta(t *testing.T) {
	h := types.NewHistory()
	h.Upsert(day(1), types.CapRow{"AAPL": 3000})

	a := Analyze(h)
	if a.HasDelta {
		t.Error("HasDelta should be false with one row")
	}
	if a.HasMA {
		t.Error("HasMA should be false with one row")
	}
	if a.Rows != 1 {
		t.Errorf("Rows = %d, want 1", a.Rows)
	}
	if a.Date != day(1) {
		t.Errorf("Date = %s, want %s", a.Date, day(1))
	}
}

func TestAnalyzeUnchangedOrderReportsNoChanges(t *testing.T) {
	h := types.NewHistory()
	h.Upsert(day(1), types.CapRow{"X": 100, "Y": 90, "Z": 80})
	h.Upsert(day(2), types.CapRow{"X": 95, "Y": 92, "Z": 85})

	a := Analyze(h)
	if !a.HasDelta {
		t.Fatal("HasDelta should be true with two rows")
	}
	if len(a.TopChanges) != 0 {
		t.Errorf("Expected no top changes, got %v", a.TopChanges)
	}
	if len(a.MidChanges) != 0 {
		t.Errorf("Expected no mid changes, got %v", a.MidChanges)
	}
}

func TestAnalyzeReportsTopBandSwap(t *testing.T) {
	h := types.NewHistory()
	h.Upsert(day(1), types.CapRow{"X": 100, "Y": 90, "Z": 80})
	h.Upsert(day(2), types.CapRow{"X": 91, "Y": 92, "Z": 85})

	a := Analyze(h)
	if len(a.TopChanges) != 2 {
		t.Fatalf("Expected 2 top changes, got %v", a.TopChanges)
	}
	// Changes come in today's rank order: Y first (now #1), then X.
	if a.TopChanges[0] != (types.RankChange{Symbol: "Y", From: 2, To: 1}) {
		t.Errorf("Unexpected first change: %+v", a.TopChanges[0])
	}
	if a.TopChanges[1] != (types.RankChange{Symbol: "X", From: 1, To: 2}) {
		t.Errorf("Unexpected second change: %+v", a.TopChanges[1])
	}
}

func TestAnalyzeNewEntrantIsNotAChange(t *testing.T) {
	h := types.NewHistory()
	h.Upsert(day(1), types.CapRow{"X": 100})
	h.Upsert(day(2), types.CapRow{"X": 100, "NEW": 200})

	a := Analyze(h)
	// NEW is #1 today but had no prior rank, so it must not be reported.
	for _, c := range a.TopChanges {
		if c.Symbol == "NEW" {
			t.Errorf("New entrant reported as a change: %+v", c)
		}
	}
}

func TestAnalyzeNineteenRowsNoMA(t *testing.T) {
	h := types.NewHistory()
	for i := 1; i <= 19; i++ {
		h.Upsert(day(i), types.CapRow{"A": 100, "B": 90})
	}

	a := Analyze(h)
	if a.HasMA {
		t.Error("HasMA should be false with 19 rows")
	}
	if a.Rows != 19 {
		t.Errorf("Rows = %d, want 19", a.Rows)
	}
}

func TestAnalyzeTwentyRowsHasMA(t *testing.T) {
	h := types.NewHistory()
	for i := 1; i <= 20; i++ {
		h.Upsert(day(i), types.CapRow{"A": 100, "B": 90})
	}

	a := Analyze(h)
	if !a.HasMA {
		t.Fatal("HasMA should be true with 20 rows")
	}
	if len(a.Entrants) != 0 || len(a.Exits) != 0 {
		t.Errorf("Stable membership should produce no events: in=%v out=%v", a.Entrants, a.Exits)
	}
}

// maScenario builds 21 rows of 31 symbols: B01..B30 hold constant caps
// 100..71 and FALLER holds 71.5 until the last day, when it drops to 0.5.
// The trailing-20 mean of FALLER then slips from rank 30 to rank 31.
func maScenario() *types.History {
	h := types.NewHistory()
	for i := 1; i <= 21; i++ {
		row := types.CapRow{}
		for b := 1; b <= 30; b++ {
			row[fmt.Sprintf("B%02d", b)] = float64(101 - b)
		}
		if i < 21 {
			row["FALLER"] = 71.5
		} else {
			row["FALLER"] = 0.5
		}
		h.Upsert(day(i), row)
	}
	return h
}

func TestAnalyzeMAExitAndEntry(t *testing.T) {
	a := Analyze(maScenario())
	if !a.HasMA {
		t.Fatal("HasMA should be true with 21 rows")
	}

	if len(a.Exits) != 1 || a.Exits[0] != "FALLER" {
		t.Fatalf("Expected FALLER to exit, got %v", a.Exits)
	}
	if len(a.Entrants) != 1 || a.Entrants[0].Symbol != "B30" {
		t.Fatalf("Expected B30 to enter, got %v", a.Entrants)
	}
	if a.Entrants[0].AvgRank != 30 {
		t.Errorf("B30 avg rank = %d, want 30", a.Entrants[0].AvgRank)
	}

	// A symbol that exits must not also enter.
	for _, e := range a.Entrants {
		for _, x := range a.Exits {
			if e.Symbol == x {
				t.Errorf("Symbol %s in both entrants and exits", x)
			}
		}
	}
}

func TestAnalyzeMidBandChange(t *testing.T) {
	// In the MA scenario the last day also moves B30 from rank 31 to 30
	// day-over-day; FALLER's fall out of the band produces no delta entry,
	// only the moving-average exit.
	a := Analyze(maScenario())

	foundB30 := false
	for _, c := range a.MidChanges {
		if c.Symbol == "B30" {
			foundB30 = true
			if c.From != 31 || c.To != 30 {
				t.Errorf("B30 change = #%d → #%d, want #31 → #30", c.From, c.To)
			}
		}
		if c.Symbol == "FALLER" {
			t.Errorf("FALLER fell out of the band and must not appear in deltas: %+v", c)
		}
	}
	if !foundB30 {
		t.Errorf("B30 should appear in mid-band changes: %v", a.MidChanges)
	}
}

func TestAnalyzeMASkipsMissingDays(t *testing.T) {
	// A symbol absent on some days is averaged over the days it is present,
	// not penalized with zeros.
	h := types.NewHistory()
	for i := 1; i <= 20; i++ {
		row := types.CapRow{"A": 100}
		if i%2 == 0 {
			row["B"] = 90
		}
		h.Upsert(day(i), row)
	}

	order := meanOrder(h, 0, h.Len())
	if len(order) != 2 {
		t.Fatalf("Expected 2 symbols in mean order, got %v", order)
	}
	if order[0] != "A" || order[1] != "B" {
		t.Errorf("Unexpected mean order: %v", order)
	}
}
