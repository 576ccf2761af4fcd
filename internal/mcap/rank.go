package mcap

import (
	"sort"

	"market-radar-bot/internal/types"
)

// Reporting bands. The day-over-day comparison only ever looks at today's
// top 30; a symbol that fell out of the band entirely is reported by the
// moving-average membership tracking, not here.
const (
	topBand = 10
	midBand = 30

	maWindow = 20
	maTopN   = 30
)

// orderByCap returns the row's symbols ranked by descending market cap.
// Ties break by ascending symbol so ranking is a strict total order.
func orderByCap(row types.CapRow) []string {
	symbols := make([]string, 0, len(row))
	for sym := range row {
		symbols = append(symbols, sym)
	}
	sort.Slice(symbols, func(i, j int) bool {
		if row[symbols[i]] != row[symbols[j]] {
			return row[symbols[i]] > row[symbols[j]]
		}
		return symbols[i] < symbols[j]
	})
	return symbols
}

// Ranks maps each symbol present in the row to its 1-based rank by
// descending cap. Symbols absent from the row have no rank at all.
func Ranks(row types.CapRow) map[string]int {
	ranks := make(map[string]int, len(row))
	for i, sym := range orderByCap(row) {
		ranks[sym] = i + 1
	}
	return ranks
}

// Analyze derives the day-over-day rank deltas and the 20-day moving-average
// top-30 membership changes from the history. Histories too short for either
// derivation are not an error: the corresponding Has flag stays false and the
// report layer emits a warm-up placeholder instead.
func Analyze(h *types.History) types.Analysis {
	a := types.Analysis{
		Date: h.LastDate(),
		Rows: h.Len(),
	}

	if h.Len() >= 2 {
		a.HasDelta = true
		todayOrder := orderByCap(h.Row(h.Len() - 1))
		prevRank := Ranks(h.Row(h.Len() - 2))

		for i, sym := range todayOrder {
			if i >= midBand {
				break
			}
			cur := i + 1
			prv, ok := prevRank[sym]
			if !ok || prv == cur {
				// New entrants have no prior rank and are not a "change".
				continue
			}
			change := types.RankChange{Symbol: sym, From: prv, To: cur}
			if cur <= topBand {
				a.TopChanges = append(a.TopChanges, change)
			} else {
				a.MidChanges = append(a.MidChanges, change)
			}
		}
	}

	if h.Len() >= maWindow {
		a.HasMA = true

		curOrder := meanOrder(h, h.Len()-maWindow, h.Len())
		prevOrder := meanOrder(h, maxInt(0, h.Len()-maWindow-1), h.Len()-1)

		curTop := topSet(curOrder, maTopN)
		prevTop := topSet(prevOrder, maTopN)

		for i, sym := range curOrder {
			if i >= maTopN {
				break
			}
			if !prevTop[sym] {
				a.Entrants = append(a.Entrants, types.MAEvent{Symbol: sym, AvgRank: i + 1})
			}
		}
		for _, sym := range prevOrder[:minInt(maTopN, len(prevOrder))] {
			if !curTop[sym] {
				a.Exits = append(a.Exits, sym)
			}
		}
		sort.Strings(a.Exits)
	}

	return a
}

// meanOrder ranks symbols by their mean cap over rows [from, to), descending.
// The mean is taken over the days a symbol is actually present in the window;
// missing days are ignored, not counted as zero.
func meanOrder(h *types.History, from, to int) []string {
	sums := map[string]float64{}
	counts := map[string]int{}
	for i := from; i < to; i++ {
		for sym, v := range h.Row(i) {
			sums[sym] += v
			counts[sym]++
		}
	}

	means := make(map[string]float64, len(sums))
	symbols := make([]string, 0, len(sums))
	for sym, sum := range sums {
		means[sym] = sum / float64(counts[sym])
		symbols = append(symbols, sym)
	}
	sort.Slice(symbols, func(i, j int) bool {
		if means[symbols[i]] != means[symbols[j]] {
			return means[symbols[i]] > means[symbols[j]]
		}
		return symbols[i] < symbols[j]
	})
	return symbols
}

func topSet(order []string, n int) map[string]bool {
	set := make(map[string]bool, n)
	for i, sym := range order {
		if i >= n {
			break
		}
		set[sym] = true
	}
	return set
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
