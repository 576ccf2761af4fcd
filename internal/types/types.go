package types

import "sort"

// DateFormat is the canonical date key used across the store, the price
// tables and the reports.
const DateFormat = "2006-01-02"

// PriceTable holds daily closing prices keyed by date then symbol.
// Dates are ISO strings kept in ascending order; a missing (date, symbol)
// cell means no close was available, not zero.
type PriceTable struct {
	Dates  []string
	Closes map[string]map[string]float64
}

// NewPriceTable returns an empty table.
func NewPriceTable() *PriceTable {
	return &PriceTable{Closes: map[string]map[string]float64{}}
}

// Set records a close for (date, symbol), inserting the date in order if new.
func (pt *PriceTable) Set(date, symbol string, close float64) {
	row, ok := pt.Closes[date]
	if !ok {
		row = map[string]float64{}
		pt.Closes[date] = row
		pt.Dates = append(pt.Dates, date)
		sort.Strings(pt.Dates)
	}
	row[symbol] = close
}

// Get returns the close for (date, symbol) and whether it exists.
func (pt *PriceTable) Get(date, symbol string) (float64, bool) {
	row, ok := pt.Closes[date]
	if !ok {
		return 0, false
	}
	v, ok := row[symbol]
	return v, ok
}

// Len returns the number of dates in the table.
func (pt *PriceTable) Len() int { return len(pt.Dates) }

// LastDate returns the most recent date, or "" for an empty table.
func (pt *PriceTable) LastDate() string {
	if len(pt.Dates) == 0 {
		return ""
	}
	return pt.Dates[len(pt.Dates)-1]
}

// ForwardFill carries the previous day's close into any gap, in date order.
// Used only for the macro indicator display path; market-cap rows must never
// be built from stale closes.
func (pt *PriceTable) ForwardFill() {
	last := map[string]float64{}
	for _, d := range pt.Dates {
		row := pt.Closes[d]
		for sym, v := range last {
			if _, ok := row[sym]; !ok {
				row[sym] = v
			}
		}
		for sym, v := range row {
			last[sym] = v
		}
	}
}

// CapRow is one day's symbol -> market cap mapping, in billions.
// The row is sparse: a symbol with no valid price or share count that day is
// absent, which is distinct from a zero cap.
type CapRow map[string]float64

// History is the persisted market-cap table: one CapRow per date, dates
// unique and ascending.
type History struct {
	Dates []string
	Rows  map[string]CapRow
}

// NewHistory returns an empty history.
func NewHistory() *History {
	return &History{Rows: map[string]CapRow{}}
}

// Len returns the number of stored rows.
func (h *History) Len() int { return len(h.Dates) }

// Row returns the row at position i (0 = oldest).
func (h *History) Row(i int) CapRow { return h.Rows[h.Dates[i]] }

// LastDate returns the most recent stored date, or "" when empty.
func (h *History) LastDate() string {
	if len(h.Dates) == 0 {
		return ""
	}
	return h.Dates[len(h.Dates)-1]
}

// Upsert replaces the row for date if present, otherwise inserts it keeping
// the date index ascending. The row count only grows for genuinely new dates.
func (h *History) Upsert(date string, row CapRow) {
	if _, ok := h.Rows[date]; !ok {
		h.Dates = append(h.Dates, date)
		sort.Strings(h.Dates)
	}
	h.Rows[date] = row
}

// Symbols returns the sorted union of symbols across all rows. This is the
// column set of the persisted CSV; it can only grow as new symbols appear.
func (h *History) Symbols() []string {
	seen := map[string]bool{}
	for _, row := range h.Rows {
		for sym := range row {
			seen[sym] = true
		}
	}
	out := make([]string, 0, len(seen))
	for sym := range seen {
		out = append(out, sym)
	}
	sort.Strings(out)
	return out
}

// RankChange reports a symbol whose rank moved between the prior and latest
// rows. Rank 1 is the largest cap.
type RankChange struct {
	Symbol string
	From   int
	To     int
}

// MAEvent is a symbol entering the 20-day moving-average top-30 band, with
// its rank by trailing mean.
type MAEvent struct {
	Symbol  string
	AvgRank int
}

// Analysis is the output of the rank/trend analyzer for one run.
type Analysis struct {
	Date string
	Rows int

	// Day-over-day rank deltas; valid only when HasDelta.
	HasDelta   bool
	TopChanges []RankChange // symbols in today's top 10
	MidChanges []RankChange // symbols ranked 11-30 today

	// 20-day moving-average top-30 membership; valid only when HasMA.
	HasMA    bool
	Entrants []MAEvent
	Exits    []string
}

// Headline is one scraped market headline for the optional news section.
type Headline struct {
	Title  string
	Source string
}
