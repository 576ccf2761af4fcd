package mcap

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"market-radar-bot/internal/types"
)

// Store persists the market-cap history as a flat CSV table: first column is
// the ISO date, remaining columns are symbols. Absent values are empty cells,
// never zero. The column set grows over time as new symbols appear.
type Store struct {
	path string
}

// NewStore creates a store backed by the given file path
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the persisted history. A missing file yields an empty history,
// not an error.
func (s *Store) Load() (*types.History, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return types.NewHistory(), nil
		}
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}

	h := types.NewHistory()
	if len(records) < 2 {
		return h, nil
	}

	header := records[0]
	for _, rec := range records[1:] {
		if len(rec) == 0 || rec[0] == "" {
			continue
		}
		row := types.CapRow{}
		for i := 1; i < len(rec) && i < len(header); i++ {
			if rec[i] == "" {
				continue
			}
			v, err := strconv.ParseFloat(rec[i], 64)
			if err != nil {
				return nil, fmt.Errorf("row %s column %s: %w", rec[0], header[i], err)
			}
			row[header[i]] = v
		}
		h.Upsert(rec[0], row)
	}
	return h, nil
}

// Save writes the full history atomically: the table is written to a
// temporary file in the same directory and renamed over the target, so a
// failed write never leaves a truncated store behind.
func (s *Store) Save(h *types.History) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	symbols := h.Symbols()
	w := csv.NewWriter(tmp)

	header := append([]string{"date"}, symbols...)
	if err := w.Write(header); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	for _, date := range h.Dates {
		row := h.Rows[date]
		rec := make([]string, 0, len(header))
		rec = append(rec, date)
		for _, sym := range symbols {
			if v, ok := row[sym]; ok {
				rec = append(rec, strconv.FormatFloat(v, 'f', -1, 64))
			} else {
				rec = append(rec, "")
			}
		}
		if err := w.Write(rec); err != nil {
			tmp.Close()
			os.Remove(tmpPath)
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, s.path)
}

// NeedsBackfill reports whether the history is too short for the analyzers
// and should be reconstructed from price history.
func NeedsBackfill(h *types.History, minRows int) bool {
	return h.Len() < minRows
}
