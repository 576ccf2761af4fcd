package runlog

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var (
	mu  sync.Mutex
	dir string
)

// Entry records one outgoing message attempt.
type Entry struct {
	Time  string
	Stage string // "macro" or "mcap"
	OK    bool
	Chars int
	Error string         `json:",omitempty"`
	Extra map[string]any `json:"extra,omitempty"`
}

// SetDir sets the log directory. The RADAR_LOG_DIR environment variable
// takes precedence; the default is "logs".
func SetDir(d string) {
	mu.Lock()
	defer mu.Unlock()
	dir = d
}

func logDir() string {
	if v := os.Getenv("RADAR_LOG_DIR"); v != "" {
		return v
	}
	if dir != "" {
		return dir
	}
	return "logs"
}

func dailyFilepath(t time.Time) string {
	d := t.Format("2006-01-02")
	return filepath.Join(logDir(), d+".txt")
}

// Append writes one JSON line to today's delivery log.
func Append(e Entry) error {
	mu.Lock()
	defer mu.Unlock()
	now := time.Now()
	e.Time = now.Format("2006-01-02 15:04:05")
	p := dailyFilepath(now)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	b, _ := json.Marshal(e)
	_, err = fmt.Fprintln(f, string(b))
	return err
}

// CompressOlder gzips delivery logs older than retentionDays and removes the
// originals. A retention of zero disables compression.
func CompressOlder(retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}
	root := logDir()
	return filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() || filepath.Ext(p) != ".txt" {
			return nil
		}
		info, er := os.Stat(p)
		if er != nil {
			return nil
		}
		cutoff := time.Now().AddDate(0, 0, -retentionDays)
		if !info.ModTime().Before(cutoff) {
			return nil
		}

		gz := p + ".gz"
		if _, e2 := os.Stat(gz); e2 == nil {
			// already compressed on a previous run
			_ = os.Remove(p)
			return nil
		}

		in, e3 := os.Open(p)
		if e3 != nil {
			return nil
		}
		defer in.Close()

		out, e4 := os.OpenFile(gz, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if e4 != nil {
			return nil
		}
		gw := gzip.NewWriter(out)
		if _, e5 := io.Copy(gw, in); e5 != nil {
			gw.Close()
			out.Close()
			_ = os.Remove(gz)
			return nil
		}
		if e6 := gw.Close(); e6 != nil {
			out.Close()
			_ = os.Remove(gz)
			return nil
		}
		if e7 := out.Close(); e7 != nil {
			return nil
		}
		_ = os.Remove(p)
		return nil
	})
}
