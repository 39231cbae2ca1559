// Package store implements the append-only, deduplicating record store.
// Records persist as CSV tables; every write goes through a read-merge-write
// cycle keyed on the record's natural key, with last-write-wins on
// duplicates, so overlapping re-fetches are idempotent.
package store

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"NewsPulse/pkg/util"
)

// readRows reads a CSV file and returns its data rows (header skipped).
// An absent file is an empty set, not an error.
func readRows(path string, wantCols int) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	rows := make([][]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) != wantCols {
			return nil, fmt.Errorf("%s: row has %d columns, want %d", path, len(rec), wantCols)
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

// writeAtomic writes header+rows to path via a temp file and rename, so a
// crashed run never leaves a truncated table behind.
func writeAtomic(path string, header []string, rows [][]string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpName := tmp.Name()

	w := csv.NewWriter(tmp)
	if err := w.Write(header); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write header: %w", err)
	}
	if err := w.WriteAll(rows); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write rows: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("flush: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

// --- cell codecs ---

func fmtFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func parseFloat(s string) float64 {
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func fmtInt(v int) string {
	return strconv.Itoa(v)
}

func parseInt(s string) int {
	return util.ParseIntDefault(s, 0)
}

func fmtTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) time.Time {
	t, _ := util.ParseTime(s)
	return t
}

func fmtDay(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return util.FormatDay(t)
}

func parseDay(s string) time.Time {
	t, _ := util.ParseDay(s)
	return t
}
