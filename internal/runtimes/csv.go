package runtimes

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/klauspost/compress/zstd"
)

// ReadCSV reads a runtime table with a header row. The key column must be
// present; every other column is loaded as text.
func ReadCSV(r io.Reader, key string) (*Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = false

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %q (no header row)", ErrMissingColumn, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	keyIdx := slices.Index(header, key)
	if keyIdx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, key)
	}

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv records: %w", err)
	}

	keys := make([]string, len(records))
	for i, rec := range records {
		keys[i] = rec[keyIdx]
	}
	t, err := NewTable(key, keys)
	if err != nil {
		return nil, err
	}

	for j, name := range header {
		if j == keyIdx {
			continue
		}
		values := make([]string, len(records))
		for i, rec := range records {
			values[i] = rec[j]
		}
		if err := t.SetText(name, values); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Open reads a runtime table from a CSV file. Files ending in .zst are
// decompressed on the fly.
func Open(path string, key string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open runtime table %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if filepath.Ext(path) == ".zst" {
		d, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd reader: %w", err)
		}
		defer d.Close()
		r = d
	}

	t, err := ReadCSV(r, key)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	slog.Debug("loaded runtime table", "path", path, "rows", t.Len(), "columns", len(t.Columns()))
	return t, nil
}

// WriteCSV writes the table with the key column first.
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	cols := t.Columns()
	if err := cw.Write(append([]string{t.Key()}, cols...)); err != nil {
		return err
	}
	values := make([][]string, len(cols))
	for j, n := range cols {
		v, err := t.Strings(n)
		if err != nil {
			return err
		}
		values[j] = v
	}
	for i, k := range t.keys {
		rec := make([]string, 0, len(cols)+1)
		rec = append(rec, k)
		for j := range cols {
			rec = append(rec, values[j][i])
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
