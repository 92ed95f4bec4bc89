// Package csvstore keeps each sheet as a CSV file in a book directory.
//
// Each record is prefixed with its 1-based sheet row number, so blank rows
// between data survive a round trip.
package csvstore

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/cleared-dev/bookpost/internal/store"
)

// Backend reads and writes sheet files under a directory.
type Backend struct {
	dir string
	mu  sync.Mutex
}

// Open returns a Store over dir, creating the directory if needed.
func Open(dir string) (*store.SheetStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating sheets dir: %w", err)
	}
	return store.NewSheetStore(&Backend{dir: dir}), nil
}

// View implements store.Backend.
func (b *Backend) View(ctx context.Context, sheet string, fn func([][]string) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	cells, err := b.load(sheet)
	if err != nil {
		return err
	}
	return fn(cells)
}

// Update implements store.Backend.
func (b *Backend) Update(ctx context.Context, sheet string, fn func([][]string) ([][]string, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	cells, err := b.load(sheet)
	if err != nil {
		return err
	}
	out, err := fn(cells)
	if err != nil {
		return err
	}
	return b.save(sheet, out)
}

// Path returns the file a sheet is stored in.
func (b *Backend) Path(sheet string) string {
	return SheetPath(b.dir, sheet)
}

// SheetPath maps a sheet name to its file, e.g. "Trial Balance" ->
// <dir>/trial-balance.csv.
func SheetPath(dir, sheet string) string {
	name := strings.ToLower(strings.Join(strings.Fields(sheet), "-"))
	return filepath.Join(dir, name+".csv")
}

func (b *Backend) load(sheet string) ([][]string, error) {
	f, err := os.Open(b.Path(sheet))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening sheet: %w", err)
	}
	defer f.Close()

	cells, err := ReadSheet(f)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %w", b.Path(sheet), err)
	}
	return cells, nil
}

// save writes to a temp file and renames it over the sheet.
func (b *Backend) save(sheet string, cells [][]string) error {
	path := b.Path(sheet)
	tmp, err := os.CreateTemp(filepath.Dir(path), ".sheet-*")
	if err != nil {
		return fmt.Errorf("creating temp sheet: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteSheet(tmp, cells); err != nil {
		tmp.Close()
		return fmt.Errorf("writing sheet: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp sheet: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing sheet: %w", err)
	}
	return nil
}

// ReadSheet parses a row-numbered sheet file into raw cells.
func ReadSheet(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading sheet CSV: %w", err)
	}

	var cells [][]string
	for i, rec := range records {
		n, err := strconv.Atoi(rec[0])
		if err != nil || n < 1 {
			return nil, fmt.Errorf("record %d: invalid row number %q", i+1, rec[0])
		}
		if n <= len(cells) {
			return nil, fmt.Errorf("record %d: row %d out of order", i+1, n)
		}
		for len(cells) < n-1 {
			cells = append(cells, nil)
		}
		cells = append(cells, rec[1:])
	}
	return cells, nil
}

// WriteSheet writes every non-empty row prefixed with its row number.
func WriteSheet(w io.Writer, cells [][]string) error {
	cw := csv.NewWriter(w)
	for i, line := range cells {
		if store.Row(line).IsEmpty() {
			continue
		}
		rec := append([]string{strconv.Itoa(i + 1)}, line...)
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
