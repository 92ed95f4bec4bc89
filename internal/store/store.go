// Package store defines the sheet store the posting engine writes to and
// implements spreadsheet read/append/overwrite semantics over whole-sheet
// backends.
package store

import (
	"context"
	"errors"
	"fmt"
)

// Row is one sheet row of cell values.
type Row []string

// IsEmpty reports whether every cell is blank.
func (r Row) IsEmpty() bool {
	for _, c := range r {
		if c != "" {
			return false
		}
	}
	return true
}

// Cell returns the i-th cell, or "" past the end of a ragged row.
func (r Row) Cell(i int) string {
	if i < 0 || i >= len(r) {
		return ""
	}
	return r[i]
}

// BlankRows returns n empty rows of the given width.
func BlankRows(n, width int) []Row {
	rows := make([]Row, n)
	for i := range rows {
		rows[i] = make(Row, width)
	}
	return rows
}

// Store is the external ledger store the engine posts into.
type Store interface {
	// ReadRows returns the rows inside rng. Trailing empty rows are not
	// returned and each row is clipped to the range's columns.
	ReadRows(ctx context.Context, sheet string, rng Range) ([]Row, error)
	// AppendRows writes rows after the last non-empty row at or below the
	// range start and returns the range actually written.
	AppendRows(ctx context.Context, sheet string, rng Range, rows []Row) (Range, error)
	// OverwriteRows replaces cells starting at the range's top-left corner.
	OverwriteRows(ctx context.Context, sheet string, rng Range, rows []Row) error
}

// ErrClosed is returned by backends used after Close.
var ErrClosed = errors.New("store closed")

// Error wraps a backend failure with the operation and sheet involved.
type Error struct {
	Op    string
	Sheet string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("store %s %q: %v", e.Op, e.Sheet, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
