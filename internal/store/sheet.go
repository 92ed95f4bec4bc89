package store

import "context"

// Backend persists whole sheets. Each call must be atomic with respect to
// other calls on the same backend.
type Backend interface {
	View(ctx context.Context, sheet string, fn func(cells [][]string) error) error
	Update(ctx context.Context, sheet string, fn func(cells [][]string) ([][]string, error)) error
}

// SheetStore implements Store on top of a Backend.
type SheetStore struct {
	backend Backend
}

// NewSheetStore wraps a backend.
func NewSheetStore(b Backend) *SheetStore {
	return &SheetStore{backend: b}
}

// ReadRows implements Store.
func (s *SheetStore) ReadRows(ctx context.Context, sheet string, rng Range) ([]Row, error) {
	var rows []Row
	err := s.backend.View(ctx, sheet, func(cells [][]string) error {
		rows = readWindow(cells, rng)
		return nil
	})
	if err != nil {
		return nil, &Error{Op: "read", Sheet: sheet, Err: err}
	}
	return rows, nil
}

// AppendRows implements Store.
func (s *SheetStore) AppendRows(ctx context.Context, sheet string, rng Range, rows []Row) (Range, error) {
	var written Range
	err := s.backend.Update(ctx, sheet, func(cells [][]string) ([][]string, error) {
		var out [][]string
		out, written = appendRows(cells, rng, rows)
		return out, nil
	})
	if err != nil {
		return Range{}, &Error{Op: "append", Sheet: sheet, Err: err}
	}
	return written, nil
}

// OverwriteRows implements Store.
func (s *SheetStore) OverwriteRows(ctx context.Context, sheet string, rng Range, rows []Row) error {
	err := s.backend.Update(ctx, sheet, func(cells [][]string) ([][]string, error) {
		return overwriteRows(cells, rng, rows), nil
	})
	if err != nil {
		return &Error{Op: "overwrite", Sheet: sheet, Err: err}
	}
	return nil
}

// lastOccupied returns the 1-based number of the last row holding any value.
func lastOccupied(cells [][]string) int {
	for i := len(cells) - 1; i >= 0; i-- {
		if !Row(cells[i]).IsEmpty() {
			return i + 1
		}
	}
	return 0
}

func readWindow(cells [][]string, rng Range) []Row {
	last := lastOccupied(cells)
	if rng.EndRow != 0 && rng.EndRow < last {
		last = rng.EndRow
	}

	var rows []Row
	for n := rng.StartRow; n <= last; n++ {
		src := Row(cells[n-1])
		width := rng.Width()
		if width == 0 {
			width = len(src) - (rng.StartCol - 1)
			if width < 0 {
				width = 0
			}
		}
		row := make(Row, width)
		for i := range row {
			row[i] = src.Cell(rng.StartCol - 1 + i)
		}
		rows = append(rows, row)
	}
	return rows
}

func appendRows(cells [][]string, rng Range, rows []Row) ([][]string, Range) {
	start := lastOccupied(cells) + 1
	if start < rng.StartRow {
		start = rng.StartRow
	}
	at := Range{StartCol: rng.StartCol, StartRow: start}
	out := overwriteRows(cells, at, rows)

	width := 0
	for _, r := range rows {
		if len(r) > width {
			width = len(r)
		}
	}
	written := at
	if width > 0 {
		written.EndCol = at.StartCol + width - 1
	} else {
		written.EndCol = at.StartCol
	}
	written.EndRow = start + len(rows) - 1
	if len(rows) == 0 {
		written.EndRow = start
	}
	return out, written
}

func overwriteRows(cells [][]string, rng Range, rows []Row) [][]string {
	for i, r := range rows {
		n := rng.StartRow - 1 + i
		for len(cells) <= n {
			cells = append(cells, nil)
		}
		line := cells[n]
		need := rng.StartCol - 1 + len(r)
		for len(line) < need {
			line = append(line, "")
		}
		copy(line[rng.StartCol-1:], r)
		cells[n] = line
	}
	return trimTrailing(cells)
}

// trimTrailing drops trailing empty rows and trailing blank cells so
// backends persist compact sheets.
func trimTrailing(cells [][]string) [][]string {
	cells = cells[:lastOccupied(cells)]
	for i, line := range cells {
		end := len(line)
		for end > 0 && line[end-1] == "" {
			end--
		}
		cells[i] = line[:end]
	}
	return cells
}
