package store

import (
	"fmt"
	"strconv"
	"strings"
)

// Range is a rectangular A1-style window on a sheet. Rows and columns are
// 1-based; a zero end means the window is open in that direction.
type Range struct {
	StartCol int
	StartRow int
	EndCol   int
	EndRow   int
}

// ParseRange parses "A2", "A2:F1000" or "A2:D".
func ParseRange(a1 string) (Range, error) {
	start, end, hasEnd := strings.Cut(strings.TrimSpace(a1), ":")

	col, row, err := parseCell(start)
	if err != nil {
		return Range{}, fmt.Errorf("parsing range %q: %w", a1, err)
	}
	if row == 0 {
		return Range{}, fmt.Errorf("parsing range %q: start cell needs a row", a1)
	}
	r := Range{StartCol: col, StartRow: row}
	if !hasEnd {
		return r, nil
	}

	r.EndCol, r.EndRow, err = parseCell(end)
	if err != nil {
		return Range{}, fmt.Errorf("parsing range %q: %w", a1, err)
	}
	if r.EndCol < r.StartCol || (r.EndRow != 0 && r.EndRow < r.StartRow) {
		return Range{}, fmt.Errorf("parsing range %q: end before start", a1)
	}
	return r, nil
}

// MustRange is ParseRange for constant ranges.
func MustRange(a1 string) Range {
	r, err := ParseRange(a1)
	if err != nil {
		panic(err)
	}
	return r
}

// String renders the range back to A1 notation.
func (r Range) String() string {
	s := columnName(r.StartCol) + strconv.Itoa(r.StartRow)
	if r.EndCol == 0 {
		return s
	}
	s += ":" + columnName(r.EndCol)
	if r.EndRow != 0 {
		s += strconv.Itoa(r.EndRow)
	}
	return s
}

// Width is the number of columns, or 0 when open-ended.
func (r Range) Width() int {
	if r.EndCol == 0 {
		return 0
	}
	return r.EndCol - r.StartCol + 1
}

func parseCell(cell string) (col, row int, err error) {
	cell = strings.ToUpper(cell)
	i := 0
	for i < len(cell) && cell[i] >= 'A' && cell[i] <= 'Z' {
		col = col*26 + int(cell[i]-'A'+1)
		i++
	}
	if col == 0 {
		return 0, 0, fmt.Errorf("cell %q has no column", cell)
	}
	if i == len(cell) {
		return col, 0, nil
	}
	row, err = strconv.Atoi(cell[i:])
	if err != nil || row < 1 {
		return 0, 0, fmt.Errorf("cell %q has an invalid row", cell)
	}
	return col, row, nil
}

func columnName(col int) string {
	var b []byte
	for col > 0 {
		col--
		b = append([]byte{byte('A' + col%26)}, b...)
		col /= 26
	}
	return string(b)
}
