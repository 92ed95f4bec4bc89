package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatAmount renders an amount for a book cell.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// ParseAmount reads a book cell. Blank cells are zero and thousands
// separators are ignored.
func ParseAmount(cell string) (decimal.Decimal, error) {
	s := strings.ReplaceAll(strings.TrimSpace(cell), ",", "")
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing amount %q: %w", cell, err)
	}
	return d, nil
}
