package posting

import (
	"context"
	"fmt"

	"github.com/cleared-dev/bookpost/internal/cashbook"
	"github.com/cleared-dev/bookpost/internal/journal"
	"github.com/cleared-dev/bookpost/internal/ledger"
	"github.com/cleared-dev/bookpost/internal/store"
	"github.com/cleared-dev/bookpost/internal/trialbalance"
)

var headerRange = store.MustRange("A1")

// WriteHeaders puts the column header into row 1 of every book. Sheets
// that already have a first row are left alone.
func WriteHeaders(ctx context.Context, s store.Store, sheets Sheets) error {
	books := []struct {
		sheet  string
		header store.Row
	}{
		{sheets.Journal, journal.Header},
		{sheets.Ledger, ledger.Header},
		{sheets.TrialBalance, trialbalance.Header},
		{sheets.CashBook, cashbook.Header},
	}
	for _, b := range books {
		first, err := s.ReadRows(ctx, b.sheet, store.Range{StartCol: 1, StartRow: 1, EndRow: 1})
		if err != nil {
			return fmt.Errorf("reading %s header: %w", b.sheet, err)
		}
		if len(first) > 0 && !first[0].IsEmpty() {
			continue
		}
		if err := s.OverwriteRows(ctx, b.sheet, headerRange, []store.Row{b.header}); err != nil {
			return fmt.Errorf("writing %s header: %w", b.sheet, err)
		}
	}
	return nil
}
