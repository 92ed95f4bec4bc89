// Package ledger mirrors journal entries into per-account folios.
package ledger

import (
	"context"
	"fmt"

	"github.com/cleared-dev/bookpost/internal/id"
	"github.com/cleared-dev/bookpost/internal/model"
	"github.com/cleared-dev/bookpost/internal/store"
)

// Header is the first row of the ledger sheet.
var Header = store.Row{"Date", "Particulars", "J.F.", "Debit", "Credit", "Balance"}

const numFields = 6

var (
	readRange   = store.MustRange("A2:F")
	appendRange = store.MustRange("A2")
)

// Poster appends folio lines for both sides of a journal entry.
type Poster struct {
	store store.Store
	sheet string
}

// NewPoster creates a ledger Poster for the named sheet.
func NewPoster(s store.Store, sheet string) *Poster {
	return &Poster{store: s, sheet: sheet}
}

// Sheet returns the sheet the poster writes to.
func (p *Poster) Sheet() string { return p.sheet }

// Lines returns the debit-folio and credit-folio movements for an entry.
func Lines(e model.JournalEntry) (debit, credit model.LedgerLine) {
	debit = model.LedgerLine{
		Folio:         e.Debit.Account,
		Date:          e.Date,
		Particulars:   "To " + e.Credit.Account,
		JournalNumber: e.Number,
		Debit:         e.Debit.Debit,
	}
	credit = model.LedgerLine{
		Folio:         e.Credit.Account,
		Date:          e.Date,
		Particulars:   "By " + e.Debit.Account,
		JournalNumber: e.Number,
		Credit:        e.Credit.Credit,
	}
	return debit, credit
}

// MarshalLines lays out both folios: header, movement, a blank separator,
// header, movement.
func MarshalLines(debit, credit model.LedgerLine) []store.Row {
	return []store.Row{
		folioHeader(debit.Folio),
		movement(debit),
		make(store.Row, numFields),
		folioHeader(credit.Folio),
		movement(credit),
	}
}

func folioHeader(account string) store.Row {
	row := make(store.Row, numFields)
	row[0] = account
	return row
}

func movement(l model.LedgerLine) store.Row {
	row := make(store.Row, numFields)
	row[0] = model.FormatDisplayDate(l.Date)
	row[1] = l.Particulars
	row[2] = l.JournalNumber
	if !l.Debit.IsZero() {
		row[3] = model.FormatAmount(l.Debit)
	}
	if !l.Credit.IsZero() {
		row[4] = model.FormatAmount(l.Credit)
	}
	return row
}

// Post appends the folio lines for e. It returns the sheet row the new
// folios start on and the range written.
func (p *Poster) Post(ctx context.Context, e model.JournalEntry) (int, store.Range, error) {
	rows, err := p.store.ReadRows(ctx, p.sheet, readRange)
	if err != nil {
		return 0, store.Range{}, fmt.Errorf("reading ledger: %w", err)
	}
	next := id.NextRow(len(rows))

	debit, credit := Lines(e)
	written, err := p.store.AppendRows(ctx, p.sheet, appendRange, MarshalLines(debit, credit))
	if err != nil {
		return 0, store.Range{}, fmt.Errorf("appending ledger lines: %w", err)
	}
	return next, written, nil
}
