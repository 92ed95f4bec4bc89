package journal

import (
	"context"
	"fmt"
	"strings"

	"github.com/cleared-dev/bookpost/internal/id"
	"github.com/cleared-dev/bookpost/internal/model"
	"github.com/cleared-dev/bookpost/internal/store"
)

var (
	countRange  = store.MustRange("A2:A")
	readRange   = store.MustRange("A2:I")
	appendRange = store.MustRange("A2")
)

// Poster appends two-line entries to the journal sheet.
type Poster struct {
	store store.Store
	sheet string
}

// NewPoster creates a journal Poster for the named sheet.
func NewPoster(s store.Store, sheet string) *Poster {
	return &Poster{store: s, sheet: sheet}
}

// Sheet returns the sheet the poster writes to.
func (p *Poster) Sheet() string { return p.sheet }

// NextNumber reads the current row count and derives the next journal number.
func (p *Poster) NextNumber(ctx context.Context) (string, error) {
	rows, err := p.store.ReadRows(ctx, p.sheet, countRange)
	if err != nil {
		return "", fmt.Errorf("reading journal: %w", err)
	}
	return id.NextJournalNumber(len(rows)), nil
}

// BuildEntry lays out the journal entry for a classified request.
func BuildEntry(number string, req model.TransactionRequest, cls model.AccountClassification) model.JournalEntry {
	return model.JournalEntry{
		Number: number,
		Date:   req.Date,
		Debit: model.JournalLine{
			Account: cls.DebitAccount,
			Code:    cls.DebitCode,
			Debit:   req.Amount,
		},
		Credit: model.JournalLine{
			Account: cls.CreditAccount,
			Code:    cls.CreditCode,
			Credit:  req.Amount,
		},
		Party:     req.PartyName,
		Narration: req.Description,
	}
}

// Post numbers, validates and appends the entry in a single write. It
// returns the entry and the sheet range it occupies.
func (p *Poster) Post(ctx context.Context, req model.TransactionRequest, cls model.AccountClassification) (model.JournalEntry, store.Range, error) {
	number, err := p.NextNumber(ctx)
	if err != nil {
		return model.JournalEntry{}, store.Range{}, err
	}

	entry := BuildEntry(number, req, cls)
	if verrs := ValidateEntry(entry); len(verrs) > 0 {
		msgs := make([]string, len(verrs))
		for i, ve := range verrs {
			msgs[i] = ve.Error()
		}
		return model.JournalEntry{}, store.Range{}, fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
	}

	written, err := p.store.AppendRows(ctx, p.sheet, appendRange, MarshalEntry(entry))
	if err != nil {
		return model.JournalEntry{}, store.Range{}, fmt.Errorf("appending journal entry: %w", err)
	}
	return entry, written, nil
}

// ReadEntries parses every entry in the journal. Blank row pairs left by a
// rolled-back posting are skipped.
func (p *Poster) ReadEntries(ctx context.Context) ([]model.JournalEntry, error) {
	rows, err := p.store.ReadRows(ctx, p.sheet, readRange)
	if err != nil {
		return nil, fmt.Errorf("reading journal: %w", err)
	}

	var entries []model.JournalEntry
	for i := 0; i < len(rows); i += id.RowsPerEntry {
		debit := rows[i]
		var credit store.Row
		if i+1 < len(rows) {
			credit = rows[i+1]
		}
		if debit.IsEmpty() && credit.IsEmpty() {
			continue
		}

		number := id.JournalNumberForRow(id.NextRow(i))
		entry, err := UnmarshalEntry(number, debit, credit)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", id.NextRow(i), err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
