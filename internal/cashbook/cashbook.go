// Package cashbook records cash receipts and payments.
package cashbook

import (
	"context"
	"fmt"

	"github.com/cleared-dev/bookpost/internal/id"
	"github.com/cleared-dev/bookpost/internal/model"
	"github.com/cleared-dev/bookpost/internal/store"
)

// Header is the first row of the cash book sheet. Receipts sit on the left
// half, payments on the right.
var Header = store.Row{"Date", "Receipts Particulars", "L.F.", "Receipts", "", "Payments Particulars", "Payments", "L.F."}

const numFields = 8

var (
	readRange   = store.MustRange("A2:H")
	appendRange = store.MustRange("A2")
)

// Poster appends cash book lines.
type Poster struct {
	store store.Store
	sheet string
}

// NewPoster creates a cash book Poster for the named sheet.
func NewPoster(s store.Store, sheet string) *Poster {
	return &Poster{store: s, sheet: sheet}
}

// Sheet returns the sheet the poster writes to.
func (p *Poster) Sheet() string { return p.sheet }

// Line builds the cash book line for a request. ok is false for types that
// do not move cash.
func Line(req model.TransactionRequest, cls model.AccountClassification) (line model.CashBookLine, ok bool) {
	if !req.Type.AffectsCash() {
		return model.CashBookLine{}, false
	}
	if req.Type.IsReceipt() {
		return model.CashBookLine{
			Date:        req.Date,
			Particulars: fmt.Sprintf("To %s (%s)", cls.CreditAccount, req.PartyName),
			Code:        cls.CreditCode,
			Receipt:     req.Amount,
		}, true
	}
	return model.CashBookLine{
		Date:        req.Date,
		Particulars: "By " + cls.DebitAccount,
		Payment:     req.Amount,
	}, true
}

// MarshalLine renders a line into the receipts or payments half.
func MarshalLine(l model.CashBookLine) store.Row {
	row := make(store.Row, numFields)
	row[0] = model.FormatDisplayDate(l.Date)
	if !l.Receipt.IsZero() {
		row[1] = l.Particulars
		row[2] = l.Code
		row[3] = model.FormatAmount(l.Receipt)
		return row
	}
	row[5] = l.Particulars
	row[6] = model.FormatAmount(l.Payment)
	return row
}

// Post appends the line for req, if any. It returns whether a line was
// written, the sheet row it landed on and the range written.
func (p *Poster) Post(ctx context.Context, req model.TransactionRequest, cls model.AccountClassification) (bool, int, store.Range, error) {
	line, ok := Line(req, cls)
	if !ok {
		return false, 0, store.Range{}, nil
	}

	rows, err := p.store.ReadRows(ctx, p.sheet, readRange)
	if err != nil {
		return false, 0, store.Range{}, fmt.Errorf("reading cash book: %w", err)
	}
	next := id.NextRow(len(rows))

	written, err := p.store.AppendRows(ctx, p.sheet, appendRange, []store.Row{MarshalLine(line)})
	if err != nil {
		return false, 0, store.Range{}, fmt.Errorf("appending cash book line: %w", err)
	}
	return true, next, written, nil
}
