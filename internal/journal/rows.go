package journal

import (
	"fmt"
	"strings"
	"time"

	"github.com/cleared-dev/bookpost/internal/model"
	"github.com/cleared-dev/bookpost/internal/store"
)

// Header is the first row of the journal sheet.
var Header = store.Row{"Date", "Particulars", "Code", "Debit", "Credit", "L.F.", "Party", "Ref", "Narration"}

const (
	numFields      = 9
	colDate        = 0
	colParticulars = 1
	colCode        = 2
	colDebit       = 3
	colCredit      = 4
	colParty       = 6
	colNarration   = 8

	debitSuffix  = "                           Dr."
	creditPrefix = "     To "
	narrationTag = "Being "
)

// MarshalEntry converts an entry to its debit and credit rows.
func MarshalEntry(e model.JournalEntry) []store.Row {
	debit := make(store.Row, numFields)
	debit[colDate] = model.FormatDisplayDate(e.Date)
	debit[colParticulars] = e.Debit.Account + debitSuffix
	debit[colCode] = e.Debit.Code
	debit[colDebit] = model.FormatAmount(e.Debit.Debit)
	debit[colParty] = e.Party
	debit[colNarration] = narrationTag + e.Narration

	credit := make(store.Row, numFields)
	credit[colParticulars] = creditPrefix + e.Credit.Account
	credit[colCode] = e.Credit.Code
	credit[colCredit] = model.FormatAmount(e.Credit.Credit)

	return []store.Row{debit, credit}
}

// UnmarshalEntry converts a debit/credit row pair back to an entry.
func UnmarshalEntry(number string, debit, credit store.Row) (model.JournalEntry, error) {
	date, err := time.Parse(model.DisplayDateFormat, debit.Cell(colDate))
	if err != nil {
		return model.JournalEntry{}, fmt.Errorf("parsing date %q: %w", debit.Cell(colDate), err)
	}

	debitAmt, err := model.ParseAmount(debit.Cell(colDebit))
	if err != nil {
		return model.JournalEntry{}, fmt.Errorf("debit line: %w", err)
	}
	creditAmt, err := model.ParseAmount(credit.Cell(colCredit))
	if err != nil {
		return model.JournalEntry{}, fmt.Errorf("credit line: %w", err)
	}

	return model.JournalEntry{
		Number: number,
		Date:   date,
		Debit: model.JournalLine{
			Account: strings.TrimSpace(strings.TrimSuffix(debit.Cell(colParticulars), "Dr.")),
			Code:    debit.Cell(colCode),
			Debit:   debitAmt,
		},
		Credit: model.JournalLine{
			Account: strings.TrimPrefix(strings.TrimSpace(credit.Cell(colParticulars)), "To "),
			Code:    credit.Cell(colCode),
			Credit:  creditAmt,
		},
		Party:     debit.Cell(colParty),
		Narration: strings.TrimPrefix(debit.Cell(colNarration), narrationTag),
	}, nil
}
