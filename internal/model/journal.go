package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalLine is one side of a journal entry.
type JournalLine struct {
	Account string
	Code    string
	Debit   decimal.Decimal // zero if credit side
	Credit  decimal.Decimal // zero if debit side
}

// Amount returns whichever side is populated.
func (l JournalLine) Amount() decimal.Decimal {
	if !l.Debit.IsZero() {
		return l.Debit
	}
	return l.Credit
}

// JournalEntry is a two-line record in the journal.
type JournalEntry struct {
	Number    string // "J<n>"
	Date      time.Time
	Debit     JournalLine
	Credit    JournalLine
	Party     string
	Narration string
}

// LedgerLine is a movement on one account folio.
type LedgerLine struct {
	Folio         string // account the line belongs to
	Date          time.Time
	Particulars   string // "To <account>" or "By <account>"
	JournalNumber string
	Debit         decimal.Decimal
	Credit        decimal.Decimal
}

// TrialBalanceRow is a running total per account.
type TrialBalanceRow struct {
	Name   string
	Code   string
	Debit  decimal.Decimal
	Credit decimal.Decimal
}

// CashBookLine is a receipt or a payment, never both.
type CashBookLine struct {
	Date        time.Time
	Particulars string
	Code        string
	Receipt     decimal.Decimal
	Payment     decimal.Decimal
}

// PostingResult is what a successful posting reports back to the caller.
type PostingResult struct {
	PostingID     string
	JournalNumber string
	DebitAccount  string
	CreditAccount string
	Amount        decimal.Decimal
	Date          time.Time
	LedgerRow     int  // first sheet row of the new folio lines
	TrialBalance  bool // whether the trial balance was rewritten
	CashBook      bool // whether a cash book line was appended
}
