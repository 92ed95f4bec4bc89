package journal

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/bookpost/internal/id"
	"github.com/cleared-dev/bookpost/internal/model"
)

// ValidationError describes a single invariant violation.
type ValidationError struct {
	Invariant   int
	Entry       string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invariant %d [%s]: %s", e.Invariant, e.Entry, e.Description)
}

var hundred = decimal.NewFromInt(100)

// ValidateEntry enforces the double-entry invariants on one journal entry.
func ValidateEntry(e model.JournalEntry) []ValidationError {
	var errs []ValidationError
	add := func(inv int, format string, args ...any) {
		errs = append(errs, ValidationError{Invariant: inv, Entry: e.Number, Description: fmt.Sprintf(format, args...)})
	}

	// Invariant 1: debit and credit are equal.
	if !e.Debit.Debit.Equal(e.Credit.Credit) {
		add(1, "debit (%s) != credit (%s)", e.Debit.Debit.StringFixed(2), e.Credit.Credit.StringFixed(2))
	}

	// Invariant 2: each line carries exactly one side.
	if e.Debit.Debit.IsZero() || !e.Debit.Credit.IsZero() {
		add(2, "debit line must carry only a debit amount")
	}
	if e.Credit.Credit.IsZero() || !e.Credit.Debit.IsZero() {
		add(2, "credit line must carry only a credit amount")
	}

	for _, line := range []model.JournalLine{e.Debit, e.Credit} {
		amt := line.Amount()
		// Invariant 3: positive amounts.
		if amt.IsNegative() {
			add(3, "amount %s on %s is negative", amt, line.Account)
		}
		// Invariant 4: no more than 2 decimal places.
		if !amt.Mul(hundred).Equal(amt.Mul(hundred).Floor()) {
			add(4, "amount %s on %s has more than 2 decimal places", amt, line.Account)
		}
		// Invariant 5: both sides name an account.
		if line.Account == "" || line.Code == "" {
			add(5, "line is missing its account or code")
		}
	}

	// Invariant 6: well-formed entry number.
	if _, err := id.ParseJournalNumber(e.Number); err != nil {
		add(6, "%v", err)
	}

	return errs
}
