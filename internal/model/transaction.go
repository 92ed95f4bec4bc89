package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType names a business event the engine knows how to post.
type TransactionType string

const (
	CashReceipt     TransactionType = "cash_receipt"
	CashPayment     TransactionType = "cash_payment"
	CreditSale      TransactionType = "credit_sale"
	CreditPurchase  TransactionType = "credit_purchase"
	PaymentReceived TransactionType = "payment_received"
	PaymentMade     TransactionType = "payment_made"
)

// TransactionTypes lists every supported type in a stable order.
var TransactionTypes = []TransactionType{
	CashReceipt,
	CashPayment,
	CreditSale,
	CreditPurchase,
	PaymentReceived,
	PaymentMade,
}

// AffectsCash reports whether the type produces a cash book line.
func (t TransactionType) AffectsCash() bool {
	switch t {
	case CashReceipt, CashPayment, PaymentReceived, PaymentMade:
		return true
	}
	return false
}

// IsReceipt reports whether cash flows in (receipts column of the cash book).
func (t TransactionType) IsReceipt() bool {
	return t == CashReceipt || t == PaymentReceived
}

// DateFormat is the ISO-8601 calendar date accepted on requests.
const DateFormat = "2006-01-02"

// DisplayDateFormat renders dates as "15 Jan 2024" in books and responses.
const DisplayDateFormat = "02 Jan 2006"

// TransactionRequest is a single business transaction submitted for posting.
type TransactionRequest struct {
	Type        TransactionType
	PartyName   string
	Amount      decimal.Decimal
	Description string
	Date        time.Time
}

// ValidationError reports a missing or invalid request field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Validate checks that every field is present and the amount is a positive
// value in whole cents.
// The transaction type itself is checked by the classifier.
func (r TransactionRequest) Validate() error {
	switch {
	case strings.TrimSpace(string(r.Type)) == "":
		return ValidationError{Field: "type", Reason: "required"}
	case strings.TrimSpace(r.PartyName) == "":
		return ValidationError{Field: "partyName", Reason: "required"}
	case r.Amount.IsZero():
		return ValidationError{Field: "amount", Reason: "required"}
	case r.Amount.IsNegative():
		return ValidationError{Field: "amount", Reason: "must be positive"}
	case !r.Amount.Equal(r.Amount.Round(2)):
		return ValidationError{Field: "amount", Reason: "at most 2 decimal places"}
	case strings.TrimSpace(r.Description) == "":
		return ValidationError{Field: "description", Reason: "required"}
	case r.Date.IsZero():
		return ValidationError{Field: "date", Reason: "required"}
	}
	return nil
}

// ParseDate parses an ISO-8601 calendar date. A full RFC 3339 timestamp is
// also accepted and truncated to its date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if d, err := time.Parse(DateFormat, s); err == nil {
		return d, nil
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, ValidationError{Field: "date", Reason: fmt.Sprintf("%q is not an ISO-8601 date", s)}
	}
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC), nil
}

// FormatDisplayDate renders d the way it appears in every book.
func FormatDisplayDate(d time.Time) string {
	return d.Format(DisplayDateFormat)
}
