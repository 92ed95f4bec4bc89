package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/bookpost/internal/model"
)

// BankParser reads Chase-style checking exports. Credits become
// cash_receipt and debits cash_payment, with the statement description as
// both party and narration.
type BankParser struct{}

const (
	bankDateFormat = "01/02/2006"
	bankNumFields  = 7
	bankColDate    = 1
	bankColDesc    = 2
	bankColAmount  = 3
	bankColType    = 4
	bankHeader     = "posting date"
)

// Format returns the parser name.
func (p *BankParser) Format() string { return "bank" }

// Matches implements Parser.
func (p *BankParser) Matches(header []string) bool {
	return len(header) == bankNumFields && strings.EqualFold(strings.TrimSpace(header[bankColDate]), bankHeader)
}

// Parse implements Parser. Zero-amount lines carry no posting and are
// skipped.
func (p *BankParser) Parse(records []Record) ([]Row, error) {
	var rows []Row
	for _, r := range records {
		rec, line := r.Fields, r.Line
		if blank(rec) {
			continue
		}
		if len(rec) != bankNumFields {
			return nil, fmt.Errorf("row %d: expected %d fields, got %d", line, bankNumFields, len(rec))
		}
		req, err := parseBankRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		if req.Amount.IsZero() {
			continue
		}
		rows = append(rows, Row{Line: line, Request: req})
	}
	return rows, nil
}

func parseBankRow(rec []string) (model.TransactionRequest, error) {
	date, err := time.Parse(bankDateFormat, rec[bankColDate])
	if err != nil {
		return model.TransactionRequest{}, fmt.Errorf("parsing date %q: %w", rec[bankColDate], err)
	}

	amount, err := decimal.NewFromString(rec[bankColAmount])
	if err != nil {
		return model.TransactionRequest{}, fmt.Errorf("parsing amount %q: %w", rec[bankColAmount], err)
	}

	txType := model.CashReceipt
	if amount.IsNegative() {
		txType = model.CashPayment
	}

	desc := strings.TrimSpace(rec[bankColDesc])
	narration := desc
	if kind := strings.TrimSpace(rec[bankColType]); kind != "" {
		narration = fmt.Sprintf("%s (%s)", desc, kind)
	}

	return model.TransactionRequest{
		Type:        txType,
		PartyName:   desc,
		Amount:      amount.Abs(),
		Description: narration,
		Date:        date,
	}, nil
}
