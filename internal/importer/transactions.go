package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/cleared-dev/bookpost/internal/model"
)

// TransactionParser reads the native layout, one request per row:
// type,partyName,amount,description,date
type TransactionParser struct{}

const (
	txNumFields    = 5
	txColType      = 0
	txColParty     = 1
	txColAmount    = 2
	txColDesc      = 3
	txColDate      = 4
	txHeaderFirst  = "type"
	txHeaderSecond = "partyname"
)

// Format returns the parser name.
func (p *TransactionParser) Format() string { return "transactions" }

// Matches implements Parser.
func (p *TransactionParser) Matches(header []string) bool {
	return len(header) >= 2 &&
		strings.EqualFold(strings.TrimSpace(header[txColType]), txHeaderFirst) &&
		strings.EqualFold(strings.TrimSpace(header[txColParty]), txHeaderSecond)
}

// Parse implements Parser. Blank lines are skipped; requests are not
// validated here so the posting service reports field errors uniformly.
func (p *TransactionParser) Parse(records []Record) ([]Row, error) {
	var rows []Row
	for _, r := range records {
		rec, line := r.Fields, r.Line
		if blank(rec) {
			continue
		}
		if len(rec) != txNumFields {
			return nil, fmt.Errorf("row %d: expected %d fields, got %d", line, txNumFields, len(rec))
		}
		req, err := parseTransactionRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		rows = append(rows, Row{Line: line, Request: req})
	}
	return rows, nil
}

func parseTransactionRow(rec []string) (model.TransactionRequest, error) {
	amount, err := model.ParseAmount(rec[txColAmount])
	if err != nil {
		return model.TransactionRequest{}, err
	}

	var date time.Time
	if s := strings.TrimSpace(rec[txColDate]); s != "" {
		date, err = model.ParseDate(s)
		if err != nil {
			return model.TransactionRequest{}, err
		}
	}

	return model.TransactionRequest{
		Type:        model.TransactionType(strings.TrimSpace(rec[txColType])),
		PartyName:   strings.TrimSpace(rec[txColParty]),
		Amount:      amount,
		Description: strings.TrimSpace(rec[txColDesc]),
		Date:        date,
	}, nil
}

func blank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
