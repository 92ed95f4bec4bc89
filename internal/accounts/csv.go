package accounts

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/cleared-dev/bookpost/internal/model"
)

const (
	numFields   = 5
	colCode     = 0
	colName     = 1
	colType     = 2
	colPerParty = 3
	colDesc     = 4
)

// ReadAccounts reads chart-of-accounts.csv.
func ReadAccounts(r io.Reader) ([]model.Account, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading accounts CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var accounts []model.Account
	for i, rec := range records[1:] {
		acct, err := UnmarshalAccount(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		accounts = append(accounts, acct)
	}
	return accounts, nil
}

// WriteAccounts writes chart-of-accounts.csv.
func WriteAccounts(w io.Writer, accounts []model.Account) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"account_code", "account_name", "account_type", "per_party", "description"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, acct := range accounts {
		if err := cw.Write(MarshalAccount(acct)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalAccount converts an Account to a CSV row.
func MarshalAccount(acct model.Account) []string {
	row := make([]string, numFields)
	row[colCode] = acct.Code
	row[colName] = acct.Name
	row[colType] = string(acct.Type)
	row[colPerParty] = strconv.FormatBool(acct.PerParty)
	row[colDesc] = acct.Description
	return row
}

// UnmarshalAccount converts a CSV row to an Account.
func UnmarshalAccount(record []string) (model.Account, error) {
	if len(record) != numFields {
		return model.Account{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	if _, err := strconv.Atoi(record[colCode]); err != nil {
		return model.Account{}, fmt.Errorf("parsing account_code %q: %w", record[colCode], err)
	}

	perParty, err := strconv.ParseBool(record[colPerParty])
	if err != nil {
		return model.Account{}, fmt.Errorf("parsing per_party %q: %w", record[colPerParty], err)
	}

	return model.Account{
		Code:        record[colCode],
		Name:        record[colName],
		Type:        model.AccountType(record[colType]),
		PerParty:    perParty,
		Description: record[colDesc],
	}, nil
}
