// Package trialbalance keeps running per-account debit/credit totals and a
// TOTAL row in the trial balance sheet.
package trialbalance

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/bookpost/internal/accounts"
	"github.com/cleared-dev/bookpost/internal/model"
	"github.com/cleared-dev/bookpost/internal/store"
)

// Mode selects how transactions map onto trial balance rows.
type Mode string

const (
	// ModeLegacy matches rows by fixed names, collapses every debtor onto
	// the first row containing "Debtors", and only updates for
	// cash_receipt, cash_payment and credit_sale.
	ModeLegacy Mode = "legacy"
	// ModeComplete keys rows by exact account name (party included) and
	// posts both sides of every transaction type.
	ModeComplete Mode = "complete"
)

// ParseMode validates a configured mode. Empty means legacy.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeLegacy:
		return ModeLegacy, nil
	case ModeComplete:
		return ModeComplete, nil
	}
	return "", fmt.Errorf("unknown trial balance mode %q", s)
}

// TotalLabel names the aggregate row.
const TotalLabel = "TOTAL"

// Header is the first row of the trial balance sheet.
var Header = store.Row{"Account", "Code", "Debit", "Credit"}

const numFields = 4

var (
	readRange  = store.MustRange("A2:D")
	writeRange = store.MustRange("A2")
)

// Updater applies postings to the trial balance sheet.
type Updater struct {
	store store.Store
	sheet string
	mode  Mode
}

// NewUpdater creates an Updater for the named sheet.
func NewUpdater(s store.Store, sheet string, mode Mode) *Updater {
	return &Updater{store: s, sheet: sheet, mode: mode}
}

// Sheet returns the sheet the updater writes to.
func (u *Updater) Sheet() string { return u.sheet }

// Result describes one update.
type Result struct {
	Changed bool
	Rows    []model.TrialBalanceRow
	Total   model.TrialBalanceRow
	// Restore rewrites the sheet as it was before the update when written
	// back at Range.
	Restore []store.Row
	Range   store.Range
}

// Read returns the account rows and the recomputed total.
func (u *Updater) Read(ctx context.Context) ([]model.TrialBalanceRow, model.TrialBalanceRow, error) {
	raw, err := u.store.ReadRows(ctx, u.sheet, readRange)
	if err != nil {
		return nil, model.TrialBalanceRow{}, fmt.Errorf("reading trial balance: %w", err)
	}
	rows, err := UnmarshalRows(raw)
	if err != nil {
		return nil, model.TrialBalanceRow{}, err
	}
	return rows, Total(rows), nil
}

// Update applies one posting. When nothing changes no write happens.
func (u *Updater) Update(ctx context.Context, req model.TransactionRequest, cls model.AccountClassification) (Result, error) {
	raw, err := u.store.ReadRows(ctx, u.sheet, readRange)
	if err != nil {
		return Result{}, fmt.Errorf("reading trial balance: %w", err)
	}
	rows, err := UnmarshalRows(raw)
	if err != nil {
		return Result{}, err
	}

	rows, changed := Apply(u.mode, rows, req, cls)
	res := Result{Changed: changed, Rows: rows, Total: Total(rows), Range: writeRange}
	if !changed {
		return res, nil
	}

	// Blank out stale rows below the new TOTAL row.
	out := MarshalRows(rows)
	if short := len(raw) - len(out); short > 0 {
		out = append(out, store.BlankRows(short, numFields)...)
	}
	if err := u.store.OverwriteRows(ctx, u.sheet, writeRange, out); err != nil {
		return Result{}, fmt.Errorf("writing trial balance: %w", err)
	}

	res.Restore = append([]store.Row(nil), raw...)
	if extra := len(out) - len(raw); extra > 0 {
		res.Restore = append(res.Restore, store.BlankRows(extra, numFields)...)
	}
	return res, nil
}

// Apply returns rows with the posting applied and whether anything changed.
// It updates rows in place.
func Apply(mode Mode, rows []model.TrialBalanceRow, req model.TransactionRequest, cls model.AccountClassification) ([]model.TrialBalanceRow, bool) {
	if mode == ModeComplete {
		return applyComplete(rows, req, cls), true
	}
	return applyLegacy(rows, req, cls)
}

func applyComplete(rows []model.TrialBalanceRow, req model.TransactionRequest, cls model.AccountClassification) []model.TrialBalanceRow {
	rows, i := findOrCreate(rows, cls.DebitName, cls.DebitCode)
	rows[i].Debit = rows[i].Debit.Add(req.Amount)

	rows, i = findOrCreate(rows, cls.CreditName, cls.CreditCode)
	rows[i].Credit = rows[i].Credit.Add(req.Amount)
	return rows
}

var (
	cashName    = accounts.TrialBalanceName(accounts.CodeCash, "")
	incomeName  = accounts.TrialBalanceName(accounts.CodeServiceIncome, "")
	expenseName = accounts.TrialBalanceName(accounts.CodeOfficeExpenses, "")
)

func applyLegacy(rows []model.TrialBalanceRow, req model.TransactionRequest, cls model.AccountClassification) ([]model.TrialBalanceRow, bool) {
	amt := req.Amount
	var i int

	switch req.Type {
	case model.CashReceipt:
		rows, i = findOrCreate(rows, cashName, accounts.CodeCash)
		rows[i].Debit = rows[i].Debit.Add(amt)
		rows, i = findOrCreate(rows, incomeName, accounts.CodeServiceIncome)
		rows[i].Credit = rows[i].Credit.Add(amt)

	case model.CashPayment:
		if i = indexOf(rows, func(name string) bool { return name == cashName }); i >= 0 {
			rows[i].Debit = rows[i].Debit.Sub(amt)
		}
		rows, i = findOrCreate(rows, expenseName, accounts.CodeOfficeExpenses)
		rows[i].Debit = rows[i].Debit.Add(amt)

	case model.CreditSale:
		i = indexOf(rows, func(name string) bool { return strings.Contains(name, "Debtors") })
		if i < 0 {
			rows = append(rows, model.TrialBalanceRow{Name: cls.DebitName, Code: cls.DebitCode})
			i = len(rows) - 1
		}
		rows[i].Debit = rows[i].Debit.Add(amt)
		rows, i = findOrCreate(rows, incomeName, accounts.CodeServiceIncome)
		rows[i].Credit = rows[i].Credit.Add(amt)

	default:
		return rows, false
	}
	return rows, true
}

func indexOf(rows []model.TrialBalanceRow, match func(name string) bool) int {
	for i, r := range rows {
		if match(r.Name) {
			return i
		}
	}
	return -1
}

// findOrCreate returns the index of the row named name, appending it with
// code when absent. An existing row keeps its code.
func findOrCreate(rows []model.TrialBalanceRow, name, code string) ([]model.TrialBalanceRow, int) {
	if i := indexOf(rows, func(n string) bool { return n == name }); i >= 0 {
		return rows, i
	}
	rows = append(rows, model.TrialBalanceRow{Name: name, Code: code})
	return rows, len(rows) - 1
}

// Total sums both columns of the account rows.
func Total(rows []model.TrialBalanceRow) model.TrialBalanceRow {
	total := model.TrialBalanceRow{Name: TotalLabel, Debit: decimal.Zero, Credit: decimal.Zero}
	for _, r := range rows {
		total.Debit = total.Debit.Add(r.Debit)
		total.Credit = total.Credit.Add(r.Credit)
	}
	return total
}

// MarshalRows renders account rows followed by the TOTAL row.
func MarshalRows(rows []model.TrialBalanceRow) []store.Row {
	out := make([]store.Row, 0, len(rows)+1)
	for _, r := range rows {
		out = append(out, store.Row{r.Name, r.Code, amountCell(r.Debit), amountCell(r.Credit)})
	}
	total := Total(rows)
	out = append(out, store.Row{TotalLabel, "", model.FormatAmount(total.Debit), model.FormatAmount(total.Credit)})
	return out
}

func amountCell(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return model.FormatAmount(d)
}

// UnmarshalRows parses account rows, dropping TOTAL and blank rows.
func UnmarshalRows(raw []store.Row) ([]model.TrialBalanceRow, error) {
	var rows []model.TrialBalanceRow
	for i, r := range raw {
		name := strings.TrimSpace(r.Cell(0))
		if r.IsEmpty() || name == TotalLabel {
			continue
		}
		debit, err := model.ParseAmount(r.Cell(2))
		if err != nil {
			return nil, fmt.Errorf("trial balance row %d debit: %w", i+2, err)
		}
		credit, err := model.ParseAmount(r.Cell(3))
		if err != nil {
			return nil, fmt.Errorf("trial balance row %d credit: %w", i+2, err)
		}
		rows = append(rows, model.TrialBalanceRow{Name: name, Code: r.Cell(1), Debit: debit, Credit: credit})
	}
	return rows, nil
}
