package accounts

import (
	"errors"
	"fmt"

	"github.com/cleared-dev/bookpost/internal/model"
)

// ErrInvalidTransactionType is returned for any type outside the posting table.
var ErrInvalidTransactionType = errors.New("invalid transaction type")

// Account codes of the default chart.
const (
	CodeCash            = "1000"
	CodeSundryDebtors   = "1100"
	CodeSundryCreditors = "2000"
	CodeServiceIncome   = "4200"
	CodePurchases       = "5000"
	CodeOfficeExpenses  = "6200"
)

// side names one half of a posting rule. Party-scoped sides interpolate the
// counterparty into both the book label and the trial balance name.
type side struct {
	code     string
	perParty bool
}

type rule struct {
	debit  side
	credit side
}

var rules = map[model.TransactionType]rule{
	model.CashReceipt:     {debit: side{code: CodeCash}, credit: side{code: CodeServiceIncome}},
	model.CashPayment:     {debit: side{code: CodeOfficeExpenses}, credit: side{code: CodeCash}},
	model.CreditSale:      {debit: side{code: CodeSundryDebtors, perParty: true}, credit: side{code: CodeServiceIncome}},
	model.CreditPurchase:  {debit: side{code: CodePurchases}, credit: side{code: CodeSundryCreditors, perParty: true}},
	model.PaymentReceived: {debit: side{code: CodeCash}, credit: side{code: CodeSundryDebtors, perParty: true}},
	model.PaymentMade:     {debit: side{code: CodeSundryCreditors, perParty: true}, credit: side{code: CodeCash}},
}

// Classify derives the debit/credit pair for a transaction type using the
// default chart.
func Classify(t model.TransactionType, party string) (model.AccountClassification, error) {
	return defaultChart.Classify(t, party)
}

// BookLabel labels code in the default chart.
func BookLabel(code, party string) string {
	return defaultChart.BookLabel(code, party)
}

// TrialBalanceName names code's trial balance row in the default chart.
func TrialBalanceName(code, party string) string {
	return defaultChart.TrialBalanceName(code, party)
}

// Classify derives the debit/credit pair for a transaction type, labelling
// both sides with the names in this chart.
func (s *Service) Classify(t model.TransactionType, party string) (model.AccountClassification, error) {
	r, ok := rules[t]
	if !ok {
		return model.AccountClassification{}, fmt.Errorf("%w: %q", ErrInvalidTransactionType, t)
	}

	return model.AccountClassification{
		DebitAccount:  s.BookLabel(r.debit.code, party),
		CreditAccount: s.BookLabel(r.credit.code, party),
		DebitCode:     r.debit.code,
		CreditCode:    r.credit.code,
		DebitName:     s.TrialBalanceName(r.debit.code, party),
		CreditName:    s.TrialBalanceName(r.credit.code, party),
	}, nil
}

// BookLabel is the account label written to the journal, ledger and cash
// book, e.g. "Cash A/c" or "Sundry Debtors A/c (Acme)".
func (s *Service) BookLabel(code, party string) string {
	a, ok := s.byCode[code]
	if !ok {
		return code
	}
	if a.PerParty {
		return fmt.Sprintf("%s A/c (%s)", a.Name, party)
	}
	return a.Name + " A/c"
}

// TrialBalanceName is the row key used in the trial balance, e.g.
// "Cash in Hand" or "Sundry Debtors (Acme)".
func (s *Service) TrialBalanceName(code, party string) string {
	a, ok := s.byCode[code]
	if !ok {
		return code
	}
	name := a.Name
	if code == CodeCash && name == defaultCashName {
		name = "Cash in Hand"
	}
	if a.PerParty {
		return fmt.Sprintf("%s (%s)", name, party)
	}
	return name
}
