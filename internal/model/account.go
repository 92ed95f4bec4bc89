package model

// AccountType classifies accounts in the chart of accounts.
type AccountType string

const (
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	AccountTypeEquity    AccountType = "equity"
	AccountTypeRevenue   AccountType = "revenue"
	AccountTypeExpense   AccountType = "expense"
)

// Account represents a row in chart-of-accounts.csv.
type Account struct {
	Code        string
	Name        string
	Type        AccountType
	PerParty    bool // one sub-account per debtor/creditor
	Description string
}

// AccountClassification is the debit/credit pair derived for one request.
type AccountClassification struct {
	DebitAccount  string
	CreditAccount string
	DebitCode     string
	CreditCode    string

	// Short names used as trial balance row keys.
	DebitName  string
	CreditName string
}
