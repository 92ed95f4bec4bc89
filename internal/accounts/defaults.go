package accounts

import "github.com/cleared-dev/bookpost/internal/model"

// DefaultChart returns the chart of accounts the posting rules refer to.
func DefaultChart() []model.Account {
	return []model.Account{
		{Code: CodeCash, Name: defaultCashName, Type: model.AccountTypeAsset, Description: "Cash in hand"},
		{Code: CodeSundryDebtors, Name: "Sundry Debtors", Type: model.AccountTypeAsset, PerParty: true, Description: "Amounts owed by customers"},
		{Code: CodeSundryCreditors, Name: "Sundry Creditors", Type: model.AccountTypeLiability, PerParty: true, Description: "Amounts owed to suppliers"},
		{Code: CodeServiceIncome, Name: "Service Income", Type: model.AccountTypeRevenue},
		{Code: CodePurchases, Name: "Purchases", Type: model.AccountTypeExpense},
		{Code: CodeOfficeExpenses, Name: "Office Expenses", Type: model.AccountTypeExpense},
	}
}

const defaultCashName = "Cash"

var defaultChart = NewService(DefaultChart())
