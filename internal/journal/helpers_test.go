package journal

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/bookpost/internal/accounts"
	"github.com/cleared-dev/bookpost/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func request(txType model.TransactionType, amount string) (model.TransactionRequest, model.AccountClassification) {
	req := model.TransactionRequest{
		Type:        txType,
		PartyName:   "Acme",
		Amount:      dec(amount),
		Description: "consulting fee",
		Date:        date(2024, 1, 15),
	}
	cls, err := accounts.Classify(txType, req.PartyName)
	if err != nil {
		panic(err)
	}
	return req, cls
}
