package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() TransactionRequest {
	return TransactionRequest{
		Type:        CashReceipt,
		PartyName:   "Acme",
		Amount:      decimal.NewFromInt(5000),
		Description: "consulting fee",
		Date:        time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*TransactionRequest)
		field  string
		reason string
	}{
		{"valid", func(*TransactionRequest) {}, "", ""},
		{"missing type", func(r *TransactionRequest) { r.Type = "" }, "type", "required"},
		{"blank party", func(r *TransactionRequest) { r.PartyName = "  " }, "partyName", "required"},
		{"zero amount", func(r *TransactionRequest) { r.Amount = decimal.Zero }, "amount", "required"},
		{"negative amount", func(r *TransactionRequest) { r.Amount = decimal.NewFromInt(-1) }, "amount", "must be positive"},
		{"sub-cent amount", func(r *TransactionRequest) { r.Amount = decimal.RequireFromString("10.005") }, "amount", "at most 2 decimal places"},
		{"trailing zeros", func(r *TransactionRequest) { r.Amount = decimal.RequireFromString("10.500") }, "", ""},
		{"missing description", func(r *TransactionRequest) { r.Description = "" }, "description", "required"},
		{"missing date", func(r *TransactionRequest) { r.Date = time.Time{} }, "date", "required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)
			err := req.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var ve ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
			assert.Equal(t, tt.reason, ve.Reason)
		})
	}
}

func TestValidate_UnknownTypeLeftToClassifier(t *testing.T) {
	req := validRequest()
	req.Type = "refund"
	assert.NoError(t, req.Validate())
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-15")
	require.NoError(t, err)
	assert.Equal(t, "15 Jan 2024", FormatDisplayDate(d))

	d, err = ParseDate("2024-02-01T18:30:00+05:30")
	require.NoError(t, err)
	assert.Equal(t, "01 Feb 2024", FormatDisplayDate(d))

	_, err = ParseDate("01/15/2024")
	var ve ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "date", ve.Field)
}

func TestFormatDisplayDate_PadsDay(t *testing.T) {
	assert.Equal(t, "05 Mar 2024", FormatDisplayDate(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)))
}

func TestAmounts(t *testing.T) {
	tests := []struct {
		cell string
		want string
	}{
		{"5000", "5000.00"},
		{"1,234.5", "1234.50"},
		{"  42.10 ", "42.10"},
		{"", "0.00"},
	}
	for _, tt := range tests {
		d, err := ParseAmount(tt.cell)
		require.NoError(t, err, tt.cell)
		assert.Equal(t, tt.want, FormatAmount(d), tt.cell)
	}

	_, err := ParseAmount("=SUM(C2:C9)")
	assert.ErrorContains(t, err, "parsing amount")
}

func TestTransactionTypes(t *testing.T) {
	cash := map[TransactionType]bool{CashReceipt: true, CashPayment: true, PaymentReceived: true, PaymentMade: true}
	receipts := map[TransactionType]bool{CashReceipt: true, PaymentReceived: true}

	require.Len(t, TransactionTypes, 6)
	for _, tt := range TransactionTypes {
		assert.Equal(t, cash[tt], tt.AffectsCash(), tt)
		assert.Equal(t, receipts[tt], tt.IsReceipt(), tt)
	}
}

func TestJournalLine_Amount(t *testing.T) {
	amt := decimal.NewFromInt(1200)
	assert.True(t, JournalLine{Debit: amt}.Amount().Equal(amt))
	assert.True(t, JournalLine{Credit: amt}.Amount().Equal(amt))
}
