package trialbalance

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/bookpost/internal/accounts"
	"github.com/cleared-dev/bookpost/internal/model"
	"github.com/cleared-dev/bookpost/internal/store"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func post(t *testing.T, u *Updater, txType model.TransactionType, party, amount string) Result {
	t.Helper()
	req := model.TransactionRequest{
		Type:        txType,
		PartyName:   party,
		Amount:      dec(amount),
		Description: "test",
		Date:        time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	}
	cls, err := accounts.Classify(txType, party)
	require.NoError(t, err)
	res, err := u.Update(context.Background(), req, cls)
	require.NoError(t, err)
	return res
}

func row(t *testing.T, rows []model.TrialBalanceRow, name string) model.TrialBalanceRow {
	t.Helper()
	for _, r := range rows {
		if r.Name == name {
			return r
		}
	}
	t.Fatalf("no trial balance row %q", name)
	return model.TrialBalanceRow{}
}

func assertTotalsMatch(t *testing.T, u *Updater) {
	t.Helper()
	raw, err := u.store.ReadRows(context.Background(), u.sheet, readRange)
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	last := raw[len(raw)-1]
	require.Equal(t, TotalLabel, last[0])

	rows, err := UnmarshalRows(raw)
	require.NoError(t, err)
	want := Total(rows)
	assert.Equal(t, model.FormatAmount(want.Debit), last[2])
	assert.Equal(t, model.FormatAmount(want.Credit), last[3])
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeLegacy, m)

	m, err = ParseMode("complete")
	require.NoError(t, err)
	assert.Equal(t, ModeComplete, m)

	_, err = ParseMode("strict")
	assert.Error(t, err)
}

func TestLegacy_CashReceipt(t *testing.T) {
	s := store.NewMemory()
	s.Seed("Trial Balance", [][]string{Header})
	u := NewUpdater(s, "Trial Balance", ModeLegacy)

	res := post(t, u, model.CashReceipt, "Acme", "5000")
	require.True(t, res.Changed)

	assert.Equal(t, [][]string{
		{"Account", "Code", "Debit", "Credit"},
		{"Cash in Hand", "1000", "5000.00"},
		{"Service Income", "4200", "", "5000.00"},
		{"TOTAL", "", "5000.00", "5000.00"},
	}, s.Cells("Trial Balance"))

	post(t, u, model.CashReceipt, "Acme", "250.25")
	rows, total, err := u.Read(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2, "rows accumulate in place")
	assert.True(t, row(t, rows, "Cash in Hand").Debit.Equal(dec("5250.25")))
	assert.True(t, total.Credit.Equal(dec("5250.25")))
	assertTotalsMatch(t, u)
}

func TestLegacy_CashPayment(t *testing.T) {
	s := store.NewMemory()
	u := NewUpdater(s, "Trial Balance", ModeLegacy)

	// No cash row yet: only expenses move.
	post(t, u, model.CashPayment, "Acme", "100")
	rows, _, err := u.Read(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Office Expenses", rows[0].Name)
	assert.Equal(t, "6200", rows[0].Code)

	post(t, u, model.CashReceipt, "Acme", "1000")
	post(t, u, model.CashPayment, "Acme", "300")
	rows, _, err = u.Read(context.Background())
	require.NoError(t, err)
	assert.True(t, row(t, rows, "Cash in Hand").Debit.Equal(dec("700")), "payment nets the cash debit")
	assert.True(t, row(t, rows, "Office Expenses").Debit.Equal(dec("400")))
	assertTotalsMatch(t, u)
}

func TestLegacy_DebtorsCollapseOntoFirstRow(t *testing.T) {
	s := store.NewMemory()
	u := NewUpdater(s, "Trial Balance", ModeLegacy)

	post(t, u, model.CreditSale, "Acme", "100")
	post(t, u, model.CreditSale, "Globex", "50")

	rows, _, err := u.Read(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	debtors := row(t, rows, "Sundry Debtors (Acme)")
	assert.Equal(t, "1100", debtors.Code)
	assert.True(t, debtors.Debit.Equal(dec("150")), "Globex lands on the Acme row")
}

func TestLegacy_UnhandledTypesDoNotWrite(t *testing.T) {
	for _, txType := range []model.TransactionType{model.CreditPurchase, model.PaymentReceived, model.PaymentMade} {
		t.Run(string(txType), func(t *testing.T) {
			s := store.NewMemory()
			u := NewUpdater(s, "Trial Balance", ModeLegacy)

			res := post(t, u, txType, "Bolt Supplies", "1200")
			assert.False(t, res.Changed)
			assert.Nil(t, res.Restore)
			assert.Empty(t, s.Cells("Trial Balance"))
		})
	}
}

func TestComplete_AllTypesBalance(t *testing.T) {
	s := store.NewMemory()
	u := NewUpdater(s, "Trial Balance", ModeComplete)

	post(t, u, model.CashReceipt, "Acme", "5000")
	post(t, u, model.CashPayment, "Acme", "200")
	post(t, u, model.CreditSale, "Acme", "100")
	post(t, u, model.CreditSale, "Globex", "50")
	post(t, u, model.CreditPurchase, "Bolt Supplies", "1200")
	post(t, u, model.PaymentReceived, "Acme", "100")
	post(t, u, model.PaymentMade, "Bolt Supplies", "1200")

	rows, total, err := u.Read(context.Background())
	require.NoError(t, err)
	assert.True(t, total.Debit.Equal(total.Credit), "debits %s != credits %s", total.Debit, total.Credit)

	cash := row(t, rows, "Cash in Hand")
	assert.True(t, cash.Debit.Equal(dec("5100")))
	assert.True(t, cash.Credit.Equal(dec("1400")))

	assert.True(t, row(t, rows, "Sundry Debtors (Acme)").Credit.Equal(dec("100")))
	assert.True(t, row(t, rows, "Sundry Debtors (Globex)").Debit.Equal(dec("50")))
	assert.Equal(t, "2000", row(t, rows, "Sundry Creditors (Bolt Supplies)").Code)
	assert.Equal(t, "5000", row(t, rows, "Purchases").Code)
	assertTotalsMatch(t, u)
}

func TestCodeIsStable(t *testing.T) {
	s := store.NewMemory()
	s.Seed("Trial Balance", [][]string{Header, {"Service Income", "4999", "", "10.00"}})
	u := NewUpdater(s, "Trial Balance", ModeComplete)

	post(t, u, model.CashReceipt, "Acme", "5")
	rows, _, err := u.Read(context.Background())
	require.NoError(t, err)
	income := row(t, rows, "Service Income")
	assert.Equal(t, "4999", income.Code)
	assert.True(t, income.Credit.Equal(dec("15")))
}

func TestStaleTotalRowsAreReplaced(t *testing.T) {
	s := store.NewMemory()
	s.Seed("Trial Balance", [][]string{
		Header,
		{"Cash in Hand", "1000", "1,000.00"},
		{"TOTAL", "", "=SUM(C2:C100)", "=SUM(D2:D100)"},
		{"TOTAL", "", "1000.00", ""},
	})
	u := NewUpdater(s, "Trial Balance", ModeLegacy)

	res := post(t, u, model.CashReceipt, "Acme", "1")
	require.Len(t, res.Restore, 3)

	assert.Equal(t, [][]string{
		{"Account", "Code", "Debit", "Credit"},
		{"Cash in Hand", "1000", "1001.00"},
		{"Service Income", "4200", "", "1.00"},
		{"TOTAL", "", "1001.00", "1.00"},
	}, s.Cells("Trial Balance"))
}

func TestRestoreUndoesUpdate(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	s.Seed("Trial Balance", [][]string{Header, {"Cash in Hand", "1000", "10.00"}, {"TOTAL", "", "10.00", "0.00"}})
	before := s.Cells("Trial Balance")
	u := NewUpdater(s, "Trial Balance", ModeLegacy)

	res := post(t, u, model.CashReceipt, "Acme", "5")
	require.NoError(t, s.OverwriteRows(ctx, "Trial Balance", res.Range, res.Restore))

	assert.Equal(t, before, s.Cells("Trial Balance"))
}

func TestUnmarshalRows_BadAmount(t *testing.T) {
	_, err := UnmarshalRows([]store.Row{{"Cash in Hand", "1000", "lots", ""}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2 debit")
}

func TestComplete_KeepsRowsPastRow100(t *testing.T) {
	s := store.NewMemory()
	s.Seed("Trial Balance", [][]string{Header})
	u := NewUpdater(s, "Trial Balance", ModeComplete)

	for i := 0; i < 120; i++ {
		post(t, u, model.CreditSale, fmt.Sprintf("P%03d", i), "10")
	}

	rows, total, err := u.Read(context.Background())
	require.NoError(t, err)
	assert.Len(t, rows, 121, "one debtor per party plus Service Income")
	assert.Equal(t, "1200.00", model.FormatAmount(total.Debit))
	assert.Equal(t, "1200.00", model.FormatAmount(total.Credit))
	assert.Equal(t, "10.00", model.FormatAmount(row(t, rows, accounts.TrialBalanceName("1100", "P000")).Debit))
	assert.Equal(t, "10.00", model.FormatAmount(row(t, rows, accounts.TrialBalanceName("1100", "P119")).Debit))
	assertTotalsMatch(t, u)
}
