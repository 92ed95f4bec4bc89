package journal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/bookpost/internal/model"
)

func TestMarshalUnmarshalEntry(t *testing.T) {
	req, cls := request(model.PaymentMade, "1234.50")
	e := BuildEntry("J7", req, cls)

	rows := MarshalEntry(e)
	require.Len(t, rows, 2)
	assert.Len(t, rows[0], 9)
	assert.Equal(t, "Sundry Creditors A/c (Acme)                           Dr.", rows[0][1])
	assert.Equal(t, "     To Cash A/c", rows[1][1])
	assert.Equal(t, "1234.50", rows[1][4])

	got, err := UnmarshalEntry("J7", rows[0], rows[1])
	require.NoError(t, err)
	assert.Equal(t, e.Debit.Account, got.Debit.Account)
	assert.Equal(t, e.Credit.Account, got.Credit.Account)
	assert.Equal(t, e.Date, got.Date)
	assert.True(t, e.Debit.Debit.Equal(got.Debit.Debit))
}

func TestUnmarshalEntry_BadAmount(t *testing.T) {
	req, cls := request(model.CashReceipt, "10")
	rows := MarshalEntry(BuildEntry("J1", req, cls))
	rows[1][4] = "ten"

	_, err := UnmarshalEntry("J1", rows[0], rows[1])
	require.Error(t, err)
	assert.Contains(t, err.Error(), "credit line")
}
