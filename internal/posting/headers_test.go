package posting

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/bookpost/internal/cashbook"
	"github.com/cleared-dev/bookpost/internal/journal"
	"github.com/cleared-dev/bookpost/internal/store"
	"github.com/cleared-dev/bookpost/internal/trialbalance"
)

func TestWriteHeaders(t *testing.T) {
	s := store.NewMemory()
	s.Seed("Ledger", [][]string{{"My Ledger"}})

	require.NoError(t, WriteHeaders(context.Background(), s, DefaultSheets()))

	assert.Equal(t, [][]string{journal.Header}, s.Cells("Journal"))
	assert.Equal(t, [][]string{{"My Ledger"}}, s.Cells("Ledger"))
	assert.Equal(t, [][]string{trialbalance.Header}, s.Cells("Trial Balance"))
	assert.Equal(t, [][]string{cashbook.Header}, s.Cells("Cash Book"))

	svc := newService(s, trialbalance.ModeLegacy, nil)
	res, err := svc.Post(context.Background(), scenarioA())
	require.NoError(t, err)
	assert.Equal(t, "J1", res.JournalNumber)

	require.NoError(t, WriteHeaders(context.Background(), s, DefaultSheets()))
	assert.Len(t, s.Cells("Journal"), 3)
}
