// Package storetest holds behaviour tests every store backend must pass.
package storetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/bookpost/internal/store"
)

// Run exercises read/append/overwrite semantics against a fresh store from
// newStore for each subtest.
func Run(t *testing.T, newStore func(t *testing.T) store.Store) {
	t.Helper()

	t.Run("ReadMissingSheet", func(t *testing.T) {
		s := newStore(t)
		rows, err := s.ReadRows(context.Background(), "Nope", store.MustRange("A2:D100"))
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("AppendBelowHeader", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		require.NoError(t, s.OverwriteRows(ctx, "Journal", store.MustRange("A1"), []store.Row{{"Date", "Particulars"}}))

		written, err := s.AppendRows(ctx, "Journal", store.MustRange("A2"), []store.Row{
			{"15 Jan 2024", "Cash A/c Dr."},
			{"", "To Service Income A/c"},
		})
		require.NoError(t, err)
		assert.Equal(t, "A2:B3", written.String())

		written, err = s.AppendRows(ctx, "Journal", store.MustRange("A2"), []store.Row{{"16 Jan 2024", "x"}})
		require.NoError(t, err)
		assert.Equal(t, 4, written.StartRow)

		rows, err := s.ReadRows(ctx, "Journal", store.MustRange("A2:A1000"))
		require.NoError(t, err)
		require.Len(t, rows, 3, "rows with an empty first column still count")
		assert.Equal(t, store.Row{""}, rows[1])
	})

	t.Run("AppendOnEmptySheet", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		written, err := s.AppendRows(ctx, "Cash Book", store.MustRange("A2"), []store.Row{{"a", "b"}})
		require.NoError(t, err)
		assert.Equal(t, 2, written.StartRow, "append never lands above the range start")

		rows, err := s.ReadRows(ctx, "Cash Book", store.MustRange("A1:B10"))
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.True(t, rows[0].IsEmpty())
	})

	t.Run("ReadClipsColumns", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		_, err := s.AppendRows(ctx, "Ledger", store.MustRange("A2"), []store.Row{
			{"Cash A/c"},
			{"15 Jan 2024", "To Service Income A/c", "J1", "5000.00", "", "", "extra"},
		})
		require.NoError(t, err)

		rows, err := s.ReadRows(ctx, "Ledger", store.MustRange("B2:D3"))
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, store.Row{"", "", ""}, rows[0])
		assert.Equal(t, store.Row{"To Service Income A/c", "J1", "5000.00"}, rows[1])
	})

	t.Run("ReadStopsAtEndRow", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		_, err := s.AppendRows(ctx, "S", store.MustRange("A1"), []store.Row{{"1"}, {"2"}, {"3"}, {"4"}})
		require.NoError(t, err)

		rows, err := s.ReadRows(ctx, "S", store.MustRange("A2:A3"))
		require.NoError(t, err)
		assert.Equal(t, []store.Row{{"2"}, {"3"}}, rows)
	})

	t.Run("OverwriteReplacesFixedRange", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		rng := store.MustRange("A2")
		require.NoError(t, s.OverwriteRows(ctx, "Trial Balance", rng, []store.Row{
			{"Cash in Hand", "1000", "5000.00", ""},
			{"TOTAL", "", "5000.00", "0.00"},
		}))
		require.NoError(t, s.OverwriteRows(ctx, "Trial Balance", rng, []store.Row{
			{"Cash in Hand", "1000", "7000.00", ""},
			{"Service Income", "4200", "", "7000.00"},
			{"TOTAL", "", "7000.00", "7000.00"},
		}))

		rows, err := s.ReadRows(ctx, "Trial Balance", store.MustRange("A2:D100"))
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, store.Row{"Service Income", "4200", "", "7000.00"}, rows[1])
		assert.Equal(t, "TOTAL", rows[2][0])
	})

	t.Run("BlankedTailIsReused", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		_, err := s.AppendRows(ctx, "Journal", store.MustRange("A2"), []store.Row{{"keep"}})
		require.NoError(t, err)
		written, err := s.AppendRows(ctx, "Journal", store.MustRange("A2"), []store.Row{{"undo", "me"}, {"", "too"}})
		require.NoError(t, err)

		require.NoError(t, s.OverwriteRows(ctx, "Journal", written, store.BlankRows(2, 2)))

		rows, err := s.ReadRows(ctx, "Journal", store.MustRange("A2:B1000"))
		require.NoError(t, err)
		assert.Equal(t, []store.Row{{"keep", ""}}, rows)

		again, err := s.AppendRows(ctx, "Journal", store.MustRange("A2"), []store.Row{{"next"}})
		require.NoError(t, err)
		assert.Equal(t, written.StartRow, again.StartRow)
	})

	t.Run("SheetsAreIndependent", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		_, err := s.AppendRows(ctx, "Journal", store.MustRange("A2"), []store.Row{{"j"}})
		require.NoError(t, err)
		_, err = s.AppendRows(ctx, "Cash Book", store.MustRange("A2"), []store.Row{{"c"}})
		require.NoError(t, err)

		rows, err := s.ReadRows(ctx, "Journal", store.MustRange("A2:A1000"))
		require.NoError(t, err)
		assert.Equal(t, []store.Row{{"j"}}, rows)
	})

	t.Run("CanceledContext", func(t *testing.T) {
		s := newStore(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := s.ReadRows(ctx, "Journal", store.MustRange("A2"))
		require.Error(t, err)
		var serr *store.Error
		assert.ErrorAs(t, err, &serr)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
