package sqlitestore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/bookpost/internal/store"
	"github.com/cleared-dev/bookpost/internal/store/storetest"
)

func TestSQLiteStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		s, err := Open(filepath.Join(t.TempDir(), "book.sqlite"))
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}

func TestKeepsRowNumbers(t *testing.T) {
	ctx := context.Background()
	s, err := Open(filepath.Join(t.TempDir(), "data", "book.sqlite"))
	require.NoError(t, err)
	defer s.Close()

	_, err = s.AppendRows(ctx, "Ledger", store.MustRange("A2"), []store.Row{
		{"Cash A/c"},
		{"15 Jan 2024", "To Service Income A/c", "J1", "5000.00"},
		{"", ""},
		{"Service Income A/c"},
	})
	require.NoError(t, err)

	var count int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM sheet_rows WHERE sheet = 'Ledger'`).Scan(&count))
	assert.Equal(t, 3, count, "blank separator rows are not stored")

	rows, err := s.ReadRows(ctx, "Ledger", store.MustRange("A2:A1000"))
	require.NoError(t, err)
	assert.Equal(t, []store.Row{{"Cash A/c"}, {"15 Jan 2024"}, {""}, {"Service Income A/c"}}, rows)
}
