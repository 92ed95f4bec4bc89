package postlog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

func testEntry() Entry {
	return Entry{
		Timestamp:     testTime,
		PostingID:     "6f1c7c2e-3a51-4d8e-9c0e-0d4a5b1f2e77",
		Step:          "journal",
		Outcome:       OutcomeOK,
		JournalNumber: "J1",
		Details:       "Journal!A2:I3",
	}
}

func TestAppend_NewFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, []Entry{testEntry()}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "journal", entries[0].Step)

	data, err := os.ReadFile(filepath.Join(dir, "logs", "posting-log.csv"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), Header+"\n"))
}

func TestAppend_ExistingFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, []Entry{testEntry()}))

	e2 := testEntry()
	e2.Step = "ledger"
	e2.Outcome = OutcomeFailed
	e2.Details = "store unavailable, with a comma"
	require.NoError(t, Append(dir, []Entry{e2}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "journal", entries[0].Step)
	assert.Equal(t, OutcomeFailed, entries[1].Outcome)
	assert.Equal(t, "store unavailable, with a comma", entries[1].Details)
}

func TestRead_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	original := testEntry()
	require.NoError(t, Append(dir, []Entry{original}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	got := entries[0]
	assert.True(t, original.Timestamp.Equal(got.Timestamp))
	got.Timestamp = original.Timestamp
	assert.Equal(t, original, got)
}

func TestRead_NotFound(t *testing.T) {
	entries, err := Read(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestRead_HeaderOnly(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, nil))

	entries, err := Read(dir)
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestUnmarshalEntry_BadTimestamp(t *testing.T) {
	row := MarshalEntry(testEntry())
	row[colTimestamp] = "yesterday"
	_, err := UnmarshalEntry(row)
	assert.ErrorContains(t, err, "parsing timestamp")
}

func TestFile_Record(t *testing.T) {
	dir := t.TempDir()
	f := NewFile(dir)
	require.NoError(t, f.Record(testEntry()))
	require.NoError(t, f.Record(testEntry()))

	entries, err := Read(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestMemory_Record(t *testing.T) {
	var m Memory
	require.NoError(t, m.Record(testEntry()))
	got := m.Entries()
	require.Len(t, got, 1)
	got[0].Step = "changed"
	assert.Equal(t, "journal", m.Entries()[0].Step)
}
