package id

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatJournalNumber(t *testing.T) {
	tests := []struct {
		seq  int
		want string
	}{
		{1, "J1"},
		{12, "J12"},
		{250, "J250"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatJournalNumber(tt.seq))
	}
}

func TestParseJournalNumber(t *testing.T) {
	seq, err := ParseJournalNumber("J17")
	require.NoError(t, err)
	assert.Equal(t, 17, seq)
}

func TestParseJournalNumber_Errors(t *testing.T) {
	badInputs := []string{
		"",
		"17",
		"J",
		"Jx",
		"J0",
		"j3",
	}
	for _, input := range badInputs {
		_, err := ParseJournalNumber(input)
		assert.Error(t, err, "expected error for input: %s", input)
	}
}

func TestNextJournalNumber(t *testing.T) {
	tests := []struct {
		existing int
		want     string
	}{
		{0, "J1"},
		{2, "J2"},
		{4, "J3"},
		{198, "J100"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NextJournalNumber(tt.existing), "existing rows %d", tt.existing)
	}
}

func TestNextRow(t *testing.T) {
	assert.Equal(t, 2, NextRow(0))
	assert.Equal(t, 7, NextRow(5))
}
