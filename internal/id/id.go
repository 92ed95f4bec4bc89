package id

import (
	"fmt"
	"strconv"
	"strings"
)

// HeaderRows is the number of header rows at the top of every sheet.
const HeaderRows = 1

// RowsPerEntry is how many physical journal rows one entry occupies.
const RowsPerEntry = 2

// FormatJournalNumber returns a journal number like "J12".
func FormatJournalNumber(seq int) string {
	return "J" + strconv.Itoa(seq)
}

// ParseJournalNumber parses "J12" into 12.
func ParseJournalNumber(number string) (int, error) {
	if !strings.HasPrefix(number, "J") {
		return 0, fmt.Errorf("invalid journal number format: %q", number)
	}
	seq, err := strconv.Atoi(number[1:])
	if err != nil {
		return 0, fmt.Errorf("invalid sequence in journal number %q: %w", number, err)
	}
	if seq < 1 {
		return 0, fmt.Errorf("invalid sequence in journal number %q: must be positive", number)
	}
	return seq, nil
}

// NextRow returns the sheet row the next append lands on, given how many data
// rows already sit below the header.
func NextRow(existingRows int) int {
	return existingRows + HeaderRows + 1
}

// JournalNumberForRow maps the first physical row of an entry to its number.
// Row 2 is J1, row 4 is J2, and so on.
func JournalNumberForRow(row int) string {
	return FormatJournalNumber(row / RowsPerEntry)
}

// NextJournalNumber derives the number of the next entry from the journal's
// current data row count. The counter is not persisted anywhere.
func NextJournalNumber(existingRows int) string {
	return JournalNumberForRow(NextRow(existingRows))
}
