// Package postlog persists the outcome of every posting step, including
// compensations, to logs/posting-log.csv inside a book directory.
package postlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Outcome of a single step.
type Outcome string

const (
	OutcomeOK          Outcome = "ok"
	OutcomeSkipped     Outcome = "skipped"
	OutcomeFailed      Outcome = "failed"
	OutcomeCompensated Outcome = "compensated"
	OutcomeCompFailed  Outcome = "compensation_failed"
)

// Entry is one row in the posting log.
type Entry struct {
	Timestamp     time.Time
	PostingID     string
	Step          string
	Outcome       Outcome
	JournalNumber string
	Details       string
}

// Header is the CSV header for posting-log.csv.
const Header = "timestamp,posting_id,step,outcome,journal_number,details"

const (
	numFields        = 6
	logDir           = "logs"
	logFile          = "logs/posting-log.csv"
	colTimestamp     = 0
	colPostingID     = 1
	colStep          = 2
	colOutcome       = 3
	colJournalNumber = 4
	colDetails       = 5
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colPostingID] = e.PostingID
	row[colStep] = e.Step
	row[colOutcome] = string(e.Outcome)
	row[colJournalNumber] = e.JournalNumber
	row[colDetails] = e.Details
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	return Entry{
		Timestamp:     ts,
		PostingID:     record[colPostingID],
		Step:          record[colStep],
		Outcome:       Outcome(record[colOutcome]),
		JournalNumber: record[colJournalNumber],
		Details:       record[colDetails],
	}, nil
}

// Append writes entries to <bookDir>/logs/posting-log.csv, creating the file and header if needed.
func Append(bookDir string, entries []Entry) error {
	dir := filepath.Join(bookDir, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(bookDir, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening posting log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Read returns all entries from <bookDir>/logs/posting-log.csv.
// Returns an empty slice if the file does not exist.
func Read(bookDir string) ([]Entry, error) {
	path := filepath.Join(bookDir, logFile)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening posting log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading posting log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// File records entries into a book directory's posting log.
type File struct {
	mu      sync.Mutex
	bookDir string
}

// NewFile returns a recorder writing under bookDir.
func NewFile(bookDir string) *File {
	return &File{bookDir: bookDir}
}

// Record appends one entry.
func (f *File) Record(e Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Append(f.bookDir, []Entry{e})
}

// Memory keeps entries in process. The zero value is ready to use.
type Memory struct {
	mu      sync.Mutex
	entries []Entry
}

// Record stores one entry.
func (m *Memory) Record(e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	return nil
}

// Entries returns a copy of everything recorded so far.
func (m *Memory) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Entry(nil), m.entries...)
}
