// Package importer reads transaction CSV files dropped into a book's
// import/ directory.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cleared-dev/bookpost/internal/model"
)

// Row is one parsed request together with the CSV line it came from.
type Row struct {
	Line    int
	Request model.TransactionRequest
}

// Record is one CSV record and the file line it starts on.
type Record struct {
	Line   int
	Fields []string
}

// Parser converts one CSV layout into transaction requests.
type Parser interface {
	Format() string
	// Matches reports whether the header row belongs to this layout.
	Matches(header []string) bool
	// Parse receives every record after the header.
	Parse(records []Record) ([]Row, error)
}

// ErrUnknownFormat is returned when no registered parser matches a header.
var ErrUnknownFormat = errors.New("unrecognized CSV layout")

// Registry holds named parsers.
type Registry struct {
	parsers []Parser
	byName  map[string]Parser
}

// FileInfo describes a CSV file in the import directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.byName[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.byName[key] = p
	r.parsers = append(r.parsers, p)
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.byName[strings.ToLower(format)]
}

// Detect returns the first registered parser whose layout matches header.
func (r *Registry) Detect(header []string) (Parser, error) {
	for _, p := range r.parsers {
		if p.Matches(header) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, strings.Join(header, ","))
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&TransactionParser{})
	r.Register(&BankParser{})
	return r
}

// Parse reads a whole CSV file and hands it to the matching parser.
func (r *Registry) Parse(in io.Reader) (string, []Row, error) {
	cr := csv.NewReader(in)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var records []Record
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", nil, fmt.Errorf("reading CSV: %w", err)
		}
		line, _ := cr.FieldPos(0)
		records = append(records, Record{Line: line, Fields: fields})
	}
	if len(records) == 0 {
		return "", nil, nil
	}

	p, err := r.Detect(records[0].Fields)
	if err != nil {
		return "", nil, err
	}
	rows, err := p.Parse(records[1:])
	if err != nil {
		return p.Format(), nil, fmt.Errorf("%s: %w", p.Format(), err)
	}
	return p.Format(), rows, nil
}

// ParseFile opens path and parses it.
func (r *Registry) ParseFile(path string) (string, []Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", nil, fmt.Errorf("opening %s: %w", filepath.Base(path), err)
	}
	defer f.Close()
	return r.Parse(f)
}

// importDir is the subdirectory for import CSVs.
const importDir = "import"

// processedDir is the subdirectory for processed CSVs.
const processedDir = "import/processed"

// Dir returns the import directory of a book.
func Dir(bookDir string) string {
	return filepath.Join(bookDir, importDir)
}

// Scan returns CSV files in <bookDir>/import/.
func Scan(bookDir string) ([]FileInfo, error) {
	dir := filepath.Join(bookDir, importDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(e.Name()), ".csv") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// MarkProcessed moves a file from import/ to import/processed/.
func MarkProcessed(bookDir, fileName string) error {
	src := filepath.Join(bookDir, importDir, fileName)
	dstDir := filepath.Join(bookDir, processedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}
