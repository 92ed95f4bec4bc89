// Package sqlitestore keeps sheets as numbered rows in a SQLite table.
package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/cleared-dev/bookpost/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS sheet_rows (
	sheet   TEXT    NOT NULL,
	row_num INTEGER NOT NULL,
	cells   TEXT    NOT NULL,
	PRIMARY KEY (sheet, row_num)
);
`

// Store is a SheetStore over a SQLite database.
type Store struct {
	*store.SheetStore
	db *sql.DB
}

type backend struct {
	db *sql.DB
}

// Open opens the database, enabling WAL mode, and applies the schema.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	connStr := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Store{SheetStore: store.NewSheetStore(&backend{db: db}), db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (b *backend) View(ctx context.Context, sheet string, fn func([][]string) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cells, err := load(ctx, b.db, sheet)
	if err != nil {
		return err
	}
	return fn(cells)
}

func (b *backend) Update(ctx context.Context, sheet string, fn func([][]string) ([][]string, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	cells, err := load(ctx, tx, sheet)
	if err != nil {
		return err
	}
	out, err := fn(cells)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM sheet_rows WHERE sheet = ?`, sheet); err != nil {
		return fmt.Errorf("failed to clear sheet: %w", err)
	}
	for i, line := range out {
		if store.Row(line).IsEmpty() {
			continue
		}
		data, err := json.Marshal(line)
		if err != nil {
			return fmt.Errorf("failed to marshal row %d: %w", i+1, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO sheet_rows (sheet, row_num, cells) VALUES (?, ?, ?)`,
			sheet, i+1, string(data),
		); err != nil {
			return fmt.Errorf("failed to insert row %d: %w", i+1, err)
		}
	}
	return tx.Commit()
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func load(ctx context.Context, q querier, sheet string) ([][]string, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT row_num, cells FROM sheet_rows WHERE sheet = ? ORDER BY row_num`, sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to query sheet: %w", err)
	}
	defer rows.Close()

	var cells [][]string
	for rows.Next() {
		var n int
		var data string
		if err := rows.Scan(&n, &data); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		var line []string
		if err := json.Unmarshal([]byte(data), &line); err != nil {
			return nil, fmt.Errorf("failed to unmarshal row %d: %w", n, err)
		}
		for len(cells) < n-1 {
			cells = append(cells, nil)
		}
		cells = append(cells, line)
	}
	return cells, rows.Err()
}
