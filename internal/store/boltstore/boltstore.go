// Package boltstore keeps sheets in a bbolt database file.
package boltstore

import (
	"context"
	"encoding/json"
	"fmt"

	bolt "go.etcd.io/bbolt"

	"github.com/cleared-dev/bookpost/internal/store"
)

// BucketSheets holds one key per sheet name.
const BucketSheets = "sheets"

// Store is a SheetStore over a bbolt database.
type Store struct {
	*store.SheetStore
	db *bolt.DB
}

type backend struct {
	db *bolt.DB
}

// Open opens (or creates) the database file and initializes buckets.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(BucketSheets)); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", BucketSheets, err)
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{SheetStore: store.NewSheetStore(&backend{db: db}), db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (b *backend) View(ctx context.Context, sheet string, fn func([][]string) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.db.View(func(tx *bolt.Tx) error {
		cells, err := get(tx, sheet)
		if err != nil {
			return err
		}
		return fn(cells)
	})
}

func (b *backend) Update(ctx context.Context, sheet string, fn func([][]string) ([][]string, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		cells, err := get(tx, sheet)
		if err != nil {
			return err
		}
		out, err := fn(cells)
		if err != nil {
			return err
		}

		data, err := json.Marshal(out)
		if err != nil {
			return fmt.Errorf("failed to marshal sheet: %w", err)
		}
		return tx.Bucket([]byte(BucketSheets)).Put([]byte(sheet), data)
	})
}

func get(tx *bolt.Tx, sheet string) ([][]string, error) {
	bucket := tx.Bucket([]byte(BucketSheets))
	if bucket == nil {
		return nil, fmt.Errorf("bucket %s not found", BucketSheets)
	}

	data := bucket.Get([]byte(sheet))
	if data == nil {
		return nil, nil
	}

	var cells [][]string
	if err := json.Unmarshal(data, &cells); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sheet: %w", err)
	}
	return cells, nil
}
