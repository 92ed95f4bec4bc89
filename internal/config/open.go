package config

import (
	"fmt"

	"github.com/cleared-dev/bookpost/internal/store"
	"github.com/cleared-dev/bookpost/internal/store/boltstore"
	"github.com/cleared-dev/bookpost/internal/store/csvstore"
	"github.com/cleared-dev/bookpost/internal/store/sqlitestore"
)

// OpenStore opens the configured backend. The returned close function is
// never nil.
func (c *Config) OpenStore(bookDir string) (store.Store, func() error, error) {
	noop := func() error { return nil }
	path := c.StorePath(bookDir)

	switch c.Store.Backend {
	case BackendCSV:
		s, err := csvstore.Open(path)
		if err != nil {
			return nil, noop, err
		}
		return s, noop, nil
	case BackendBolt:
		s, err := boltstore.Open(path)
		if err != nil {
			return nil, noop, err
		}
		return s, s.Close, nil
	case BackendSQLite:
		s, err := sqlitestore.Open(path)
		if err != nil {
			return nil, noop, err
		}
		return s, s.Close, nil
	case BackendMemory:
		return store.NewMemory(), noop, nil
	}
	return nil, noop, fmt.Errorf("unknown store backend %q", c.Store.Backend)
}
