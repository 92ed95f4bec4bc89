package store

import (
	"context"
	"sync"
)

// Memory is an in-process backend, used by tests and dry runs.
type Memory struct {
	mu     sync.Mutex
	sheets map[string][][]string
}

// NewMemory returns a Store backed by process memory.
func NewMemory() *MemoryStore {
	m := &Memory{sheets: make(map[string][][]string)}
	return &MemoryStore{SheetStore: NewSheetStore(m), mem: m}
}

// View implements Backend.
func (m *Memory) View(ctx context.Context, sheet string, fn func([][]string) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(cloneCells(m.sheets[sheet]))
}

// Update implements Backend.
func (m *Memory) Update(ctx context.Context, sheet string, fn func([][]string) ([][]string, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out, err := fn(cloneCells(m.sheets[sheet]))
	if err != nil {
		return err
	}
	m.sheets[sheet] = out
	return nil
}

// MemoryStore is a SheetStore that also exposes raw sheet contents.
type MemoryStore struct {
	*SheetStore
	mem *Memory
}

// Cells returns a copy of a sheet's raw cells, row 1 first.
func (s *MemoryStore) Cells(sheet string) [][]string {
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()
	return cloneCells(s.mem.sheets[sheet])
}

// Seed replaces a sheet's raw cells.
func (s *MemoryStore) Seed(sheet string, cells [][]string) {
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()
	s.mem.sheets[sheet] = trimTrailing(cloneCells(cells))
}

func cloneCells(cells [][]string) [][]string {
	out := make([][]string, len(cells))
	for i, line := range cells {
		out[i] = append([]string(nil), line...)
	}
	return out
}
