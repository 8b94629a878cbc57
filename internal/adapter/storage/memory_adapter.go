package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/rl1809/stockledger/internal/core/record"
)

// MemoryAdapter is an in-process table store for local runs and tests.
type MemoryAdapter struct {
	mu     sync.Mutex
	tables map[string][][]string
}

func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{tables: make(map[string][][]string)}
}

// CreateTable adds an empty table, or truncates an existing one, and writes header as row 1.
func (m *MemoryAdapter) CreateTable(table string, header []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[table] = [][]string{append([]string(nil), header...)}
}

func (m *MemoryAdapter) ReadAll(_ context.Context, table string) ([][]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rows, ok := m.tables[table]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, table)
	}

	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = append([]string(nil), row...)
	}
	return out, nil
}

// WriteRows overwrites the leading cells of each target row and keeps any
// cells to their right, as a spreadsheet range update does.
func (m *MemoryAdapter) WriteRows(_ context.Context, table string, startRow int, rows [][]any) error {
	if startRow < 1 {
		return fmt.Errorf("invalid start row %d", startRow)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tables[table]
	if !ok {
		return fmt.Errorf("%w: %s", ErrTableNotFound, table)
	}

	for i, cells := range rows {
		idx := startRow - 1 + i
		for len(t) <= idx {
			t = append(t, []string{})
		}
		row := t[idx]
		for len(row) < len(cells) {
			row = append(row, "")
		}
		for j, c := range cells {
			row[j] = record.CellString(c)
		}
		t[idx] = row
	}

	m.tables[table] = t
	return nil
}

func (m *MemoryAdapter) AppendRow(_ context.Context, table string, row []any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tables[table]
	if !ok {
		return fmt.Errorf("%w: %s", ErrTableNotFound, table)
	}

	cells := make([]string, len(row))
	for i, c := range row {
		cells[i] = record.CellString(c)
	}
	m.tables[table] = append(t, cells)
	return nil
}
