package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rl1809/stockledger/internal/core/domain"
	"github.com/rl1809/stockledger/internal/core/record"
)

const (
	inventoryTable = "Inventory"
	salesTable     = "Sales"
)

var errBackendDown = errors.New("backend down")

// Mock TableStore
type mockTableStore struct {
	mu        sync.Mutex
	tables    map[string][][]string
	writes    int
	appends   int
	failRead  map[string]bool
	failWrite bool
	failAppnd bool
}

func newMockTableStore() *mockTableStore {
	return &mockTableStore{
		tables: map[string][][]string{
			inventoryTable: {record.InventoryHeader},
			salesTable:     {record.SalesHeader},
		},
		failRead: make(map[string]bool),
	}
}

func (m *mockTableStore) ReadAll(ctx context.Context, table string) ([][]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failRead[table] {
		return nil, errBackendDown
	}
	rows, ok := m.tables[table]
	if !ok {
		return nil, fmt.Errorf("table %q not found", table)
	}
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = append([]string(nil), row...)
	}
	return out, nil
}

func (m *mockTableStore) WriteRows(ctx context.Context, table string, startRow int, rows [][]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWrite {
		return errBackendDown
	}
	m.writes++
	t := m.tables[table]
	for i, cells := range rows {
		idx := startRow - 1 + i
		for len(t) <= idx {
			t = append(t, []string{})
		}
		t[idx] = toStrings(cells)
	}
	m.tables[table] = t
	return nil
}

func (m *mockTableStore) AppendRow(ctx context.Context, table string, row []any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failAppnd {
		return errBackendDown
	}
	m.appends++
	m.tables[table] = append(m.tables[table], toStrings(row))
	return nil
}

func (m *mockTableStore) seed(table string, rows ...[]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[table] = append(m.tables[table], rows...)
}

func (m *mockTableStore) rows(table string) [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tables[table]
}

func toStrings(cells []any) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = record.CellString(c)
	}
	return out
}

// Mock DivergenceLog
type mockJournal struct {
	entries []domain.Divergence
	fail    bool
}

func (j *mockJournal) Record(ctx context.Context, d domain.Divergence) error {
	if j.fail {
		return errBackendDown
	}
	j.entries = append(j.entries, d)
	return nil
}

func (j *mockJournal) List(ctx context.Context) ([]domain.Divergence, error) {
	return j.entries, nil
}

func (j *mockJournal) Clear(ctx context.Context) error {
	j.entries = nil
	return nil
}

var fixedDay = time.Date(2024, time.January, 5, 14, 30, 0, 0, time.UTC)

type testEnv struct {
	store   *mockTableStore
	journal *mockJournal
	cache   *InventoryCache
	svc     *ReconcileService
}

func newTestEnv(inventory ...[]string) *testEnv {
	store := newMockTableStore()
	store.seed(inventoryTable, inventory...)

	logger := zap.NewNop()
	parser := record.NewParser(record.MinInventoryFields)
	cache := NewInventoryCache(store, parser, inventoryTable, logger)
	recorder := NewSaleRecorder(store, parser, salesTable, logger).WithClock(func() time.Time { return fixedDay })
	journal := &mockJournal{}

	return &testEnv{
		store:   store,
		journal: journal,
		cache:   cache,
		svc:     NewReconcileService(cache, recorder, journal, logger),
	}
}
