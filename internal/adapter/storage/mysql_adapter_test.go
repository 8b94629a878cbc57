package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getMySQLDB(t *testing.T) *sql.DB {
	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		dsn = "root:root@tcp(localhost:3306)/stockledger?parseTime=true"
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Skipf("MySQL not available: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Skipf("MySQL not available: %v", err)
	}

	return db
}

func newTestMySQLAdapter(t *testing.T, table string) *MySQLAdapter {
	db := getMySQLDB(t)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	adapter := NewMySQLAdapter(db)
	require.NoError(t, adapter.EnsureSchema(ctx))
	require.NoError(t, adapter.Truncate(ctx, table))
	t.Cleanup(func() { adapter.Truncate(ctx, table) })
	return adapter
}

func TestMySQLAdapter_AppendAndRead(t *testing.T) {
	ctx := context.Background()
	adapter := newTestMySQLAdapter(t, "test-sales")

	require.NoError(t, adapter.AppendRow(ctx, "test-sales", []any{"Date", "SKU", "Qty Sold", "Price", "Total Price", "Customer"}))
	require.NoError(t, adapter.AppendRow(ctx, "test-sales", []any{"2024-01-05", "A1", 2, json.Number("3.50"), json.Number("7.00"), "Walk-in"}))

	rows, err := adapter.ReadAll(ctx, "test-sales")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"2024-01-05", "A1", "2", "3.5", "7", "Walk-in"}, rows[1])
}

func TestMySQLAdapter_WriteRowsOverwrites(t *testing.T) {
	ctx := context.Background()
	adapter := newTestMySQLAdapter(t, "test-inventory")

	require.NoError(t, adapter.WriteRows(ctx, "test-inventory", 1, [][]any{
		{"SKU", "Name", "Quantity", "Price", "Category"},
		{"A1", "Widget", 10, json.Number("3.5"), "Tools"},
	}))
	require.NoError(t, adapter.WriteRows(ctx, "test-inventory", 2, [][]any{
		{"A1", "Widget", 7, json.Number("3.5"), "Tools"},
	}))

	rows, err := adapter.ReadAll(ctx, "test-inventory")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "7", rows[1][2])
}

func TestMySQLAdapter_GapsReadAsEmptyRows(t *testing.T) {
	ctx := context.Background()
	adapter := newTestMySQLAdapter(t, "test-gaps")

	require.NoError(t, adapter.WriteRows(ctx, "test-gaps", 3, [][]any{{"C3"}}))

	rows, err := adapter.ReadAll(ctx, "test-gaps")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Empty(t, rows[0])
	assert.Empty(t, rows[1])
	assert.Equal(t, []string{"C3"}, rows[2])
}

func TestMySQLAdapter_UnknownTableIsEmpty(t *testing.T) {
	adapter := newTestMySQLAdapter(t, "test-nothing")

	rows, err := adapter.ReadAll(context.Background(), "test-nothing")
	require.NoError(t, err)
	assert.Empty(t, rows)
}
