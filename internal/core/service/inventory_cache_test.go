package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/stockledger/internal/core/record"
)

func TestLoad_SkipsHeaderAndShortRows(t *testing.T) {
	env := newTestEnv(
		[]string{"A1", "Widget", "10", "3.50", "Tools"},
		[]string{"B2", "Gadget"},
		[]string{},
		[]string{"C3", "Doohickey", "0", "$12.00", "Misc"},
	)

	items, err := env.cache.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "A1", items[0].SKU)
	assert.Equal(t, "C3", items[1].SKU)
}

func TestLoad_EmptyTable(t *testing.T) {
	env := newTestEnv()
	env.store.tables[inventoryTable] = nil

	items, err := env.cache.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestLoad_MalformedRowKeepsPreviousItems(t *testing.T) {
	env := newTestEnv(widgetRow)
	ctx := context.Background()
	_, err := env.cache.Load(ctx)
	require.NoError(t, err)

	env.store.seed(inventoryTable, []string{"B2", "Gadget", "lots", "1", "Gear"})
	_, err = env.cache.Load(ctx)
	assert.ErrorIs(t, err, record.ErrMalformedNumber)
	assert.Contains(t, err.Error(), "row 3")

	assert.Len(t, env.cache.Items(), 1)
}

func TestLoad_RemoteFailure(t *testing.T) {
	env := newTestEnv(widgetRow)
	env.store.failRead[inventoryTable] = true

	_, err := env.cache.Load(context.Background())
	assert.ErrorIs(t, err, ErrRemoteUnavailable)
	var remote *RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, "read", remote.Op)
	assert.Equal(t, inventoryTable, remote.Table)
}

func TestLoadPersist_RoundTrip(t *testing.T) {
	env := newTestEnv(
		[]string{"A1", "Widget", "10", "3.5", "Tools"},
		[]string{"B2", "Gadget", "4", "1200", "Gear"},
	)
	before := env.store.rows(inventoryTable)
	snapshot := make([][]string, len(before))
	for i, row := range before {
		snapshot[i] = append([]string(nil), row...)
	}

	ctx := context.Background()
	items, err := env.cache.Load(ctx)
	require.NoError(t, err)
	require.NoError(t, env.cache.Persist(ctx, items))

	assert.Equal(t, snapshot, env.store.rows(inventoryTable))
}

func TestPersist_OverwriteWins(t *testing.T) {
	env := newTestEnv(widgetRow)
	ctx := context.Background()
	items, err := env.cache.Load(ctx)
	require.NoError(t, err)

	// Out-of-band edit between load and persist
	env.store.tables[inventoryTable][1] = []string{"A1", "Widget", "99", "3.50", "Tools"}

	require.NoError(t, env.cache.Persist(ctx, items))
	assert.Equal(t, "10", env.store.rows(inventoryTable)[1][2])
}

func TestPersist_EmptyIsNoop(t *testing.T) {
	env := newTestEnv()
	require.NoError(t, env.cache.Persist(context.Background(), nil))
	assert.Equal(t, 0, env.store.writes)
}

func TestItems_ReturnsCopy(t *testing.T) {
	env := newTestEnv(widgetRow)
	items, err := env.cache.Load(context.Background())
	require.NoError(t, err)

	items[0].Stock = 0
	item, _ := env.cache.Find("A1")
	assert.Equal(t, 10, item.Stock)
}
