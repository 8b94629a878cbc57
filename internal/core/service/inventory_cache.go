package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/rl1809/stockledger/internal/core/domain"
	"github.com/rl1809/stockledger/internal/core/record"
	"github.com/rl1809/stockledger/internal/port"
)

const firstDataRow = 2

// InventoryCache holds the session's view of the Inventory table. It is the
// source of truth between an explicit Load and the next Persist.
type InventoryCache struct {
	store  port.TableStore
	parser *record.Parser
	table  string
	logger *zap.Logger
	items  []domain.Item
}

func NewInventoryCache(store port.TableStore, parser *record.Parser, table string, logger *zap.Logger) *InventoryCache {
	return &InventoryCache{
		store:  store,
		parser: parser,
		table:  table,
		logger: logger,
	}
}

// Load replaces the cached items with the table contents. On error the
// previous items are kept.
func (c *InventoryCache) Load(ctx context.Context) ([]domain.Item, error) {
	rows, err := c.store.ReadAll(ctx, c.table)
	if err != nil {
		return nil, &RemoteError{Op: "read", Table: c.table, Err: err}
	}

	items := make([]domain.Item, 0, len(rows))
	for i, row := range dataRows(rows) {
		item, ok, err := c.parser.ParseInventoryRow(row)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", c.table, i+firstDataRow, err)
		}
		if !ok {
			c.logger.Debug("skipping short row", zap.String("table", c.table), zap.Int("row", i+firstDataRow))
			continue
		}
		items = append(items, item)
	}

	c.items = items
	c.logger.Info("inventory loaded", zap.String("table", c.table), zap.Int("items", len(items)))
	return c.Items(), nil
}

// Find matches sku case-insensitively; the first item in store order wins.
// The returned pointer aliases the cached item.
func (c *InventoryCache) Find(sku string) (*domain.Item, bool) {
	sku = strings.TrimSpace(sku)
	for i := range c.items {
		if strings.EqualFold(c.items[i].SKU, sku) {
			return &c.items[i], true
		}
	}
	return nil, false
}

// Items returns a copy of the cached items in store order.
func (c *InventoryCache) Items() []domain.Item {
	out := make([]domain.Item, len(c.items))
	copy(out, c.items)
	return out
}

// Persist overwrites the data region of the table with items, starting at the
// first row under the header. Overwrite wins: edits made remotely since the last
// Load are lost, and rows below the last item are left as they were.
func (c *InventoryCache) Persist(ctx context.Context, items []domain.Item) error {
	if len(items) == 0 {
		c.logger.Warn("nothing to persist", zap.String("table", c.table))
		return nil
	}

	rows := make([][]any, len(items))
	for i, item := range items {
		rows[i] = record.InventoryRow(item)
	}

	if err := c.store.WriteRows(ctx, c.table, firstDataRow, rows); err != nil {
		return &RemoteError{Op: "write", Table: c.table, Err: err}
	}

	c.logger.Info("inventory synced", zap.String("table", c.table), zap.Int("items", len(items)))
	return nil
}

func (c *InventoryCache) sync(ctx context.Context) error {
	return c.Persist(ctx, c.items)
}

func dataRows(rows [][]string) [][]string {
	if len(rows) < firstDataRow {
		return nil
	}
	return rows[firstDataRow-1:]
}
