package storage

import (
	"context"
	"fmt"

	"github.com/rl1809/stockledger/internal/core/domain"
	"github.com/rl1809/stockledger/internal/core/record"
	"github.com/rl1809/stockledger/internal/port"
)

// Seed writes both headers and the given rows starting at row 1. Callers
// empty the tables first; Seed only overwrites the rows it covers.
func Seed(ctx context.Context, store port.TableStore, inventoryTable, salesTable string, items []domain.Item, sales []domain.Sale) error {
	invRows := make([][]any, 0, len(items)+1)
	invRows = append(invRows, record.HeaderRow(record.InventoryHeader))
	for _, item := range items {
		invRows = append(invRows, record.InventoryRow(item))
	}
	if err := store.WriteRows(ctx, inventoryTable, 1, invRows); err != nil {
		return fmt.Errorf("seed %s: %w", inventoryTable, err)
	}

	salesRows := make([][]any, 0, len(sales)+1)
	salesRows = append(salesRows, record.HeaderRow(record.SalesHeader))
	for _, sale := range sales {
		salesRows = append(salesRows, record.SaleRow(sale))
	}
	if err := store.WriteRows(ctx, salesTable, 1, salesRows); err != nil {
		return fmt.Errorf("seed %s: %w", salesTable, err)
	}

	return nil
}
