package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rl1809/stockledger/internal/core/domain"
	"github.com/rl1809/stockledger/internal/core/record"
	"github.com/rl1809/stockledger/internal/port"
)

// SaleRecorder owns the Sales table. It only appends.
type SaleRecorder struct {
	store  port.TableStore
	parser *record.Parser
	table  string
	now    func() time.Time
	logger *zap.Logger
}

func NewSaleRecorder(store port.TableStore, parser *record.Parser, table string, logger *zap.Logger) *SaleRecorder {
	return &SaleRecorder{
		store:  store,
		parser: parser,
		table:  table,
		now:    time.Now,
		logger: logger,
	}
}

// WithClock replaces the clock used to date sales.
func (r *SaleRecorder) WithClock(now func() time.Time) *SaleRecorder {
	r.now = now
	return r
}

// Record appends one sale dated today. Calling it twice records two sales.
func (r *SaleRecorder) Record(ctx context.Context, sku string, quantity int, unitPrice decimal.Decimal, customer string) (domain.Sale, error) {
	if _, err := record.ValidateQuantity(quantity); err != nil {
		return domain.Sale{}, err
	}
	if unitPrice.IsNegative() {
		return domain.Sale{}, fmt.Errorf("unit price: %w: negative value %s", record.ErrMalformedNumber, unitPrice)
	}
	if strings.TrimSpace(customer) == "" {
		customer = domain.DefaultCustomer
	}

	sale := domain.Sale{
		Date:       r.now().Format(record.DateLayout),
		SKU:        sku,
		Quantity:   quantity,
		UnitPrice:  unitPrice,
		TotalPrice: unitPrice.Mul(decimal.NewFromInt(int64(quantity))),
		Customer:   customer,
	}

	if err := r.store.AppendRow(ctx, r.table, record.SaleRow(sale)); err != nil {
		return domain.Sale{}, &RemoteError{Op: "append", Table: r.table, Err: err}
	}

	r.logger.Info("sale recorded",
		zap.String("sku", sale.SKU),
		zap.Int("quantity", sale.Quantity),
		zap.String("total", sale.TotalPrice.StringFixed(2)),
		zap.String("customer", sale.Customer),
	)
	return sale, nil
}

// SalesOn scans the ledger in store order and returns the sales whose date
// cell equals date exactly.
func (r *SaleRecorder) SalesOn(ctx context.Context, date string) ([]domain.Sale, error) {
	rows, err := r.store.ReadAll(ctx, r.table)
	if err != nil {
		return nil, &RemoteError{Op: "read", Table: r.table, Err: err}
	}

	sales := []domain.Sale{}
	for i, row := range dataRows(rows) {
		d, ok := r.parser.SaleDate(row)
		if !ok || d != date {
			continue
		}
		sale, _, err := r.parser.ParseSaleRow(row)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", r.table, i+firstDataRow, err)
		}
		sales = append(sales, sale)
	}
	return sales, nil
}
