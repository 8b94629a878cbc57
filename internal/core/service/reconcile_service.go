package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rl1809/stockledger/internal/core/domain"
	"github.com/rl1809/stockledger/internal/core/record"
	"github.com/rl1809/stockledger/internal/port"
)

// Revenue is the result of a date-scoped ledger scan. No matches is a valid,
// empty result.
type Revenue struct {
	Date    string
	Matches []domain.Sale
	Total   decimal.Decimal
}

func (r Revenue) Empty() bool {
	return len(r.Matches) == 0
}

// ReconcileService keeps the inventory cache, the Inventory table and the
// Sales ledger in step for one operator session.
type ReconcileService struct {
	cache    *InventoryCache
	recorder *SaleRecorder
	journal  port.DivergenceLog
	logger   *zap.Logger
}

func NewReconcileService(cache *InventoryCache, recorder *SaleRecorder, journal port.DivergenceLog, logger *zap.Logger) *ReconcileService {
	return &ReconcileService{
		cache:    cache,
		recorder: recorder,
		journal:  journal,
		logger:   logger,
	}
}

func (s *ReconcileService) Reload(ctx context.Context) ([]domain.Item, error) {
	return s.cache.Load(ctx)
}

func (s *ReconcileService) Inventory() []domain.Item {
	return s.cache.Items()
}

func (s *ReconcileService) Sell(ctx context.Context, sku string, quantity int) (domain.Sale, error) {
	return s.SellTo(ctx, sku, quantity, domain.DefaultCustomer)
}

// SellTo runs find, validate, decrement, append, persist in that order.
//
// The append and the persist hit two tables with no shared transaction. If the
// append fails the local decrement is undone and nothing was written. If the
// persist fails the sale stays in the ledger, the cache keeps the decremented
// stock, a divergence is journalled and an *InconsistentStateError is returned
// together with the recorded sale.
func (s *ReconcileService) SellTo(ctx context.Context, sku string, quantity int, customer string) (domain.Sale, error) {
	item, ok := s.cache.Find(sku)
	if !ok {
		return domain.Sale{}, fmt.Errorf("%w: %q", ErrItemNotFound, sku)
	}

	if _, err := record.ValidateQuantity(quantity); err != nil {
		return domain.Sale{}, err
	}

	if quantity > item.Stock {
		return domain.Sale{}, &InsufficientStockError{
			SKU:       item.SKU,
			Available: item.Stock,
			Requested: quantity,
		}
	}

	item.Stock -= quantity

	sale, err := s.recorder.Record(ctx, item.SKU, quantity, item.Price, customer)
	if err != nil {
		item.Stock += quantity
		return domain.Sale{}, fmt.Errorf("record sale: %w", err)
	}

	if err := s.cache.sync(ctx); err != nil {
		s.flagDivergence(ctx, sale, err)
		return sale, &InconsistentStateError{Sale: sale, Err: err}
	}

	return sale, nil
}

func (s *ReconcileService) flagDivergence(ctx context.Context, sale domain.Sale, cause error) {
	d := domain.Divergence{
		ID:       uuid.NewString(),
		SKU:      sale.SKU,
		Quantity: sale.Quantity,
		Sale:     sale,
		Reason:   cause.Error(),
		At:       time.Now().UTC(),
	}

	s.logger.Error("inventory not saved after sale was recorded",
		zap.String("divergence_id", d.ID),
		zap.String("sku", sale.SKU),
		zap.Int("quantity", sale.Quantity),
		zap.Error(cause),
	)

	if s.journal == nil {
		return
	}
	if err := s.journal.Record(ctx, d); err != nil {
		s.logger.Error("CRITICAL: divergence not journalled",
			zap.String("divergence_id", d.ID),
			zap.Error(err),
		)
	}
}

// RevenueForDate sums total prices of the ledger rows dated date.
func (s *ReconcileService) RevenueForDate(ctx context.Context, date string) (Revenue, error) {
	if _, err := record.ValidateDate(date); err != nil {
		return Revenue{}, err
	}

	sales, err := s.recorder.SalesOn(ctx, date)
	if err != nil {
		return Revenue{}, err
	}

	total := decimal.Zero
	for _, sale := range sales {
		total = total.Add(sale.TotalPrice)
	}

	return Revenue{Date: date, Matches: sales, Total: total}, nil
}

func (s *ReconcileService) Divergences(ctx context.Context) ([]domain.Divergence, error) {
	if s.journal == nil {
		return nil, nil
	}
	return s.journal.List(ctx)
}

func (s *ReconcileService) ClearDivergences(ctx context.Context) error {
	if s.journal == nil {
		return nil
	}
	return s.journal.Clear(ctx)
}
