package handler

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rl1809/stockledger/internal/core/domain"
	"github.com/rl1809/stockledger/internal/core/record"
	"github.com/rl1809/stockledger/internal/core/service"
)

const menu = `
========== INVENTORY MANAGER ==========
1. View inventory
2. Record a sale
3. Reload inventory from store
4. Revenue for a date
5. Exit
`

// Shell is the operator's text menu over a ReconcileService.
type Shell struct {
	svc     *service.ReconcileService
	in      *bufio.Scanner
	out     io.Writer
	logger  *zap.Logger
	timeout time.Duration
}

func NewShell(svc *service.ReconcileService, in io.Reader, out io.Writer, logger *zap.Logger, timeout time.Duration) *Shell {
	return &Shell{
		svc:     svc,
		in:      bufio.NewScanner(in),
		out:     out,
		logger:  logger,
		timeout: timeout,
	}
}

// Run loads inventory and serves the menu until the operator exits or input
// ends. Operation errors are reported and the loop continues.
func (s *Shell) Run(ctx context.Context) error {
	s.reload(ctx)

	for {
		fmt.Fprint(s.out, menu)
		choice, ok := s.prompt("Choose an option (1-5): ")
		if !ok {
			return s.in.Err()
		}

		switch choice {
		case "1":
			RenderInventory(s.out, s.svc.Inventory())
		case "2":
			s.sell(ctx)
		case "3":
			s.reload(ctx)
		case "4":
			s.revenue(ctx)
		case "5":
			fmt.Fprintln(s.out, "Goodbye.")
			return nil
		default:
			fmt.Fprintf(s.out, "Invalid choice %q, please enter a number from 1 to 5.\n", choice)
		}
	}
}

func (s *Shell) prompt(label string) (string, bool) {
	fmt.Fprint(s.out, label)
	if !s.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.in.Text()), true
}

func (s *Shell) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *Shell) reload(ctx context.Context) {
	opCtx, cancel := s.opContext(ctx)
	defer cancel()

	items, err := s.svc.Reload(opCtx)
	if err != nil {
		s.report("reload", err)
		return
	}
	fmt.Fprintf(s.out, "✓ Loaded %d items.\n", len(items))
	s.warnDivergences(opCtx)
}

func (s *Shell) sell(ctx context.Context) {
	sku, ok := s.prompt("SKU: ")
	if !ok {
		return
	}
	rawQty, ok := s.prompt("Quantity: ")
	if !ok {
		return
	}

	// Sign and stock checks belong to Sell, after the SKU lookup.
	qty, err := record.ParseWholeNumber(rawQty)
	if err != nil {
		s.report("sell", err)
		return
	}

	opCtx, cancel := s.opContext(ctx)
	defer cancel()

	sale, err := s.svc.Sell(opCtx, sku, qty)
	if err != nil {
		s.report("sell", err)
		return
	}

	fmt.Fprintf(s.out, "✓ Sold %d x %s at %s each, total %s.\n",
		sale.Quantity, sale.SKU, sale.UnitPrice.StringFixed(2), sale.TotalPrice.StringFixed(2))
}

func (s *Shell) revenue(ctx context.Context) {
	date, ok := s.prompt("Date (YYYY-MM-DD): ")
	if !ok {
		return
	}

	opCtx, cancel := s.opContext(ctx)
	defer cancel()

	rev, err := s.svc.RevenueForDate(opCtx, date)
	if err != nil {
		s.report("revenue", err)
		return
	}
	RenderRevenue(s.out, rev)
}

func (s *Shell) warnDivergences(ctx context.Context) {
	divs, err := s.svc.Divergences(ctx)
	if err != nil {
		s.logger.Warn("could not read divergence journal", zap.Error(err))
		return
	}
	if len(divs) == 0 {
		return
	}
	fmt.Fprintf(s.out, "⚠ %d sale(s) reached the Sales sheet without a matching inventory update:\n", len(divs))
	RenderDivergences(s.out, divs)
	fmt.Fprintln(s.out, "  Check the stock of these SKUs in the spreadsheet, then clear with `stockledger divergences --clear`.")
}

// report turns an operation error into operator-facing text.
func (s *Shell) report(op string, err error) {
	var inconsistent *service.InconsistentStateError
	switch {
	case errors.As(err, &inconsistent):
		fmt.Fprintln(s.out, inconsistentMessage(inconsistent.Sale))
		fmt.Fprintf(s.out, "  cause: %v\n", inconsistent.Err)
	case service.IsClientError(err):
		fmt.Fprintf(s.out, "✗ %v\n", err)
	case service.IsRemoteError(err):
		s.logger.Error("remote store failure", zap.String("op", op), zap.Error(err))
		fmt.Fprintf(s.out, "✗ Remote store unavailable, nothing changed locally: %v\n", err)
	default:
		s.logger.Error("operation failed", zap.String("op", op), zap.Error(err))
		fmt.Fprintf(s.out, "✗ %s failed: %v\n", op, err)
	}
}

func inconsistentMessage(sale domain.Sale) string {
	return fmt.Sprintf("⚠ Sale of %d x %s (total %s) WAS recorded in the Sales sheet, but the inventory sheet was NOT updated.\n"+
		"  The sales ledger is now ahead of the inventory sheet. Stock shown here is correct for this session;\n"+
		"  the spreadsheet still shows the old stock. Do not re-enter this sale.",
		sale.Quantity, sale.SKU, sale.TotalPrice.StringFixed(2))
}
