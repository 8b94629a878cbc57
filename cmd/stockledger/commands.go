package main

import (
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/rl1809/stockledger/internal/adapter/handler"
	"github.com/rl1809/stockledger/internal/adapter/storage"
	"github.com/rl1809/stockledger/internal/config"
)

func shellAction(c *cli.Context) error {
	s, err := openSession(c)
	if err != nil {
		return err
	}
	defer s.Close()

	in := c.App.Reader
	if in == nil {
		in = os.Stdin
	}
	return handler.NewShell(s.svc, in, c.App.Writer, s.logger, s.cfg.Remote.Timeout).Run(c.Context)
}

func inventoryAction(c *cli.Context) error {
	s, err := openSession(c)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, cancel := s.opContext(c.Context)
	defer cancel()

	items, err := s.svc.Reload(ctx)
	if err != nil {
		return err
	}
	handler.RenderInventory(c.App.Writer, items)
	return nil
}

func revenueAction(c *cli.Context) error {
	s, err := openSession(c)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, cancel := s.opContext(c.Context)
	defer cancel()

	rev, err := s.svc.RevenueForDate(ctx, c.String("date"))
	if err != nil {
		return err
	}
	handler.RenderRevenue(c.App.Writer, rev)

	if path := c.String("pdf"); path != "" {
		if err := handler.WriteRevenuePDF(path, rev); err != nil {
			return err
		}
		s.logger.Info("revenue report written", zap.String("path", path))
	}
	return nil
}

func seedAction(c *cli.Context) error {
	s, err := openSession(c)
	if err != nil {
		return err
	}
	defer s.Close()

	switch s.cfg.Backend {
	case config.BackendMemory:
		fmt.Fprintln(c.App.Writer, "memory backend is seeded on start-up")
		return nil
	case config.BackendMySQL:
	default:
		return fmt.Errorf("seed does not support the %s backend", s.cfg.Backend)
	}

	ctx, cancel := s.opContext(c.Context)
	defer cancel()

	inv, sales := s.cfg.Sheets.InventorySheet, s.cfg.Sheets.SalesSheet
	for _, table := range []string{inv, sales} {
		if err := s.mysql.Truncate(ctx, table); err != nil {
			return err
		}
	}

	items := sampleItems()
	if err := storage.Seed(ctx, s.store, inv, sales, items, sampleSales(time.Now())); err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "seeded %d items into %s\n", len(items), inv)
	return nil
}

func divergencesAction(c *cli.Context) error {
	s, err := openSession(c)
	if err != nil {
		return err
	}
	defer s.Close()

	if s.cfg.Journal == config.JournalMemory {
		fmt.Fprintln(c.App.ErrWriter, "warning: journal is \"memory\", so entries from earlier runs are not kept; set journal: redis to persist them")
	}

	ctx, cancel := s.opContext(c.Context)
	defer cancel()

	if c.Bool("clear") {
		if err := s.svc.ClearDivergences(ctx); err != nil {
			return err
		}
		fmt.Fprintln(c.App.Writer, "divergences cleared")
		return nil
	}

	divs, err := s.svc.Divergences(ctx)
	if err != nil {
		return err
	}
	if len(divs) == 0 {
		fmt.Fprintln(c.App.Writer, "no divergences")
		return nil
	}
	handler.RenderDivergences(c.App.Writer, divs)
	return nil
}
