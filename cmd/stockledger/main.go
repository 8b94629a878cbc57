package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "stockledger:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "stockledger",
		Usage: "inventory and sales ledger on a spreadsheet",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to config file (default: ./config/config.yaml or ./config.yaml)",
			},
			&cli.StringFlag{
				Name:    "backend",
				Aliases: []string{"b"},
				Usage:   "table store backend: sheets, mysql or memory",
			},
		},
		Action: shellAction,
		Commands: []*cli.Command{
			{
				Name:   "shell",
				Usage:  "interactive inventory menu (default)",
				Action: shellAction,
			},
			{
				Name:   "inventory",
				Usage:  "print the current inventory",
				Action: inventoryAction,
			},
			{
				Name:  "revenue",
				Usage: "total revenue for a day",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "date", Aliases: []string{"d"}, Usage: "day as YYYY-MM-DD", Required: true},
					&cli.StringFlag{Name: "pdf", Usage: "also write the report to this PDF file"},
				},
				Action: revenueAction,
			},
			{
				Name:   "seed",
				Usage:  "reset the mysql backend to headers and sample rows",
				Action: seedAction,
			},
			{
				Name:  "divergences",
				Usage: "list sales recorded without a matching inventory update",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "clear", Usage: "acknowledge and remove all entries"},
				},
				Action: divergencesAction,
			},
		},
	}
}
