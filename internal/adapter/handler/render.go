package handler

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/rl1809/stockledger/internal/core/domain"
	"github.com/rl1809/stockledger/internal/core/service"
)

func RenderInventory(w io.Writer, items []domain.Item) {
	if len(items) == 0 {
		fmt.Fprintln(w, "Inventory is empty.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SKU\tName\tStock\tPrice\tCategory")
	for _, item := range items {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", item.SKU, item.Name, item.Stock, item.Price.StringFixed(2), item.Category)
	}
	tw.Flush()
}

func RenderRevenue(w io.Writer, rev service.Revenue) {
	if rev.Empty() {
		fmt.Fprintf(w, "No sales recorded on %s.\n", rev.Date)
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Date\tSKU\tQty\tPrice\tTotal\tCustomer")
	for _, sale := range rev.Matches {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\n",
			sale.Date, sale.SKU, sale.Quantity, sale.UnitPrice.StringFixed(2), sale.TotalPrice.StringFixed(2), sale.Customer)
	}
	tw.Flush()
	fmt.Fprintf(w, "Total revenue for %s: %s (%d sales)\n", rev.Date, rev.Total.StringFixed(2), len(rev.Matches))
}

func RenderDivergences(w io.Writer, divs []domain.Divergence) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  ID\tWhen\tSKU\tQty\tReason")
	for _, d := range divs {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%d\t%s\n", d.ID, d.At.Format("2006-01-02 15:04:05"), d.SKU, d.Quantity, d.Reason)
	}
	tw.Flush()
}
