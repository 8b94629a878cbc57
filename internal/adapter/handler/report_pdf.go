package handler

import (
	"fmt"
	"strconv"

	"github.com/jung-kurt/gofpdf"

	"github.com/rl1809/stockledger/internal/core/service"
)

var revenueColumns = []struct {
	title string
	width float64
}{
	{"SKU", 35},
	{"Qty", 20},
	{"Price", 30},
	{"Total", 30},
	{"Customer", 65},
}

// WriteRevenuePDF renders a one-day revenue report to path.
func WriteRevenuePDF(path string, rev service.Revenue) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, "Revenue report "+rev.Date, "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 11)
	for _, col := range revenueColumns {
		pdf.CellFormat(col.width, 8, col.title, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 11)
	for _, sale := range rev.Matches {
		cells := []string{
			sale.SKU,
			strconv.Itoa(sale.Quantity),
			sale.UnitPrice.StringFixed(2),
			sale.TotalPrice.StringFixed(2),
			sale.Customer,
		}
		for i, col := range revenueColumns {
			align := "L"
			if i > 0 && i < 4 {
				align = "R"
			}
			pdf.CellFormat(col.width, 7, cells[i], "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, fmt.Sprintf("Total: %s (%d sales)", rev.Total.StringFixed(2), len(rev.Matches)), "", 1, "R", false, 0, "")

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write pdf %s: %w", path, err)
	}
	return nil
}
