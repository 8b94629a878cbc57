package record

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/rl1809/stockledger/internal/core/domain"
)

// Column positions, shared with the sheet layout.
const (
	colSKU = iota
	colName
	colStock
	colPrice
	colCategory
)

const (
	colSaleDate = iota
	colSaleSKU
	colSaleQuantity
	colSaleUnitPrice
	colSaleTotal
	colSaleCustomer
)

const (
	MinInventoryFields = 5
	MinSaleFields      = 5
)

var (
	InventoryHeader = []string{"SKU", "Name", "Quantity", "Price", "Category"}
	SalesHeader     = []string{"Date", "SKU", "Qty Sold", "Price", "Total Price", "Customer"}
)

// SkipShortRows drops rows with fewer than MinFields cells instead of
// failing on them. Header padding and blank rows rely on it.
type SkipShortRows struct {
	MinFields int
}

func (p SkipShortRows) Skip(row []string) bool {
	return len(row) < p.MinFields
}

type Parser struct {
	Inventory SkipShortRows
	Sales     SkipShortRows
}

// NewParser builds a parser whose inventory skip threshold is minInventoryFields.
// Thresholds below the number of columns the parser reads are raised to it.
func NewParser(minInventoryFields int) *Parser {
	if minInventoryFields < MinInventoryFields {
		minInventoryFields = MinInventoryFields
	}
	return &Parser{
		Inventory: SkipShortRows{MinFields: minInventoryFields},
		Sales:     SkipShortRows{MinFields: MinSaleFields},
	}
}

// ParseInventoryRow returns ok=false for rows the skip policy drops.
func (p *Parser) ParseInventoryRow(row []string) (domain.Item, bool, error) {
	if p.Inventory.Skip(row) {
		return domain.Item{}, false, nil
	}

	stock, err := ParseInt(row[colStock])
	if err != nil {
		return domain.Item{}, false, fmt.Errorf("stock: %w", err)
	}
	if stock < 0 {
		return domain.Item{}, false, fmt.Errorf("stock: %w: negative value %d", ErrMalformedNumber, stock)
	}

	price, err := NormalizeCurrency(row[colPrice])
	if err != nil {
		return domain.Item{}, false, fmt.Errorf("price: %w", err)
	}
	if price.IsNegative() {
		return domain.Item{}, false, fmt.Errorf("price: %w: negative value %s", ErrMalformedNumber, price)
	}

	return domain.Item{
		SKU:      strings.TrimSpace(row[colSKU]),
		Name:     row[colName],
		Stock:    stock,
		Price:    price,
		Category: row[colCategory],
	}, true, nil
}

// SaleDate returns the raw date cell of a ledger row, or false if the row is skipped.
func (p *Parser) SaleDate(row []string) (string, bool) {
	if p.Sales.Skip(row) {
		return "", false
	}
	return row[colSaleDate], true
}

func (p *Parser) ParseSaleRow(row []string) (domain.Sale, bool, error) {
	if p.Sales.Skip(row) {
		return domain.Sale{}, false, nil
	}

	qty, err := ParseInt(row[colSaleQuantity])
	if err != nil {
		return domain.Sale{}, false, fmt.Errorf("quantity: %w", err)
	}
	unit, err := NormalizeCurrency(row[colSaleUnitPrice])
	if err != nil {
		return domain.Sale{}, false, fmt.Errorf("unit price: %w", err)
	}
	total, err := NormalizeCurrency(row[colSaleTotal])
	if err != nil {
		return domain.Sale{}, false, fmt.Errorf("total price: %w", err)
	}

	customer := domain.DefaultCustomer
	if len(row) > colSaleCustomer && strings.TrimSpace(row[colSaleCustomer]) != "" {
		customer = row[colSaleCustomer]
	}

	return domain.Sale{
		Date:       row[colSaleDate],
		SKU:        strings.TrimSpace(row[colSaleSKU]),
		Quantity:   qty,
		UnitPrice:  unit,
		TotalPrice: total,
		Customer:   customer,
	}, true, nil
}

// InventoryRow encodes an item in sheet column order. Numeric cells are sent
// as numbers so the sheet keeps them numeric.
func InventoryRow(item domain.Item) []any {
	return []any{
		item.SKU,
		item.Name,
		item.Stock,
		json.Number(item.Price.String()),
		item.Category,
	}
}

func SaleRow(sale domain.Sale) []any {
	return []any{
		sale.Date,
		sale.SKU,
		sale.Quantity,
		json.Number(sale.UnitPrice.StringFixed(2)),
		json.Number(sale.TotalPrice.StringFixed(2)),
		sale.Customer,
	}
}

// HeaderRow converts a header to write cells.
func HeaderRow(header []string) []any {
	row := make([]any, len(header))
	for i, h := range header {
		row[i] = h
	}
	return row
}

// CellString renders a written cell the way a sheet would display it.
func CellString(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case json.Number:
		return c.String()
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	case int:
		return strconv.Itoa(c)
	case int64:
		return strconv.FormatInt(c, 10)
	default:
		return fmt.Sprint(c)
	}
}
