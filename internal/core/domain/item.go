package domain

import "github.com/shopspring/decimal"

// Item is one row of the Inventory sheet.
type Item struct {
	SKU      string
	Name     string
	Stock    int
	Price    decimal.Decimal
	Category string
}
