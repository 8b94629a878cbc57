package domain

import "github.com/shopspring/decimal"

const DefaultCustomer = "Walk-in"

// Sale is one row of the Sales sheet. Sales are only ever appended.
type Sale struct {
	Date       string          `json:"date"` // YYYY-MM-DD
	SKU        string          `json:"sku"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Customer   string          `json:"customer"`
}
