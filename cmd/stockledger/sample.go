package main

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rl1809/stockledger/internal/core/domain"
	"github.com/rl1809/stockledger/internal/core/record"
)

func sampleItems() []domain.Item {
	return []domain.Item{
		{SKU: "BK-001", Name: "Notebook A5", Stock: 120, Price: decimal.RequireFromString("3.50"), Category: "Stationery"},
		{SKU: "BK-002", Name: "Notebook A4", Stock: 80, Price: decimal.RequireFromString("4.75"), Category: "Stationery"},
		{SKU: "PN-010", Name: "Gel Pen Black", Stock: 300, Price: decimal.RequireFromString("1.20"), Category: "Stationery"},
		{SKU: "MG-100", Name: "Coffee Mug", Stock: 25, Price: decimal.RequireFromString("8.00"), Category: "Kitchen"},
		{SKU: "LP-500", Name: "Desk Lamp", Stock: 6, Price: decimal.RequireFromString("29.99"), Category: "Lighting"},
	}
}

func sampleSales(now time.Time) []domain.Sale {
	day := now.Format(record.DateLayout)
	sale := func(sku string, qty int, price string, customer string) domain.Sale {
		unit := decimal.RequireFromString(price)
		return domain.Sale{
			Date:       day,
			SKU:        sku,
			Quantity:   qty,
			UnitPrice:  unit,
			TotalPrice: unit.Mul(decimal.NewFromInt(int64(qty))),
			Customer:   customer,
		}
	}
	return []domain.Sale{
		sale("BK-001", 2, "3.50", domain.DefaultCustomer),
		sale("MG-100", 1, "8.00", "Office Supplies Ltd"),
	}
}
