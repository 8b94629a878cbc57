package domain

import "time"

// Divergence marks a sale that reached the Sales sheet while the inventory
// write that should have followed it failed. Until an operator reconciles it,
// the remote stock for SKU is higher than the ledger implies.
type Divergence struct {
	ID       string    `json:"id"`
	SKU      string    `json:"sku"`
	Quantity int       `json:"quantity"`
	Sale     Sale      `json:"sale"`
	Reason   string    `json:"reason"`
	At       time.Time `json:"at"`
}
