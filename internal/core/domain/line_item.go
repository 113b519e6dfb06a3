package domain

import "github.com/shopspring/decimal"

// LineItem is one ledger line of the in-progress transaction.
// A product code appears at most once per transaction; adding the same code
// again increases Quantity instead of appending a duplicate line.
type LineItem struct {
	Product  Product `json:"product"`
	Quantity int64   `json:"quantity"` // always >= 1, enforced at the mutation boundary
}

// Total returns the extended price of the line (unit price * quantity).
func (li LineItem) Total() decimal.Decimal {
	return li.Product.UnitPrice.Mul(decimal.NewFromInt(li.Quantity))
}
