package services

import (
	"github.com/sdejesus/pos_register_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// taxRate is the fixed sales tax applied to the discounted subtotal.
var taxRate = decimal.NewFromFloat(0.07)

// ledgerSubtotal sums the extended totals of the ledger lines.
func ledgerSubtotal(items []domain.LineItem) decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Total())
	}
	return subtotal
}

// computeTotals derives the pricing snapshot from the ledger and the cached
// discount amount. Tax and total are rounded to cents.
//
//	taxable = subtotal - discount
//	tax     = taxable * 0.07
//	total   = taxable + tax
func computeTotals(items []domain.LineItem, discount decimal.Decimal) (subtotal, tax, total decimal.Decimal) {
	subtotal = ledgerSubtotal(items)
	taxable := subtotal.Sub(discount)
	tax = taxable.Mul(taxRate).Round(2)
	total = taxable.Add(tax).Round(2)
	return subtotal, tax, total
}
